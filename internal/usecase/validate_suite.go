package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/ports"
)

// ValidateSuite checks a suite + target pair without performing HTTP calls.
type ValidateSuite struct {
	suites   ports.SuiteLoader
	targets  ports.TargetLoader
	resolver *domain.VarResolver
}

type ValidateOption func(*ValidateSuite)

func WithVarResolver(vr *domain.VarResolver) ValidateOption {
	return func(uc *ValidateSuite) {
		if vr != nil {
			uc.resolver = vr
		}
	}
}

func NewValidateSuite(sl ports.SuiteLoader, tl ports.TargetLoader, opts ...ValidateOption) *ValidateSuite {
	uc := &ValidateSuite{
		suites:   sl,
		targets:  tl,
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute resolves every templated field ({{vars}}) statically, assuming
// extract keys of earlier cases become available to later ones.
func (uc *ValidateSuite) Execute(ctx context.Context, suitePath string, targetNameOrPath string) error {
	suite, err := uc.suites.LoadSuite(suitePath)
	if err != nil {
		return err
	}

	target, err := uc.targets.LoadTarget(targetNameOrPath)
	if err != nil {
		return err
	}

	vars := domain.Merge(suite.Vars, target.Vars)

	for _, cs := range suite.Cases {
		if err := ctx.Err(); err != nil {
			return err
		}

		rt, err := uc.resolver.NewRuntime(vars)
		if err != nil {
			return err
		}

		if _, err := rt.ResolveCase(cs); err != nil {
			return fmt.Errorf("case %q: %w", cs.Name, err)
		}

		for k := range cs.Extract {
			if _, ok := vars[k]; !ok {
				vars[k] = "x"
			}
		}
	}

	return nil
}
