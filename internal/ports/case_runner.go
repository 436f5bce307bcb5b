package ports

import (
	"context"

	"github.com/aalvaropc/taskproof/internal/domain"
)

// CaseRunner executes a single conformance case against a target with a
// resolved variable set.
type CaseRunner interface {
	Run(ctx context.Context, target domain.Target, cs domain.CaseSpec, vars domain.Vars) (domain.CaseResult, error)
}
