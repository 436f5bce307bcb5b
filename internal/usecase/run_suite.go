package usecase

import (
	"context"
	"time"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/ports"
	ucexpect "github.com/aalvaropc/taskproof/internal/usecase/expect"
	ucextract "github.com/aalvaropc/taskproof/internal/usecase/extract"
)

// RunSuite executes every case of a suite against a target, sequentially,
// threading extracted variables into subsequent cases.
type RunSuite struct {
	suites  ports.SuiteLoader
	targets ports.TargetLoader
	runner  ports.CaseRunner
}

func NewRunSuite(sl ports.SuiteLoader, tl ports.TargetLoader, cr ports.CaseRunner) *RunSuite {
	return &RunSuite{
		suites:  sl,
		targets: tl,
		runner:  cr,
	}
}

func (uc *RunSuite) Execute(ctx context.Context, suitePath string, targetNameOrPath string) (domain.SuiteResult, error) {
	suite, err := uc.suites.LoadSuite(suitePath)
	if err != nil {
		return domain.SuiteResult{}, err
	}

	target, err := uc.targets.LoadTarget(targetNameOrPath)
	if err != nil {
		return domain.SuiteResult{}, err
	}

	// suite vars < target vars < extracted runtime vars (updated per case)
	vars := domain.Merge(suite.Vars, target.Vars)

	run := domain.SuiteResult{
		SuiteName:  suite.Name,
		SuitePath:  suitePath,
		TargetName: target.Name,
		StartedAt:  time.Now(),
		Results:    make([]domain.CaseResult, 0, len(suite.Cases)),
	}

	for _, cs := range suite.Cases {
		if err := ctx.Err(); err != nil {
			run.EndedAt = time.Now()
			return run, err
		}

		cr, runErr := uc.runner.Run(ctx, target, cs, vars)
		if runErr != nil {
			// Runner error (config-level): continue but mark the case as failed.
			run.Results = append(run.Results, domain.CaseResult{
				CaseName:  cs.Name,
				Method:    cs.Method,
				URL:       cs.Path,
				Checks:    []domain.CheckResult{},
				Extracts:  []domain.ExtractResult{},
				Extracted: domain.Vars{},
				Response: domain.ResponseSnapshot{
					Headers: map[string][]string{},
				},
				Error: domain.NewRunError(runErr),
			})
			continue
		}

		// Expectations are always evaluated, even if cr.Error != nil.
		cr.Checks = ucexpect.Evaluate(cs.Expect, ucexpect.Observed{
			Status:      cr.StatusCode,
			ContentType: contentTypeOf(cr.Response),
			LatencyMS:   cr.LatencyMS,
			Body:        cr.Response.Body,
		})

		extracted, extractResults := ucextract.Apply(cr.Response.Body, cs.Extract)
		cr.Extracts = extractResults
		cr.Extracted = extracted

		// Update runtime vars for the next case (partial extracts still count).
		for k, v := range extracted {
			vars[k] = v
		}

		run.Results = append(run.Results, cr)
	}

	run.EndedAt = time.Now()
	return run, nil
}

func contentTypeOf(snap domain.ResponseSnapshot) string {
	for k, vals := range snap.Headers {
		if len(vals) > 0 && equalFoldContentType(k) {
			return vals[0]
		}
	}
	return ""
}

func equalFoldContentType(k string) bool {
	return k == "Content-Type" || k == "content-type"
}
