package ports

import "github.com/aalvaropc/taskproof/internal/domain"

// SuiteLoader loads conformance suites from a source (e.g., filesystem).
type SuiteLoader interface {
	LoadSuite(path string) (domain.Suite, error)
	ListSuites(root string) ([]domain.SuiteRef, error)
}
