package ports

import "github.com/aalvaropc/taskproof/internal/domain"

// TargetLoader loads a run target (base URL, token, vars) from a source.
type TargetLoader interface {
	LoadTarget(nameOrPath string) (domain.Target, error)
}
