package ports

import "github.com/aalvaropc/taskproof/internal/domain"

// ArtifactStore persists suite run artifacts for reproducibility.
type ArtifactStore interface {
	SaveRun(run domain.SuiteArtifact) (id string, err error)
}
