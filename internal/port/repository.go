package port

import (
	"time"

	"github.com/vertextoedge/course-archiver/internal/domain"
)

// RunRepository persists the run history ledger
type RunRepository interface {
	// CreateRun inserts a new run record
	CreateRun(run *domain.Run) error

	// FinishRun closes a run with its final stats
	FinishRun(id string, finishedAt time.Time, stats domain.RunStats) error

	// RecordAsset appends one asset outcome
	RecordAsset(rec *domain.AssetRecord) error

	// LastRun returns the most recent run for a course
	// Returns domain.ErrNotFound when the course has never been archived
	LastRun(courseID int) (*domain.Run, error)
}
