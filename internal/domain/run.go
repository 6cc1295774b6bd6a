package domain

import "time"

// AssetKind classifies one downloaded artifact.
type AssetKind string

const (
	AssetVideo    AssetKind = "video"
	AssetSubtitle AssetKind = "subtitle"
	AssetMaterial AssetKind = "material"
)

// AssetStatus is the recorded outcome of one asset.
type AssetStatus string

const (
	AssetDownloaded AssetStatus = "downloaded"
	AssetSkipped    AssetStatus = "skipped"
	AssetFailed     AssetStatus = "failed"
)

// Run records one archiver invocation in the history ledger.
type Run struct {
	ID         string
	CourseID   int
	CourseName string
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      RunStats
}

// RunStats accumulates the outcomes of a download pass.
type RunStats struct {
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

// AddDownloaded counts one completed asset.
func (s *RunStats) AddDownloaded(bytes int64) {
	s.Downloaded++
	s.Bytes += bytes
}

// AddSkipped counts one asset that was already present.
func (s *RunStats) AddSkipped() {
	s.Skipped++
}

// AddFailed counts one asset whose acquisition failed.
func (s *RunStats) AddFailed() {
	s.Failed++
}

// Total returns the number of assets visited.
func (s RunStats) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// AssetRecord is one asset outcome in the history ledger.
type AssetRecord struct {
	RunID     string
	Path      string
	Kind      AssetKind
	Status    AssetStatus
	Bytes     int64
	Error     string
	CreatedAt time.Time
}
