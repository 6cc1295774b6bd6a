package event

import (
	"time"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// LessonResolved is raised when a lesson's resource metadata is fetched
type LessonResolved struct {
	BaseEvent
	Chapter    string
	Lesson     string
	LessonID   string
	Renditions int
	Subtitles  int
}

// EventName returns the event name
func (e LessonResolved) EventName() string {
	return "lesson.resolved"
}

// NewLessonResolved creates a new LessonResolved event
func NewLessonResolved(chapter, lesson, lessonID string, renditions, subtitles int) LessonResolved {
	return LessonResolved{
		BaseEvent:  BaseEvent{Timestamp: time.Now()},
		Chapter:    chapter,
		Lesson:     lesson,
		LessonID:   lessonID,
		Renditions: renditions,
		Subtitles:  subtitles,
	}
}

// LessonFetchFailed is raised when a lesson's resource fetch fails and
// the lesson is recorded as an error entry
type LessonFetchFailed struct {
	BaseEvent
	Chapter  string
	Lesson   string
	LessonID string
	Error    string
}

// EventName returns the event name
func (e LessonFetchFailed) EventName() string {
	return "lesson.fetch_failed"
}

// NewLessonFetchFailed creates a new LessonFetchFailed event
func NewLessonFetchFailed(chapter, lesson, lessonID, err string) LessonFetchFailed {
	return LessonFetchFailed{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Chapter:   chapter,
		Lesson:    lesson,
		LessonID:  lessonID,
		Error:     err,
	}
}

// LessonSkipped is raised when a lesson is left out of the manifest
type LessonSkipped struct {
	BaseEvent
	Chapter string
	Lesson  string
	Reason  string
}

// EventName returns the event name
func (e LessonSkipped) EventName() string {
	return "lesson.skipped"
}

// NewLessonSkipped creates a new LessonSkipped event
func NewLessonSkipped(chapter, lesson, reason string) LessonSkipped {
	return LessonSkipped{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Chapter:   chapter,
		Lesson:    lesson,
		Reason:    reason,
	}
}

// AssetDownloaded is raised when one asset is fetched to disk
type AssetDownloaded struct {
	BaseEvent
	Path    string
	Kind    string
	Bytes   int64
	Elapsed time.Duration
}

// EventName returns the event name
func (e AssetDownloaded) EventName() string {
	return "asset.downloaded"
}

// NewAssetDownloaded creates a new AssetDownloaded event
func NewAssetDownloaded(path, kind string, bytes int64, elapsed time.Duration) AssetDownloaded {
	return AssetDownloaded{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		Kind:      kind,
		Bytes:     bytes,
		Elapsed:   elapsed,
	}
}

// AssetSkipped is raised when an asset already exists on disk
type AssetSkipped struct {
	BaseEvent
	Path string
	Kind string
}

// EventName returns the event name
func (e AssetSkipped) EventName() string {
	return "asset.skipped"
}

// NewAssetSkipped creates a new AssetSkipped event
func NewAssetSkipped(path, kind string) AssetSkipped {
	return AssetSkipped{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		Kind:      kind,
	}
}

// AssetFailed is raised when one asset's acquisition fails and its
// partial file is removed
type AssetFailed struct {
	BaseEvent
	Path  string
	Kind  string
	Error string
}

// EventName returns the event name
func (e AssetFailed) EventName() string {
	return "asset.failed"
}

// NewAssetFailed creates a new AssetFailed event
func NewAssetFailed(path, kind, err string) AssetFailed {
	return AssetFailed{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		Kind:      kind,
		Error:     err,
	}
}

// ManifestSaved is raised when the manifest file is written
type ManifestSaved struct {
	BaseEvent
	Path    string
	Lessons int
}

// EventName returns the event name
func (e ManifestSaved) EventName() string {
	return "manifest.saved"
}

// NewManifestSaved creates a new ManifestSaved event
func NewManifestSaved(path string, lessons int) ManifestSaved {
	return ManifestSaved{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		Lessons:   lessons,
	}
}
