package event

import (
	"go.uber.org/zap"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case LessonResolved:
		h.logger.Debug("lesson resolved",
			zap.String("chapter", e.Chapter),
			zap.String("lesson", e.Lesson),
			zap.String("lesson_id", e.LessonID),
			zap.Int("renditions", e.Renditions),
			zap.Int("subtitles", e.Subtitles),
		)
	case LessonFetchFailed:
		h.logger.Warn("lesson fetch failed",
			zap.String("chapter", e.Chapter),
			zap.String("lesson", e.Lesson),
			zap.String("lesson_id", e.LessonID),
			zap.String("error", e.Error),
		)
	case LessonSkipped:
		h.logger.Warn("lesson skipped",
			zap.String("chapter", e.Chapter),
			zap.String("lesson", e.Lesson),
			zap.String("reason", e.Reason),
		)
	case AssetDownloaded:
		h.logger.Info("asset downloaded",
			zap.String("path", e.Path),
			zap.String("kind", e.Kind),
			zap.Int64("bytes", e.Bytes),
			zap.Duration("elapsed", e.Elapsed),
		)
	case AssetSkipped:
		h.logger.Debug("asset already present",
			zap.String("path", e.Path),
			zap.String("kind", e.Kind),
		)
	case AssetFailed:
		h.logger.Warn("asset download failed",
			zap.String("path", e.Path),
			zap.String("kind", e.Kind),
			zap.String("error", e.Error),
		)
	case ManifestSaved:
		h.logger.Info("manifest saved",
			zap.String("path", e.Path),
			zap.Int("lessons", e.Lessons),
		)
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{"*"} // Handle all events
}
