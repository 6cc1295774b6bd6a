package sqlite

import (
	"go.uber.org/zap"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/domain/event"
	"github.com/vertextoedge/course-archiver/internal/port"
)

// HistoryHandler records asset outcomes into the run ledger. Ledger
// writes are observational: a failed insert is logged and the download
// pass continues.
type HistoryHandler struct {
	repo   port.RunRepository
	runID  string
	logger *zap.Logger
}

// Ensure HistoryHandler implements event.EventHandler
var _ event.EventHandler = (*HistoryHandler)(nil)

// NewHistoryHandler creates a handler recording asset events for one run
func NewHistoryHandler(repo port.RunRepository, runID string, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		runID:  runID,
		logger: logger,
	}
}

// Handle records the asset outcome behind an event
func (h *HistoryHandler) Handle(e event.DomainEvent) error {
	var rec *domain.AssetRecord

	switch evt := e.(type) {
	case event.AssetDownloaded:
		rec = &domain.AssetRecord{
			RunID:     h.runID,
			Path:      evt.Path,
			Kind:      domain.AssetKind(evt.Kind),
			Status:    domain.AssetDownloaded,
			Bytes:     evt.Bytes,
			CreatedAt: evt.OccurredAt(),
		}
	case event.AssetSkipped:
		rec = &domain.AssetRecord{
			RunID:     h.runID,
			Path:      evt.Path,
			Kind:      domain.AssetKind(evt.Kind),
			Status:    domain.AssetSkipped,
			CreatedAt: evt.OccurredAt(),
		}
	case event.AssetFailed:
		rec = &domain.AssetRecord{
			RunID:     h.runID,
			Path:      evt.Path,
			Kind:      domain.AssetKind(evt.Kind),
			Status:    domain.AssetFailed,
			Error:     evt.Error,
			CreatedAt: evt.OccurredAt(),
		}
	default:
		return nil
	}

	if err := h.repo.RecordAsset(rec); err != nil {
		h.logger.Warn("failed to record asset history",
			zap.String("path", rec.Path),
			zap.Error(err))
	}
	return nil
}

// HandledEvents returns the event names this handler subscribes to
func (h *HistoryHandler) HandledEvents() []string {
	return []string{"asset.downloaded", "asset.skipped", "asset.failed"}
}
