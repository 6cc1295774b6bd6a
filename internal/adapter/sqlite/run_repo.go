package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/port"
)

// Ensure Store implements port.RunRepository
var _ port.RunRepository = (*Store)(nil)

// CreateRun inserts a new run record
func (s *Store) CreateRun(run *domain.Run) error {
	query := `
		INSERT INTO runs (id, course_id, course_name, started_at, downloaded, skipped, failed, bytes)
		VALUES (?, ?, ?, ?, 0, 0, 0, 0)
	`
	_, err := s.db.Exec(query, run.ID, run.CourseID, run.CourseName, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun closes a run with its final stats
func (s *Store) FinishRun(id string, finishedAt time.Time, stats domain.RunStats) error {
	query := `
		UPDATE runs
		SET finished_at = ?, downloaded = ?, skipped = ?, failed = ?, bytes = ?
		WHERE id = ?
	`
	res, err := s.db.Exec(query, finishedAt, stats.Downloaded, stats.Skipped, stats.Failed, stats.Bytes, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RecordAsset appends one asset outcome to the history
func (s *Store) RecordAsset(rec *domain.AssetRecord) error {
	var errMsg sql.NullString
	if rec.Error != "" {
		errMsg = sql.NullString{String: rec.Error, Valid: true}
	}

	query := `
		INSERT INTO asset_history (run_id, path, kind, status, bytes, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, rec.RunID, rec.Path, string(rec.Kind), string(rec.Status), rec.Bytes, errMsg, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record asset: %w", err)
	}
	return nil
}

// LastRun returns the most recent run for a course
func (s *Store) LastRun(courseID int) (*domain.Run, error) {
	query := `
		SELECT id, course_id, course_name, started_at, finished_at, downloaded, skipped, failed, bytes
		FROM runs
		WHERE course_id = ?
		ORDER BY started_at DESC
		LIMIT 1
	`

	run := &domain.Run{}
	var finishedAt sql.NullTime

	err := s.db.QueryRow(query, courseID).Scan(
		&run.ID, &run.CourseID, &run.CourseName, &run.StartedAt, &finishedAt,
		&run.Stats.Downloaded, &run.Stats.Skipped, &run.Stats.Failed, &run.Stats.Bytes,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course %d: %w", courseID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}

	return run, nil
}
