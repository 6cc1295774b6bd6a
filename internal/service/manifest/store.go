package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/domain/event"
	"github.com/vertextoedge/course-archiver/internal/domain/service"
	"github.com/vertextoedge/course-archiver/internal/domain/vo"
	"github.com/vertextoedge/course-archiver/internal/port"
)

// Store persists manifests and their derived artifacts under the
// output root. Loading accepts any path, including manifests written
// by earlier runs elsewhere.
type Store struct {
	fs         port.FileSystem
	dispatcher event.EventDispatcher
	logger     *zap.Logger
}

// NewStore creates a new manifest store
func NewStore(fs port.FileSystem, dispatcher event.EventDispatcher, logger *zap.Logger) *Store {
	return &Store{
		fs:         fs,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Save writes the manifest JSON into dir and returns the written path.
// The persisted form always carries the schema version.
func (s *Store) Save(m *domain.Manifest, dir string) (string, error) {
	out := *m
	if out.SchemaVersion == 0 {
		out.SchemaVersion = domain.ManifestSchemaVersion
	}

	rel := filepath.Join(dir, service.SanitizeFilename(m.CourseName)+"_resources.json")
	if err := s.writeJSON(rel, &out); err != nil {
		return "", fmt.Errorf("save manifest: %w", err)
	}

	s.logger.Info("manifest saved",
		zap.String("path", rel),
		zap.Int("lessons", m.LessonCount()))
	s.dispatcher.Dispatch(event.NewManifestSaved(rel, m.LessonCount()))

	return rel, nil
}

// WriteEmbedLinks writes the player embed listing next to the manifest
func (s *Store) WriteEmbedLinks(e *domain.EmbedLinks, dir string) (string, error) {
	rel := filepath.Join(dir, service.SanitizeFilename(e.CourseName)+"_embed_links.json")
	if err := s.writeJSON(rel, e); err != nil {
		return "", fmt.Errorf("save embed links: %w", err)
	}

	s.logger.Info("embed links saved", zap.String("path", rel))
	return rel, nil
}

// WriteStructureSummary renders the human-readable course outline
func (s *Store) WriteStructureSummary(m *domain.Manifest, dir string) (string, error) {
	rel := filepath.Join(dir, "course_structure.txt")

	var sb strings.Builder
	sb.WriteString("課程: " + m.CourseName + "\n\n")

	for ci, chapter := range m.Chapters {
		sb.WriteString(fmt.Sprintf("%02d. %s (%s)\n", ci+1, chapter.ChapterTitle, fmtSeconds(chapter.ChapterDuration)))

		for li, lesson := range chapter.SubChapters {
			if lesson.IsError() {
				sb.WriteString(fmt.Sprintf("  %02d. %s [錯誤: %s]\n", li+1, lesson.Title, lesson.Err))
				continue
			}

			sb.WriteString(fmt.Sprintf("  %02d. %s (%s)\n", li+1, lesson.Title, fmtSeconds(lesson.Duration)))
			for _, mat := range lesson.Materials {
				sb.WriteString("      附件: " + mat.Name + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if _, err := s.fs.WriteStream(rel, strings.NewReader(sb.String())); err != nil {
		return "", fmt.Errorf("save structure summary: %w", err)
	}

	s.logger.Info("structure summary saved", zap.String("path", rel))
	return rel, nil
}

// Load reads a manifest file written by a previous run. An absent file
// is domain.ErrNotFound; schema violations fail the load.
func (s *Store) Load(path string) (*domain.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manifest file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var m domain.Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	s.logger.Info("manifest loaded",
		zap.String("path", path),
		zap.String("course", m.CourseName),
		zap.Int("lessons", m.LessonCount()))

	return &m, nil
}

// writeJSON encodes v with two-space indentation and HTML escaping off
// so course URLs stay readable.
func (s *Store) writeJSON(rel string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	_, err := s.fs.WriteStream(rel, &buf)
	return err
}

func fmtSeconds(seconds int) string {
	d, err := vo.NewDuration(seconds)
	if err != nil {
		d = vo.ZeroDuration()
	}
	return d.String()
}
