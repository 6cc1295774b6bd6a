package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ManifestSchemaVersion is written into every saved manifest. Loading
// accepts this version or a legacy file without a version field.
const ManifestSchemaVersion = 1

// Manifest is the persisted, normalized course resource tree. It is
// built fresh per run or reloaded verbatim from a prior run's file and
// is read-only once constructed.
type Manifest struct {
	SchemaVersion int            `json:"schema_version,omitempty"`
	CourseName    string         `json:"course_name"`
	Chapters      []ChapterEntry `json:"chapters"`
}

// ChapterEntry groups the lesson entries of one chapter, preserving the
// course order.
type ChapterEntry struct {
	ChapterTitle    string        `json:"chapter_title"`
	ChapterDuration int           `json:"chapter_duration"`
	SubChapters     []LessonEntry `json:"sub_chapters"`
}

// LessonEntry is either a resolved lesson carrying its download links
// or a failure record carrying only the title and the error message.
// The two forms are exclusive; consumers of a reloaded manifest must
// treat an error entry as skip, do not download.
type LessonEntry struct {
	Title         string
	Duration      int
	VideoLinks    map[string]string
	SubtitleLinks map[string]string
	Materials     []Material
	Err           string
}

// NewLessonEntry builds a resolved lesson entry. Nil link maps are
// stored as empty maps so the persisted form always carries both link
// objects.
func NewLessonEntry(title string, duration int, res *LessonResources, materials []Material) LessonEntry {
	e := LessonEntry{
		Title:         title,
		Duration:      duration,
		VideoLinks:    map[string]string{},
		SubtitleLinks: map[string]string{},
		Materials:     materials,
	}
	if res != nil {
		if res.VideoLinks != nil {
			e.VideoLinks = res.VideoLinks
		}
		if res.SubtitleLinks != nil {
			e.SubtitleLinks = res.SubtitleLinks
		}
	}
	return e
}

// NewLessonErrorEntry records a lesson whose resource fetch failed.
func NewLessonErrorEntry(title string, err error) LessonEntry {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return LessonEntry{Title: title, Err: msg}
}

// IsError returns true for the failure form of the entry.
func (e *LessonEntry) IsError() bool {
	return e.Err != ""
}

type lessonSuccessJSON struct {
	Title         string            `json:"title"`
	Duration      int               `json:"duration"`
	VideoLinks    map[string]string `json:"video_links"`
	SubtitleLinks map[string]string `json:"subtitle_links"`
	Materials     []Material        `json:"materials,omitempty"`
}

type lessonErrorJSON struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// MarshalJSON emits exactly one of the two entry forms.
func (e LessonEntry) MarshalJSON() ([]byte, error) {
	if e.Err != "" {
		return json.Marshal(lessonErrorJSON{Title: e.Title, Error: e.Err})
	}
	out := lessonSuccessJSON{
		Title:         e.Title,
		Duration:      e.Duration,
		VideoLinks:    e.VideoLinks,
		SubtitleLinks: e.SubtitleLinks,
		Materials:     e.Materials,
	}
	if out.VideoLinks == nil {
		out.VideoLinks = map[string]string{}
	}
	if out.SubtitleLinks == nil {
		out.SubtitleLinks = map[string]string{}
	}
	return json.Marshal(out)
}

type lessonEntryJSON struct {
	Title         *string           `json:"title"`
	Duration      *int              `json:"duration"`
	VideoLinks    map[string]string `json:"video_links"`
	SubtitleLinks map[string]string `json:"subtitle_links"`
	Materials     []Material        `json:"materials"`
	Error         *string           `json:"error"`
}

// UnmarshalJSON enforces the entry variant: an error entry carries no
// resource fields and a resolved entry carries both link maps. Anything
// else is a structurally divergent file and fails the load.
func (e *LessonEntry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw lessonEntryJSON
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrManifestSchema, err)
	}
	if raw.Title == nil {
		return fmt.Errorf("%w: lesson entry has no title", ErrManifestSchema)
	}

	if raw.Error != nil {
		if raw.VideoLinks != nil || raw.SubtitleLinks != nil || raw.Materials != nil || raw.Duration != nil {
			return fmt.Errorf("%w: lesson entry %q carries both error and resource fields", ErrManifestSchema, *raw.Title)
		}
		*e = LessonEntry{Title: *raw.Title, Err: *raw.Error}
		if e.Err == "" {
			return fmt.Errorf("%w: lesson entry %q has an empty error", ErrManifestSchema, *raw.Title)
		}
		return nil
	}

	if raw.VideoLinks == nil || raw.SubtitleLinks == nil {
		return fmt.Errorf("%w: lesson entry %q is missing its link maps", ErrManifestSchema, *raw.Title)
	}
	*e = LessonEntry{
		Title:         *raw.Title,
		VideoLinks:    raw.VideoLinks,
		SubtitleLinks: raw.SubtitleLinks,
		Materials:     raw.Materials,
	}
	if raw.Duration != nil {
		e.Duration = *raw.Duration
	}
	return nil
}

// Validate checks the invariants a reloaded manifest must satisfy.
func (m *Manifest) Validate() error {
	if m.SchemaVersion != 0 && m.SchemaVersion != ManifestSchemaVersion {
		return fmt.Errorf("%w: unsupported schema version %d", ErrManifestSchema, m.SchemaVersion)
	}
	if m.CourseName == "" {
		return fmt.Errorf("%w: manifest has no course name", ErrManifestSchema)
	}
	return nil
}

// LessonCount returns the number of lesson entries, both forms counted.
func (m *Manifest) LessonCount() int {
	n := 0
	for _, c := range m.Chapters {
		n += len(c.SubChapters)
	}
	return n
}

// EmbedLinks mirrors the manifest hierarchy with the player embed URL
// of every lesson that was resolved.
type EmbedLinks struct {
	CourseName string         `json:"course_name"`
	Chapters   []EmbedChapter `json:"chapters"`
}

// EmbedChapter groups the embed entries of one chapter.
type EmbedChapter struct {
	ChapterTitle string      `json:"chapter_title"`
	SubChapters  []EmbedLink `json:"sub_chapters"`
}

// EmbedLink is one lesson's player embed URL. The URL is empty for
// lessons whose resource fetch failed.
type EmbedLink struct {
	Title          string `json:"title"`
	PlayerEmbedURL string `json:"player_embed_url"`
}
