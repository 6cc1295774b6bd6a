package domain

// CourseTree is the raw course structure as returned by the classroom
// endpoint or extracted from the classroom page. It exists only between
// the structure fetch and the manifest build; it is never persisted.
type CourseTree struct {
	CourseName string    `json:"course_name"`
	Chapters   []Chapter `json:"chapters"`
}

// Chapter is one chapter of the course tree.
type Chapter struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Parts    []Part `json:"parts"`
}

// Part is one lesson (sub-chapter) of a chapter. ID is the argument to
// the per-lesson resource fetch; the source omits it for lessons that
// cannot be resolved, and such parts are skipped with a warning.
type Part struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Duration  int        `json:"duration"`
	Materials []Material `json:"materials,omitempty"`
}

// Material is a downloadable attachment of a lesson.
type Material struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LessonCount returns the number of lessons across all chapters.
func (t *CourseTree) LessonCount() int {
	n := 0
	for _, c := range t.Chapters {
		n += len(c.Parts)
	}
	return n
}

// IsEmpty returns true when the tree carries no usable content.
func (t *CourseTree) IsEmpty() bool {
	return t == nil || t.CourseName == "" || len(t.Chapters) == 0
}

// LessonResources holds one lesson's download metadata from the video
// host: links keyed by rendition label and by subtitle language, plus
// the player embed URL used for the embed-links artifact.
type LessonResources struct {
	VideoLinks     map[string]string
	SubtitleLinks  map[string]string
	PlayerEmbedURL string
}

// HasVideo returns true when at least one rendition is available.
func (r *LessonResources) HasVideo() bool {
	return len(r.VideoLinks) > 0
}
