package satcool

import (
	"encoding/json"
	"fmt"

	"github.com/vertextoedge/course-archiver/internal/domain"
)

// Response is the base response structure from the platform API
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// APIError represents a rejected API call: a non-success transport
// status, a response with the success flag cleared, or a structurally
// invalid payload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return "api error: " + e.Message
}

// classroomPayload is the wire form of the course structure
type classroomPayload struct {
	CourseName string           `json:"course_name"`
	Chapters   []chapterPayload `json:"chapters"`
}

type chapterPayload struct {
	Title    string        `json:"title"`
	Duration int           `json:"duration"`
	Parts    []partPayload `json:"parts"`
}

type partPayload struct {
	ID        flexID            `json:"id"`
	Name      string            `json:"name"`
	Duration  int               `json:"duration"`
	Materials []materialPayload `json:"materials"`
}

// flexID tolerates the id arriving as a string, a number, or null.
// Absent and null ids decode to the empty string, which marks the part
// as skippable rather than failing the parse.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("part id must be a string or a number")
	}
	*f = flexID(n.String())
	return nil
}

type materialPayload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// toDomain validates the payload and converts it. Required fields fail
// closed; a missing part id does not, it marks the part as skippable.
func (p *classroomPayload) toDomain() (*domain.CourseTree, error) {
	if p.CourseName == "" {
		return nil, fmt.Errorf("classroom payload has no course name")
	}

	tree := &domain.CourseTree{
		CourseName: p.CourseName,
		Chapters:   make([]domain.Chapter, 0, len(p.Chapters)),
	}
	for i, ch := range p.Chapters {
		if ch.Title == "" {
			return nil, fmt.Errorf("classroom payload: chapter %d has no title", i+1)
		}
		chapter := domain.Chapter{
			Title:    ch.Title,
			Duration: ch.Duration,
			Parts:    make([]domain.Part, 0, len(ch.Parts)),
		}
		for j, pt := range ch.Parts {
			if pt.Name == "" {
				return nil, fmt.Errorf("classroom payload: chapter %q part %d has no name", ch.Title, j+1)
			}
			part := domain.Part{
				ID:       string(pt.ID),
				Name:     pt.Name,
				Duration: pt.Duration,
			}
			for k, m := range pt.Materials {
				if m.Name == "" || m.URL == "" {
					return nil, fmt.Errorf("classroom payload: part %q material %d is missing name or url", pt.Name, k+1)
				}
				part.Materials = append(part.Materials, domain.Material{Name: m.Name, URL: m.URL})
			}
			chapter.Parts = append(chapter.Parts, part)
		}
		tree.Chapters = append(tree.Chapters, chapter)
	}
	return tree, nil
}

// vimeoPayload is the wire form of one lesson's resource metadata
type vimeoPayload struct {
	Files          []filePayload      `json:"files"`
	TextTracks     []texttrackPayload `json:"texttracks"`
	PlayerEmbedURL string             `json:"player_embed_url"`
}

type filePayload struct {
	Rendition string `json:"rendition"`
	Link      string `json:"link"`
}

type texttrackPayload struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Link     string `json:"link"`
}

// toDomain re-keys files by rendition and subtitle tracks by language.
// Incomplete rendition or track entries fail closed.
func (p *vimeoPayload) toDomain() (*domain.LessonResources, error) {
	res := &domain.LessonResources{
		VideoLinks:     make(map[string]string, len(p.Files)),
		SubtitleLinks:  make(map[string]string),
		PlayerEmbedURL: p.PlayerEmbedURL,
	}

	for i, f := range p.Files {
		if f.Rendition == "" || f.Link == "" {
			return nil, fmt.Errorf("vimeo payload: file %d is missing rendition or link", i+1)
		}
		res.VideoLinks[f.Rendition] = f.Link
	}

	for i, t := range p.TextTracks {
		if t.Type == "" {
			return nil, fmt.Errorf("vimeo payload: texttrack %d has no type", i+1)
		}
		if t.Type != "subtitles" {
			continue
		}
		if t.Language == "" || t.Link == "" {
			return nil, fmt.Errorf("vimeo payload: subtitle track %d is missing language or link", i+1)
		}
		res.SubtitleLinks[t.Language] = t.Link
	}
	return res, nil
}
