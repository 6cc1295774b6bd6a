package port

import (
	"io"

	"github.com/vertextoedge/course-archiver/internal/domain"
)

// CourseAPI defines the interface for the course platform API
type CourseAPI interface {
	// FetchCourseTree fetches the whole course structure
	FetchCourseTree() (*domain.CourseTree, error)

	// FetchLessonResources fetches one lesson's resource metadata
	FetchLessonResources(lessonID string) (*domain.LessonResources, error)

	// FetchAsset opens a streaming download of an asset URL
	// Returns: body reader, content length (-1 when unknown), error
	FetchAsset(url string) (io.ReadCloser, int64, error)
}
