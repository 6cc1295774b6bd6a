package builder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/domain/event"
	"github.com/vertextoedge/course-archiver/internal/domain/vo"
	"github.com/vertextoedge/course-archiver/internal/port"
	"github.com/vertextoedge/course-archiver/internal/util/ratelimiter"
)

// Builder walks a course tree and resolves every lesson's download
// links into a manifest. Per-lesson fetch failures become error entries
// so one broken lesson never loses the rest of the course.
type Builder struct {
	api        port.CourseAPI
	limiter    *ratelimiter.Limiter
	dispatcher event.EventDispatcher
	logger     *zap.Logger
}

// New creates a new Builder
func New(api port.CourseAPI, limiter *ratelimiter.Limiter, dispatcher event.EventDispatcher, logger *zap.Logger) *Builder {
	return &Builder{
		api:        api,
		limiter:    limiter,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Build resolves the tree into a manifest and the matching embed-link
// listing. Tree order is preserved. Lessons without an id are skipped
// and leave no entry; lessons whose resource fetch fails become error
// entries. Only context cancellation aborts the walk.
func (b *Builder) Build(ctx context.Context, tree *domain.CourseTree) (*domain.Manifest, *domain.EmbedLinks, error) {
	if tree.IsEmpty() {
		return nil, nil, domain.ErrEmptyCourseTree
	}

	b.logger.Info("building course manifest",
		zap.String("course", tree.CourseName),
		zap.Int("chapters", len(tree.Chapters)),
		zap.Duration("pacing", b.limiter.Interval()))

	manifest := &domain.Manifest{
		SchemaVersion: domain.ManifestSchemaVersion,
		CourseName:    tree.CourseName,
		Chapters:      make([]domain.ChapterEntry, 0, len(tree.Chapters)),
	}
	embeds := &domain.EmbedLinks{
		CourseName: tree.CourseName,
		Chapters:   make([]domain.EmbedChapter, 0, len(tree.Chapters)),
	}

	for _, chapter := range tree.Chapters {
		chEntry := domain.ChapterEntry{
			ChapterTitle:    chapter.Title,
			ChapterDuration: chapter.Duration,
			SubChapters:     []domain.LessonEntry{},
		}
		embedCh := domain.EmbedChapter{
			ChapterTitle: chapter.Title,
			SubChapters:  []domain.EmbedLink{},
		}

		for _, part := range chapter.Parts {
			lessonID, idErr := vo.NewLessonID(part.ID)
			if idErr != nil {
				b.logger.Warn("lesson has no id, skipping",
					zap.String("chapter", chapter.Title),
					zap.String("lesson", part.Name),
					zap.Error(domain.ErrMissingLessonID))
				b.dispatcher.Dispatch(event.NewLessonSkipped(chapter.Title, part.Name, domain.ErrMissingLessonID.Error()))
				continue
			}

			if err := b.limiter.Wait(ctx); err != nil {
				return nil, nil, fmt.Errorf("build aborted: %w", err)
			}

			res, err := b.api.FetchLessonResources(lessonID.String())
			if err != nil {
				b.logger.Warn("lesson resource fetch failed",
					zap.String("chapter", chapter.Title),
					zap.String("lesson", part.Name),
					zap.String("lesson_id", lessonID.String()),
					zap.Error(err))
				b.dispatcher.Dispatch(event.NewLessonFetchFailed(chapter.Title, part.Name, lessonID.String(), err.Error()))
				chEntry.SubChapters = append(chEntry.SubChapters, domain.NewLessonErrorEntry(part.Name, err))
				embedCh.SubChapters = append(embedCh.SubChapters, domain.EmbedLink{Title: part.Name})
				continue
			}

			chEntry.SubChapters = append(chEntry.SubChapters, domain.NewLessonEntry(part.Name, part.Duration, res, part.Materials))
			embedCh.SubChapters = append(embedCh.SubChapters, domain.EmbedLink{
				Title:          part.Name,
				PlayerEmbedURL: res.PlayerEmbedURL,
			})
			b.dispatcher.Dispatch(event.NewLessonResolved(chapter.Title, part.Name, lessonID.String(), len(res.VideoLinks), len(res.SubtitleLinks)))
		}

		manifest.Chapters = append(manifest.Chapters, chEntry)
		embeds.Chapters = append(embeds.Chapters, embedCh)
	}

	b.logger.Info("course manifest built",
		zap.String("course", tree.CourseName),
		zap.Int("lessons", manifest.LessonCount()))

	return manifest, embeds, nil
}
