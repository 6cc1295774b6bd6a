package downloader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/domain/event"
	"github.com/vertextoedge/course-archiver/internal/domain/service"
	"github.com/vertextoedge/course-archiver/internal/port"
)

// Config contains downloader configuration
type Config struct {
	CourseID       int
	DesiredQuality string
	Progress       bool
}

// DefaultConfig returns default downloader configuration
func DefaultConfig() *Config {
	return &Config{
		DesiredQuality: "360p",
	}
}

// Downloader walks a manifest and acquires every asset it names. Runs
// are idempotent: an asset whose exact final path already exists is
// skipped, and a failed transfer never leaves a partial file behind.
type Downloader struct {
	cfg        *Config
	api        port.CourseAPI
	fs         port.FileSystem
	dispatcher event.EventDispatcher
	logger     *zap.Logger
}

// New creates a new Downloader
func New(cfg *Config, api port.CourseAPI, fs port.FileSystem, dispatcher event.EventDispatcher, logger *zap.Logger) *Downloader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.DesiredQuality == "" {
		cfg.DesiredQuality = "360p"
	}
	return &Downloader{
		cfg:        cfg,
		api:        api,
		fs:         fs,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Download performs one sequential pass over the manifest. Error-variant
// lessons are skipped without side effects; per-asset failures are
// logged and the walk continues. Only context cancellation aborts.
func (d *Downloader) Download(ctx context.Context, manifest *domain.Manifest) (domain.RunStats, error) {
	stats := domain.RunStats{}

	d.logger.Info("downloading course assets",
		zap.String("course", manifest.CourseName),
		zap.Int("chapters", len(manifest.Chapters)),
		zap.String("quality", d.cfg.DesiredQuality))

	var progress *mpb.Progress
	if d.cfg.Progress {
		progress = mpb.NewWithContext(ctx)
	}

	courseDir := fmt.Sprintf("course_%d", d.cfg.CourseID)

	for ci, chapter := range manifest.Chapters {
		chapterDir := filepath.Join(courseDir, "videos",
			fmt.Sprintf("%02d_%s", ci+1, service.SanitizeFilename(chapter.ChapterTitle)))

		for li := range chapter.SubChapters {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("download aborted: %w", err)
			}

			lesson := &chapter.SubChapters[li]
			if lesson.IsError() {
				d.logger.Warn("skipping unresolved lesson",
					zap.String("chapter", chapter.ChapterTitle),
					zap.String("lesson", lesson.Title),
					zap.String("error", lesson.Err))
				continue
			}

			prefix := fmt.Sprintf("%02d_%s", li+1, service.SanitizeFilename(lesson.Title))
			d.downloadLesson(chapterDir, prefix, lesson, progress, &stats)
		}
	}

	if progress != nil {
		progress.Wait()
	}

	d.logger.Info("download pass finished",
		zap.Int("downloaded", stats.Downloaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.String("total_size", humanize.Bytes(uint64(stats.Bytes))))

	return stats, nil
}

// downloadLesson acquires one lesson's video, subtitles, and materials
func (d *Downloader) downloadLesson(chapterDir, prefix string, lesson *domain.LessonEntry, progress *mpb.Progress, stats *domain.RunStats) {
	if url, ok := service.SelectVideoURL(lesson.VideoLinks, d.cfg.DesiredQuality); ok {
		d.acquire(filepath.Join(chapterDir, prefix+".mp4"), url, domain.AssetVideo, progress, stats)
	} else {
		d.logger.Warn("lesson has no video renditions",
			zap.String("lesson", lesson.Title))
	}

	for _, lang := range sortedKeys(lesson.SubtitleLinks) {
		target := filepath.Join(chapterDir, fmt.Sprintf("%s_%s.vtt", prefix, lang))
		d.acquire(target, lesson.SubtitleLinks[lang], domain.AssetSubtitle, progress, stats)
	}

	for _, mat := range lesson.Materials {
		name := fmt.Sprintf("%s_%s", prefix, service.SanitizeFilename(mat.Name))
		if ext := urlExtension(mat.URL); ext != "" {
			name += "." + ext
		}
		d.acquire(filepath.Join(chapterDir, "materials", name), mat.URL, domain.AssetMaterial, progress, stats)
	}
}

// acquire downloads one asset unless its final path already exists. A
// failed transfer is a skippable error: it is counted and the walk
// moves on to the next asset.
func (d *Downloader) acquire(rel, url string, kind domain.AssetKind, progress *mpb.Progress, stats *domain.RunStats) {
	if d.fs.FileExists(rel) {
		d.logger.Debug("asset already present, skipping",
			zap.String("path", rel))
		d.dispatcher.Dispatch(event.NewAssetSkipped(rel, string(kind)))
		stats.AddSkipped()
		return
	}

	start := time.Now()
	written, err := d.fetchAsset(rel, url, progress)
	if err != nil {
		d.logger.Warn("asset acquisition failed",
			zap.String("path", rel),
			zap.Bool("skippable", domain.IsSkippable(err)),
			zap.Error(err))
		d.dispatcher.Dispatch(event.NewAssetFailed(rel, string(kind), err.Error()))
		stats.AddFailed()
		return
	}

	d.logger.Info("asset downloaded",
		zap.String("path", rel),
		zap.String("size", humanize.Bytes(uint64(written))),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	d.dispatcher.Dispatch(event.NewAssetDownloaded(rel, string(kind), written, time.Since(start)))
	stats.AddDownloaded(written)
}

// fetchAsset streams one asset into place. The filesystem manager has
// already removed the partial write when this returns an error.
func (d *Downloader) fetchAsset(rel, url string, progress *mpb.Progress) (int64, error) {
	body, length, err := d.api.FetchAsset(url)
	if err != nil {
		return 0, domain.NewSkippableError(err, "fetch asset")
	}
	defer body.Close()

	reader := io.Reader(body)
	var bar *ProgressWriter
	if progress != nil {
		bar = NewProgressWriter(progress, length, filepath.Base(rel))
		reader = io.TeeReader(body, bar)
	}

	written, err := d.fs.WriteStream(rel, reader)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return 0, domain.NewSkippableError(err, "write asset")
	}
	return written, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// urlExtension returns the substring after the last dot of the URL.
// Dots inside the host or directories do not count.
func urlExtension(url string) string {
	idx := strings.LastIndex(url, ".")
	if idx < 0 {
		return ""
	}
	ext := url[idx+1:]
	if ext == "" || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
