package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/domain/event"
)

// mockAssetAPI implements port.CourseAPI serving canned asset bodies
type mockAssetAPI struct {
	assets  map[string]string
	errs    map[string]error
	fetches []string
}

func (m *mockAssetAPI) FetchCourseTree() (*domain.CourseTree, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAssetAPI) FetchLessonResources(lessonID string) (*domain.LessonResources, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAssetAPI) FetchAsset(url string) (io.ReadCloser, int64, error) {
	m.fetches = append(m.fetches, url)
	if err, ok := m.errs[url]; ok {
		return nil, 0, err
	}
	content, ok := m.assets[url]
	if !ok {
		return nil, 0, fmt.Errorf("no such asset %s", url)
	}
	return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
}

// mockFileSystem implements port.FileSystem in memory
type mockFileSystem struct {
	files    map[string][]byte
	writes   []string
	writeErr map[string]error
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{
		files:    make(map[string][]byte),
		writeErr: make(map[string]error),
	}
}

func (m *mockFileSystem) RootDir() string        { return "/out" }
func (m *mockFileSystem) Path(rel string) string { return filepath.Join("/out", rel) }
func (m *mockFileSystem) EnsureDir(rel string) error {
	return nil
}
func (m *mockFileSystem) FileExists(rel string) bool {
	_, ok := m.files[rel]
	return ok
}
func (m *mockFileSystem) WriteStream(rel string, reader io.Reader) (int64, error) {
	if err, ok := m.writeErr[rel]; ok {
		io.Copy(io.Discard, reader)
		return 0, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	m.files[rel] = data
	m.writes = append(m.writes, rel)
	return int64(len(data)), nil
}
func (m *mockFileSystem) DeleteFile(rel string) error {
	delete(m.files, rel)
	return nil
}
func (m *mockFileSystem) CleanStaleTempFiles(olderThan time.Duration) (int, error) {
	return 0, nil
}

// captureHandler records every dispatched event name
type captureHandler struct {
	names []string
}

func (h *captureHandler) Handle(e event.DomainEvent) error {
	h.names = append(h.names, e.EventName())
	return nil
}
func (h *captureHandler) HandledEvents() []string { return []string{"*"} }

func countName(names []string, name string) int {
	n := 0
	for _, got := range names {
		if got == name {
			n++
		}
	}
	return n
}

func testManifest() *domain.Manifest {
	return &domain.Manifest{
		SchemaVersion: domain.ManifestSchemaVersion,
		CourseName:    "Watercolor Basics",
		Chapters: []domain.ChapterEntry{
			{
				ChapterTitle: "Getting/Started",
				SubChapters: []domain.LessonEntry{
					domain.NewLessonEntry("Welcome*", 120, &domain.LessonResources{
						VideoLinks:    map[string]string{"360p": "https://v.example.com/360.mp4"},
						SubtitleLinks: map[string]string{"zh-TW": "https://v.example.com/zh.vtt", "en": "https://v.example.com/en.vtt"},
					}, []domain.Material{
						{Name: "Guide", URL: "https://cdn.example.com/files/guide.pdf"},
					}),
				},
			},
		},
	}
}

func testAssets() map[string]string {
	return map[string]string{
		"https://v.example.com/360.mp4":           "video bytes",
		"https://v.example.com/zh.vtt":            "zh subtitle",
		"https://v.example.com/en.vtt":            "en subtitle",
		"https://cdn.example.com/files/guide.pdf": "pdf bytes",
	}
}

func newTestDownloader(api *mockAssetAPI, fs *mockFileSystem) (*Downloader, *captureHandler) {
	dispatcher := event.NewInMemoryDispatcher()
	capture := &captureHandler{}
	dispatcher.Subscribe(capture)
	cfg := &Config{CourseID: 47, DesiredQuality: "360p"}
	return New(cfg, api, fs, dispatcher, zap.NewNop()), capture
}

func TestDownloader_Download_LayoutAndNaming(t *testing.T) {
	api := &mockAssetAPI{assets: testAssets()}
	fs := newMockFileSystem()
	d, capture := newTestDownloader(api, fs)

	stats, err := d.Download(context.Background(), testManifest())
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	want := []string{
		"course_47/videos/01_GettingStarted/01_Welcome.mp4",
		"course_47/videos/01_GettingStarted/01_Welcome_en.vtt",
		"course_47/videos/01_GettingStarted/01_Welcome_zh-TW.vtt",
		"course_47/videos/01_GettingStarted/materials/01_Welcome_Guide.pdf",
	}
	for _, path := range want {
		if !fs.FileExists(path) {
			t.Errorf("missing expected file %s (have %v)", path, fs.writes)
		}
	}
	if len(fs.files) != len(want) {
		t.Errorf("wrote %d files, want %d: %v", len(fs.files), len(want), fs.writes)
	}

	if stats.Downloaded != 4 || stats.Skipped != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 4 downloaded", stats)
	}
	if got := countName(capture.names, "asset.downloaded"); got != 4 {
		t.Errorf("asset.downloaded events = %d, want 4", got)
	}
}

func TestDownloader_Download_Idempotent(t *testing.T) {
	api := &mockAssetAPI{assets: testAssets()}
	fs := newMockFileSystem()
	d, _ := newTestDownloader(api, fs)

	if _, err := d.Download(context.Background(), testManifest()); err != nil {
		t.Fatalf("first Download() error = %v", err)
	}
	firstWrites := len(fs.writes)
	firstFetches := len(api.fetches)

	stats, err := d.Download(context.Background(), testManifest())
	if err != nil {
		t.Fatalf("second Download() error = %v", err)
	}

	if len(fs.writes) != firstWrites {
		t.Errorf("second run performed %d writes, want 0", len(fs.writes)-firstWrites)
	}
	if len(api.fetches) != firstFetches {
		t.Errorf("second run performed %d fetches, want 0", len(api.fetches)-firstFetches)
	}
	if stats.Skipped != 4 || stats.Downloaded != 0 {
		t.Errorf("second run stats = %+v, want 4 skipped", stats)
	}
}

func TestDownloader_Download_SkipsErrorEntries(t *testing.T) {
	api := &mockAssetAPI{assets: testAssets()}
	fs := newMockFileSystem()
	d, _ := newTestDownloader(api, fs)

	manifest := &domain.Manifest{
		CourseName: "Course",
		Chapters: []domain.ChapterEntry{
			{
				ChapterTitle: "Intro",
				SubChapters: []domain.LessonEntry{
					domain.NewLessonErrorEntry("Broken Lesson", errors.New("upstream 500")),
					domain.NewLessonEntry("Good Lesson", 60, &domain.LessonResources{
						VideoLinks:    map[string]string{"360p": "https://v.example.com/360.mp4"},
						SubtitleLinks: map[string]string{},
					}, nil),
				},
			},
		},
	}

	stats, err := d.Download(context.Background(), manifest)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	// Only the good lesson's video, numbered by its manifest position.
	if len(fs.files) != 1 {
		t.Fatalf("wrote %d files, want 1: %v", len(fs.files), fs.writes)
	}
	if !fs.FileExists("course_47/videos/01_Intro/02_Good Lesson.mp4") {
		t.Errorf("wrote %v, want the good lesson at position 02", fs.writes)
	}
	if stats.Total() != 1 {
		t.Errorf("stats = %+v, want the error entry untouched", stats)
	}
}

func TestDownloader_Download_FailureContinuesWalk(t *testing.T) {
	api := &mockAssetAPI{
		assets: testAssets(),
		errs: map[string]error{
			"https://v.example.com/360.mp4": errors.New("connection reset"),
		},
	}
	fs := newMockFileSystem()
	fs.writeErr["course_47/videos/01_GettingStarted/01_Welcome_en.vtt"] = errors.New("disk full")
	d, capture := newTestDownloader(api, fs)

	stats, err := d.Download(context.Background(), testManifest())
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	// Video fetch failed, en subtitle write failed; zh subtitle and
	// material still landed.
	if stats.Failed != 2 || stats.Downloaded != 2 {
		t.Errorf("stats = %+v, want 2 failed and 2 downloaded", stats)
	}
	if fs.FileExists("course_47/videos/01_GettingStarted/01_Welcome.mp4") {
		t.Error("failed video must not exist")
	}
	if !fs.FileExists("course_47/videos/01_GettingStarted/01_Welcome_zh-TW.vtt") {
		t.Error("zh subtitle must still be downloaded")
	}
	if got := countName(capture.names, "asset.failed"); got != 2 {
		t.Errorf("asset.failed events = %d, want 2", got)
	}
}

func TestDownloader_Download_NoRenditions(t *testing.T) {
	api := &mockAssetAPI{assets: map[string]string{
		"https://v.example.com/zh.vtt": "zh subtitle",
	}}
	fs := newMockFileSystem()
	d, _ := newTestDownloader(api, fs)

	manifest := &domain.Manifest{
		CourseName: "Course",
		Chapters: []domain.ChapterEntry{
			{
				ChapterTitle: "Intro",
				SubChapters: []domain.LessonEntry{
					domain.NewLessonEntry("Audio Only", 60, &domain.LessonResources{
						VideoLinks:    map[string]string{},
						SubtitleLinks: map[string]string{"zh-TW": "https://v.example.com/zh.vtt"},
					}, nil),
				},
			},
		},
	}

	stats, err := d.Download(context.Background(), manifest)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if len(fs.files) != 1 || !fs.FileExists("course_47/videos/01_Intro/01_Audio Only_zh-TW.vtt") {
		t.Errorf("wrote %v, want only the subtitle", fs.writes)
	}
	if stats.Downloaded != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v: an empty rendition map is not a failure", stats)
	}
}

func TestDownloader_Download_MaterialWithoutExtension(t *testing.T) {
	api := &mockAssetAPI{assets: map[string]string{
		"https://cdn.example.com/files/readme": "plain text",
	}}
	fs := newMockFileSystem()
	d, _ := newTestDownloader(api, fs)

	manifest := &domain.Manifest{
		CourseName: "Course",
		Chapters: []domain.ChapterEntry{
			{
				ChapterTitle: "Intro",
				SubChapters: []domain.LessonEntry{
					domain.NewLessonEntry("Welcome", 60, &domain.LessonResources{
						VideoLinks:    map[string]string{},
						SubtitleLinks: map[string]string{},
					}, []domain.Material{
						{Name: "Readme", URL: "https://cdn.example.com/files/readme"},
					}),
				},
			},
		},
	}

	if _, err := d.Download(context.Background(), manifest); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if !fs.FileExists("course_47/videos/01_Intro/materials/01_Welcome_Readme") {
		t.Errorf("wrote %v, want extension-less material name", fs.writes)
	}
}

func TestDownloader_Download_Cancelled(t *testing.T) {
	api := &mockAssetAPI{assets: testAssets()}
	fs := newMockFileSystem()
	d, _ := newTestDownloader(api, fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Download(ctx, testManifest()); !errors.Is(err, context.Canceled) {
		t.Errorf("Download() error = %v, want context.Canceled", err)
	}
}

func TestURLExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/files/guide.pdf", "pdf"},
		{"https://cdn.example.com/files/archive.tar.gz", "gz"},
		{"https://cdn.example.com/files/readme", ""},
		{"https://cdn.example.com/readme", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := urlExtension(tt.url); got != tt.want {
			t.Errorf("urlExtension(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
