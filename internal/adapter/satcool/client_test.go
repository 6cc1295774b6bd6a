package satcool

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

const classroomBody = `{
	"success": true,
	"data": {
		"course_name": "Watercolor Basics",
		"chapters": [
			{
				"title": "Getting Started",
				"duration": 725,
				"parts": [
					{
						"id": 101,
						"name": "Welcome",
						"duration": 120,
						"materials": [
							{"name": "Brush Guide.pdf", "url": "https://cdn.example.com/guide.pdf"}
						]
					},
					{
						"id": "",
						"name": "Coming Soon",
						"duration": 0
					}
				]
			}
		]
	}
}`

func TestClient_FetchCourseTree(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, classroomBody)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	tree, err := client.FetchCourseTree()
	if err != nil {
		t.Fatalf("FetchCourseTree() error = %v", err)
	}

	if gotPath != "/classroom/47" {
		t.Errorf("request path = %q, want %q", gotPath, "/classroom/47")
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-abc")
	}

	if tree.CourseName != "Watercolor Basics" {
		t.Errorf("CourseName = %q, want %q", tree.CourseName, "Watercolor Basics")
	}
	if len(tree.Chapters) != 1 {
		t.Fatalf("len(Chapters) = %d, want 1", len(tree.Chapters))
	}

	ch := tree.Chapters[0]
	if ch.Title != "Getting Started" {
		t.Errorf("chapter title = %q, want %q", ch.Title, "Getting Started")
	}
	if ch.Duration != 725 {
		t.Errorf("chapter duration = %d, want 725", ch.Duration)
	}
	if len(ch.Parts) != 2 {
		t.Fatalf("len(Parts) = %d, want 2", len(ch.Parts))
	}

	if ch.Parts[0].ID != "101" {
		t.Errorf("part 1 ID = %q, want %q", ch.Parts[0].ID, "101")
	}
	if len(ch.Parts[0].Materials) != 1 || ch.Parts[0].Materials[0].Name != "Brush Guide.pdf" {
		t.Errorf("part 1 materials = %+v, want the brush guide", ch.Parts[0].Materials)
	}

	// A part without an id decodes; skipping it is the caller's call.
	if ch.Parts[1].ID != "" {
		t.Errorf("part 2 ID = %q, want empty", ch.Parts[1].ID)
	}
	if ch.Parts[1].Name != "Coming Soon" {
		t.Errorf("part 2 name = %q, want %q", ch.Parts[1].Name, "Coming Soon")
	}
}

func TestClient_FetchCourseTree_RejectedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": false, "error": {"code": 403, "message": "not enrolled"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	_, err := client.FetchCourseTree()
	if err == nil {
		t.Fatal("FetchCourseTree() expected error for success=false")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", apiErr.StatusCode)
	}
	if apiErr.Message != "not enrolled" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "not enrolled")
	}
}

func TestClient_FetchCourseTree_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "expired")
	_, err := client.FetchCourseTree()

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
}

func TestClient_FetchCourseTree_MissingName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "data": {"chapters": []}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	if _, err := client.FetchCourseTree(); err == nil {
		t.Fatal("FetchCourseTree() expected error for payload without course name")
	}
}

func TestClient_FetchLessonResources(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("course_chapter_part_id")
		io.WriteString(w, `{
			"success": true,
			"data": {
				"files": [
					{"rendition": "720p", "link": "https://v.example.com/720.mp4"},
					{"rendition": "360p", "link": "https://v.example.com/360.mp4"},
					{"rendition": "adaptive", "link": "https://v.example.com/master.m3u8"}
				],
				"texttracks": [
					{"type": "subtitles", "language": "zh-TW", "link": "https://v.example.com/zh.vtt"},
					{"type": "captions", "language": "en", "link": "https://v.example.com/cap.vtt"}
				],
				"player_embed_url": "https://player.example.com/video/9"
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	res, err := client.FetchLessonResources("101")
	if err != nil {
		t.Fatalf("FetchLessonResources() error = %v", err)
	}

	if gotQuery != "101" {
		t.Errorf("course_chapter_part_id = %q, want %q", gotQuery, "101")
	}
	if len(res.VideoLinks) != 3 {
		t.Errorf("len(VideoLinks) = %d, want 3", len(res.VideoLinks))
	}
	if res.VideoLinks["adaptive"] != "https://v.example.com/master.m3u8" {
		t.Errorf("adaptive link = %q", res.VideoLinks["adaptive"])
	}

	// Non-subtitle tracks are dropped.
	if len(res.SubtitleLinks) != 1 {
		t.Fatalf("len(SubtitleLinks) = %d, want 1", len(res.SubtitleLinks))
	}
	if res.SubtitleLinks["zh-TW"] != "https://v.example.com/zh.vtt" {
		t.Errorf("zh-TW subtitle = %q", res.SubtitleLinks["zh-TW"])
	}

	if res.PlayerEmbedURL != "https://player.example.com/video/9" {
		t.Errorf("PlayerEmbedURL = %q", res.PlayerEmbedURL)
	}
}

func TestClient_FetchLessonResources_NoVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "data": {"files": [], "texttracks": []}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	res, err := client.FetchLessonResources("101")
	if err != nil {
		t.Fatalf("FetchLessonResources() error = %v", err)
	}
	if res.HasVideo() {
		t.Error("HasVideo() = true for empty files list")
	}
	if res.VideoLinks == nil || res.SubtitleLinks == nil {
		t.Error("link maps must be initialized even when empty")
	}
}

func TestClient_FetchAsset(t *testing.T) {
	payload := "fake video bytes"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("asset request must not carry an Authorization header")
		}
		io.WriteString(w, payload)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	body, length, err := client.FetchAsset(server.URL + "/video.mp4")
	if err != nil {
		t.Fatalf("FetchAsset() error = %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading asset body: %v", err)
	}
	if string(data) != payload {
		t.Errorf("asset body = %q, want %q", data, payload)
	}
	if length != int64(len(payload)) {
		t.Errorf("content length = %d, want %d", length, len(payload))
	}
}

func TestClient_FetchAsset_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 47, "token-abc")
	_, _, err := client.FetchAsset(server.URL + "/gone.mp4")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}
