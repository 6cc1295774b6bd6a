package satcool

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/port"
)

// Client is an authenticated course platform API client
type Client struct {
	baseURL        string
	courseID       int
	token          string
	httpClient     *http.Client
	downloadClient *http.Client
}

// Ensure Client implements port.CourseAPI
var _ port.CourseAPI = (*Client)(nil)

// ClientConfig contains optional client configuration
type ClientConfig struct {
	BufferSizeMB int // Read/Write buffer size in MB (default: 8)
}

// NewClient creates a new course platform API client
func NewClient(baseURL string, courseID int, token string) *Client {
	return NewClientWithConfig(baseURL, courseID, token, nil)
}

// NewClientWithConfig creates a new client with custom configuration.
// API calls use a short-timeout client; asset downloads use a separate
// client with no total timeout and large transfer buffers.
func NewClientWithConfig(baseURL string, courseID int, token string, cfg *ClientConfig) *Client {
	bufferSize := 8 * 1024 * 1024 // 8MB default
	if cfg != nil && cfg.BufferSizeMB > 0 {
		bufferSize = cfg.BufferSizeMB * 1024 * 1024
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	downloadTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     120 * time.Second,

		// Buffer sizes for high-speed transfers
		WriteBufferSize: bufferSize,
		ReadBufferSize:  bufferSize,

		ForceAttemptHTTP2: true,

		// Disable compression for binary files (saves CPU)
		DisableCompression: true,

		// Response header timeout (not total download timeout)
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &Client{
		baseURL:  baseURL,
		courseID: courseID,
		token:    token,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		downloadClient: &http.Client{
			Transport: downloadTransport,
			Timeout:   0, // No timeout for downloads
		},
	}
}

// CourseID returns the course this client is scoped to
func (c *Client) CourseID() int {
	return c.courseID
}

// doAPIRequest performs an authenticated GET and unwraps the response
// envelope. A response is accepted only when the transport status is
// 200 and the body's success flag is set.
func (c *Client) doAPIRequest(urlStr string) (json.RawMessage, int, error) {
	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	if !apiResp.Success {
		msg := "request rejected"
		if apiResp.Error != nil && apiResp.Error.Message != "" {
			msg = apiResp.Error.Message
		}
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return apiResp.Data, resp.StatusCode, nil
}

// FetchCourseTree fetches the whole course structure
func (c *Client) FetchCourseTree() (*domain.CourseTree, error) {
	urlStr := fmt.Sprintf("%s/classroom/%d", c.baseURL, c.courseID)

	data, status, err := c.doAPIRequest(urlStr)
	if err != nil {
		return nil, fmt.Errorf("fetch course tree: %w", err)
	}

	var payload classroomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &APIError{StatusCode: status, Message: fmt.Sprintf("malformed classroom payload: %v", err)}
	}

	tree, err := payload.toDomain()
	if err != nil {
		return nil, &APIError{StatusCode: status, Message: err.Error()}
	}
	return tree, nil
}

// FetchLessonResources fetches one lesson's resource metadata
func (c *Client) FetchLessonResources(lessonID string) (*domain.LessonResources, error) {
	params := url.Values{"course_chapter_part_id": {lessonID}}
	urlStr := fmt.Sprintf("%s/classroom/%d/vimeo?%s", c.baseURL, c.courseID, params.Encode())

	data, status, err := c.doAPIRequest(urlStr)
	if err != nil {
		return nil, fmt.Errorf("fetch lesson %s resources: %w", lessonID, err)
	}

	var payload vimeoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &APIError{StatusCode: status, Message: fmt.Sprintf("malformed vimeo payload: %v", err)}
	}

	res, err := payload.toDomain()
	if err != nil {
		return nil, &APIError{StatusCode: status, Message: err.Error()}
	}
	return res, nil
}

// FetchAsset opens a streaming download of an asset URL. Asset links
// are pre-signed by the video host and need no auth header.
func (c *Client) FetchAsset(assetURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequest("GET", assetURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return resp.Body, resp.ContentLength, nil
}
