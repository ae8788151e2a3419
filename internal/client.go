package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client is the typed request/response layer over the external
// Media/Edit Service. It holds no session state; every failure is
// surfaced as one of the typed errors in errors.go and no call is
// retried automatically.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxUpload  int64
}

// UploadResult is the normalized response of the upload call.
type UploadResult struct {
	SessionID string
	Filename  string
	Metadata  VideoMetadata
	Silence   *SilenceDetection
}

// EditResult is the normalized response of an edit turn: the AI message
// plus the full replacement subtitle collection, never a delta.
type EditResult struct {
	AIMessage ChatMessage
	Subtitles []Subtitle
}

// ArtifactResult is the normalized response of a preview/export call.
type ArtifactResult struct {
	DownloadURL string
	Filename    string
}

// SilenceOptions tunes silence analysis. Zero values defer to the
// service defaults (-30dB, 1.0s).
type SilenceOptions struct {
	NoiseThreshold     string
	MinSilenceDuration float64
}

// SilenceReport is the normalized response of the detect-silence call.
type SilenceReport struct {
	Segments []SilenceSegment
	Stats    SilenceStats
}

// SilenceRemovalResult is the normalized response of the remove-silence
// call. When silence was removed, Subtitles carries the collection with
// timestamps shifted to the shortened video and PreviewURL points at the
// processed file.
type SilenceRemovalResult struct {
	Message    string
	Removed    bool
	Stats      SilenceStats
	PreviewURL string
	Subtitles  []Subtitle
}

// VideoInfo is the normalized response of the video info call.
type VideoInfo struct {
	SessionID     string
	Metadata      VideoMetadata
	VideoURL      string
	SubtitleCount int
}

// NewClient creates a wire client against baseURL. maxUpload is the
// upload size ceiling in bytes; zero disables the client-side check.
func NewClient(baseURL string, timeout time.Duration, maxUpload int64) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxUpload:  maxUpload,
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload validates the video file locally, then posts it as multipart
// form data. The session identity in the result is issued by the Media
// Service; the client never invents one.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResult, error) {
	if err := ValidateUpload(path, c.maxUpload); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ValidationError{Field: "file", Detail: fmt.Sprintf("cannot open %s: %v", path, err)}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, &NetworkError{Op: "upload", URL: c.endpoint("/api/upload"), Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &NetworkError{Op: "upload", URL: c.endpoint("/api/upload"), Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &NetworkError{Op: "upload", URL: c.endpoint("/api/upload"), Err: err}
	}

	var resp struct {
		SessionID string            `json:"session_id"`
		Filename  string            `json:"filename"`
		Metadata  VideoMetadata     `json:"metadata"`
		Silence   *SilenceDetection `json:"silence_detection"`
	}
	if err := c.do(ctx, "upload", http.MethodPost, "/api/upload", &body, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}

	if resp.SessionID == "" {
		return nil, &ServerError{Op: "upload", StatusCode: http.StatusOK, Detail: "response carried no session_id"}
	}

	return &UploadResult{
		SessionID: resp.SessionID,
		Filename:  resp.Filename,
		Metadata:  resp.Metadata,
		Silence:   resp.Silence,
	}, nil
}

// SendEdit submits one edit turn. The returned subtitle collection is
// always the full current collection for the session.
func (c *Client) SendEdit(ctx context.Context, sessionID, message string) (*EditResult, error) {
	req := map[string]string{
		"session_id": sessionID,
		"message":    message,
	}

	var resp struct {
		Message   ChatMessage `json:"message"`
		Subtitles []Subtitle  `json:"subtitles"`
	}
	if err := c.doJSON(ctx, "chat", http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}

	if resp.Message.Role == "" {
		resp.Message.Role = RoleAI
	}
	if resp.Subtitles == nil {
		resp.Subtitles = []Subtitle{}
	}

	return &EditResult{AIMessage: resp.Message, Subtitles: resp.Subtitles}, nil
}

// RequestArtifact asks the service to burn the current subtitles into
// the video. The same call serves preview and export; the caller
// decides how the result is used.
func (c *Client) RequestArtifact(ctx context.Context, sessionID, filename string) (*ArtifactResult, error) {
	req := map[string]string{"session_id": sessionID}
	if filename != "" {
		req["filename"] = filename
	}

	var resp struct {
		DownloadURL string `json:"download_url"`
		Filename    string `json:"filename"`
	}
	if err := c.doJSON(ctx, "export", http.MethodPost, "/api/export", req, &resp); err != nil {
		return nil, err
	}

	if resp.DownloadURL == "" {
		return nil, &ArtifactError{Kind: "export", Detail: "response carried no download URL"}
	}

	return &ArtifactResult{DownloadURL: resp.DownloadURL, Filename: resp.Filename}, nil
}

// FetchBinary downloads rawURL and returns the bytes. Relative URLs are
// resolved against the service base URL.
func (c *Client) FetchBinary(ctx context.Context, rawURL string) ([]byte, error) {
	target := c.ResolveURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Op: "download", URL: target, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "download", URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{Op: "download", StatusCode: resp.StatusCode, Detail: readErrorDetail(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "download", URL: target, Err: err}
	}
	return data, nil
}

// DetectSilence analyzes the session video for silent spans without
// changing anything.
func (c *Client) DetectSilence(ctx context.Context, sessionID string, opts SilenceOptions) (*SilenceReport, error) {
	var resp struct {
		Segments []SilenceSegment `json:"silence_segments"`
		Stats    SilenceStats     `json:"stats"`
	}
	if err := c.doJSON(ctx, "silence", http.MethodPost, "/api/detect-silence", silenceRequest(sessionID, opts), &resp); err != nil {
		return nil, err
	}
	return &SilenceReport{Segments: resp.Segments, Stats: resp.Stats}, nil
}

// RemoveSilence cuts the detected silent spans out of the session video.
// The service rewrites the stored video and shifts subtitle timestamps
// to match; the returned collection replaces the timeline wholesale.
func (c *Client) RemoveSilence(ctx context.Context, sessionID string, opts SilenceOptions) (*SilenceRemovalResult, error) {
	var resp struct {
		Message    string       `json:"message"`
		Removed    bool         `json:"silence_removed"`
		Stats      SilenceStats `json:"stats"`
		PreviewURL string       `json:"preview_url"`
		Subtitles  []Subtitle   `json:"subtitles"`
	}
	if err := c.doJSON(ctx, "silence", http.MethodPost, "/api/remove-silence", silenceRequest(sessionID, opts), &resp); err != nil {
		return nil, err
	}
	if resp.Subtitles == nil {
		resp.Subtitles = []Subtitle{}
	}
	return &SilenceRemovalResult{
		Message:    resp.Message,
		Removed:    resp.Removed,
		Stats:      resp.Stats,
		PreviewURL: resp.PreviewURL,
		Subtitles:  resp.Subtitles,
	}, nil
}

func silenceRequest(sessionID string, opts SilenceOptions) map[string]interface{} {
	req := map[string]interface{}{"session_id": sessionID}
	if opts.NoiseThreshold != "" {
		req["noise_threshold"] = opts.NoiseThreshold
	}
	if opts.MinSilenceDuration > 0 {
		req["min_silence_duration"] = opts.MinSilenceDuration
	}
	return req
}

// GetSubtitles fetches the server's view of the subtitle collection.
func (c *Client) GetSubtitles(ctx context.Context, sessionID string) ([]Subtitle, error) {
	var subs []Subtitle
	if err := c.doJSON(ctx, "subtitles", http.MethodGet, "/api/subtitles/"+url.PathEscape(sessionID), nil, &subs); err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []Subtitle{}
	}
	return subs, nil
}

// ClearSubtitles removes every subtitle for the session on the server.
func (c *Client) ClearSubtitles(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, "subtitles", http.MethodDelete, "/api/subtitles/"+url.PathEscape(sessionID), nil, nil)
}

// GetChatHistory fetches the server-side chat history for the session.
func (c *Client) GetChatHistory(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	var resp struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.doJSON(ctx, "history", http.MethodGet, "/api/chat/history/"+url.PathEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// GetVideoInfo fetches video metadata and session info.
func (c *Client) GetVideoInfo(ctx context.Context, sessionID string) (*VideoInfo, error) {
	var resp struct {
		SessionID     string        `json:"session_id"`
		Metadata      VideoMetadata `json:"metadata"`
		VideoURL      string        `json:"video_url"`
		SubtitleCount int           `json:"subtitle_count"`
	}
	if err := c.doJSON(ctx, "info", http.MethodGet, "/api/video/"+url.PathEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}
	return &VideoInfo{
		SessionID:     resp.SessionID,
		Metadata:      resp.Metadata,
		VideoURL:      resp.VideoURL,
		SubtitleCount: resp.SubtitleCount,
	}, nil
}

// DeleteSession tears the session down on the server.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, "delete", http.MethodDelete, "/api/video/"+url.PathEscape(sessionID), nil, nil)
}

// Health checks service reachability.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// doJSON sends an optional JSON request body and decodes a JSON
// response into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	contentType := ""
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return &NetworkError{Op: op, URL: c.endpoint(path), Err: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	target := c.endpoint(path)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &NetworkError{Op: op, URL: target, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	LogDebug("%s %s", method, target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Detail: readErrorDetail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, URL: target, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// ResolveURL turns server-relative download URLs (e.g. "/outputs/x.mp4")
// into absolute ones. Absolute URLs pass through unchanged.
func (c *Client) ResolveURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	if !strings.HasPrefix(rawURL, "/") {
		rawURL = "/" + rawURL
	}
	return c.baseURL + rawURL
}

// readErrorDetail extracts the server-supplied message from an error
// body. FastAPI-style bodies carry it under "detail" or "error".
func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(data))
}
