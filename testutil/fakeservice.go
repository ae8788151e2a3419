package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeService is an in-process stand-in for the external Media/Edit
// Service. It speaks the wire contract (snake_case field names, the
// upload/chat/export/download routes) without any real media handling,
// and records call counts so tests can assert on cache reuse and
// single-flight behavior. It deliberately avoids importing the internal
// package so internal tests can use it.
type FakeService struct {
	Server *httptest.Server

	mu sync.Mutex

	// SessionID is issued by upload responses.
	SessionID string
	// Subtitles is the JSON array returned by chat and subtitle fetches.
	Subtitles json.RawMessage
	// SilenceSegments is the JSON array the silence routes report; the
	// remove route reports nothing removed while it is empty.
	SilenceSegments json.RawMessage
	// ChatContent is the AI reply text.
	ChatContent string
	// CamelCase switches subtitle responses to camelCase field names.
	CamelCase bool

	// FailChat / FailExport force 500 responses with a detail message.
	FailChat   bool
	FailExport bool

	// ChatStarted/ChatRelease, when non-nil, let a test hold a chat
	// request open: the handler signals ChatStarted then blocks until
	// ChatRelease is closed.
	ChatStarted chan struct{}
	ChatRelease chan struct{}

	UploadCalls   int
	ChatCalls     int
	ExportCalls   int
	DownloadCalls int
	DeleteCalls   int
	SilenceCalls  int
}

// NewFakeService starts a fake service for one test.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()
	f := &FakeService{
		SessionID:       "sess_test123",
		Subtitles:       json.RawMessage(`[]`),
		SilenceSegments: json.RawMessage(`[]`),
		ChatContent:     "Done.",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload", f.handleUpload)
	mux.HandleFunc("/api/chat", f.handleChat)
	mux.HandleFunc("/api/export", f.handleExport)
	mux.HandleFunc("/api/download/", f.handleDownload)
	mux.HandleFunc("/api/subtitles/", f.handleSubtitles)
	mux.HandleFunc("/api/chat/history/", f.handleHistory)
	mux.HandleFunc("/api/video/", f.handleVideo)
	mux.HandleFunc("/api/detect-silence", f.handleDetectSilence)
	mux.HandleFunc("/api/remove-silence", f.handleRemoveSilence)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "healthy"})
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake service's base URL.
func (f *FakeService) URL() string {
	return f.Server.URL
}

// SetSubtitles replaces the subtitle collection the service reports.
func (f *FakeService) SetSubtitles(subtitlesJSON string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Subtitles = json.RawMessage(subtitlesJSON)
}

// Counts returns the recorded call counts (chat, export, download).
func (f *FakeService) Counts() (chat, export, download int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ChatCalls, f.ExportCalls, f.DownloadCalls
}

func (f *FakeService) handleUpload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.UploadCalls++
	sessionID := f.SessionID
	f.mu.Unlock()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"detail": "not multipart"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"detail": "no file provided"}`, http.StatusBadRequest)
		return
	}
	file.Close()

	writeJSON(w, map[string]interface{}{
		"session_id": sessionID,
		"filename":   header.Filename,
		"metadata": map[string]interface{}{
			"filename": header.Filename,
			"duration": 10.0,
			"width":    1920,
			"height":   1080,
			"fps":      30.0,
			"format":   "mp4",
			"size":     header.Size,
		},
		"silence_detection": map[string]interface{}{
			"has_silence": false,
			"segments":    []interface{}{},
		},
	})
}

func (f *FakeService) handleChat(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.ChatCalls++
	fail := f.FailChat
	content := f.ChatContent
	subtitles := f.Subtitles
	camel := f.CamelCase
	started, release := f.ChatStarted, f.ChatRelease
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}

	if fail {
		http.Error(w, `{"detail": "the model is unavailable"}`, http.StatusInternalServerError)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, `{"detail": "bad request"}`, http.StatusBadRequest)
		return
	}

	if camel {
		subtitles = toCamelCase(subtitles)
	}

	fmt.Fprintf(w, `{"session_id": %q, "message": {"type": "ai", "content": %q, "metadata": {"action": "edit"}}, "subtitles": %s}`,
		req.SessionID, content, string(subtitles))
}

func (f *FakeService) handleExport(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.ExportCalls++
	n := f.ExportCalls
	fail := f.FailExport
	f.mu.Unlock()

	if fail {
		http.Error(w, `{"detail": "ffmpeg failed"}`, http.StatusInternalServerError)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Filename  string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, `{"detail": "bad request"}`, http.StatusBadRequest)
		return
	}

	name := req.Filename
	if name == "" {
		name = fmt.Sprintf("output_%d.mp4", n)
	}
	writeJSON(w, map[string]string{
		"download_url": "/api/download/" + name,
		"filename":     name,
	})
}

func (f *FakeService) handleDownload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.DownloadCalls++
	f.mu.Unlock()

	name := strings.TrimPrefix(r.URL.Path, "/api/download/")
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	fmt.Fprintf(w, "fake video bytes for %s", name)
}

func (f *FakeService) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	subtitles := f.Subtitles
	f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(subtitles)
	case http.MethodDelete:
		f.mu.Lock()
		f.Subtitles = json.RawMessage(`[]`)
		f.mu.Unlock()
		writeJSON(w, map[string]string{"message": "cleared"})
	default:
		http.Error(w, `{"detail": "method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (f *FakeService) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/chat/history/")
	writeJSON(w, map[string]interface{}{
		"session_id": sessionID,
		"messages": []map[string]interface{}{
			{"type": "user", "content": "Add subtitle 'Hi' from 0 to 5 seconds"},
			{"type": "ai", "content": "Added."},
		},
		"count": 2,
	})
}

func (f *FakeService) handleVideo(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/video/")

	switch r.Method {
	case http.MethodGet:
		f.mu.Lock()
		count := countSubtitles(f.Subtitles)
		f.mu.Unlock()
		writeJSON(w, map[string]interface{}{
			"session_id": sessionID,
			"metadata": map[string]interface{}{
				"duration": 10.0, "width": 1920, "height": 1080,
				"fps": 30.0, "format": "mp4", "size": 1024,
			},
			"video_url":      "/uploads/" + sessionID + ".mp4",
			"subtitle_count": count,
		})
	case http.MethodDelete:
		f.mu.Lock()
		f.DeleteCalls++
		f.mu.Unlock()
		writeJSON(w, map[string]string{"message": "deleted"})
	default:
		http.Error(w, `{"detail": "method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (f *FakeService) handleDetectSilence(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.SilenceCalls++
	segments := f.SilenceSegments
	f.mu.Unlock()

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, `{"detail": "bad request"}`, http.StatusBadRequest)
		return
	}

	fmt.Fprintf(w, `{"session_id": %q, "silence_segments": %s, "stats": %s}`,
		req.SessionID, string(segments), silenceStatsJSON(segments))
}

func (f *FakeService) handleRemoveSilence(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.SilenceCalls++
	segments := f.SilenceSegments
	subtitles := f.Subtitles
	f.mu.Unlock()

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, `{"detail": "bad request"}`, http.StatusBadRequest)
		return
	}

	if countSubtitles(segments) == 0 {
		fmt.Fprintf(w, `{"session_id": %q, "message": "No silence detected in video", "silence_removed": false, "stats": %s, "preview_url": "/uploads/%s.mp4", "subtitles": %s}`,
			req.SessionID, silenceStatsJSON(segments), req.SessionID, string(subtitles))
		return
	}

	fmt.Fprintf(w, `{"session_id": %q, "message": "Removed %d silent segments", "silence_removed": true, "stats": %s, "preview_url": "/uploads/%s_no_silence.mp4", "subtitles": %s}`,
		req.SessionID, countSubtitles(segments), silenceStatsJSON(segments), req.SessionID, string(subtitles))
}

// silenceStatsJSON derives the stats block from the segment list,
// against the fixed 10.0s upload duration.
func silenceStatsJSON(segments json.RawMessage) string {
	var parsed []struct {
		Duration float64 `json:"duration"`
	}
	_ = json.Unmarshal(segments, &parsed)
	total := 0.0
	for _, seg := range parsed {
		total += seg.Duration
	}
	return fmt.Sprintf(`{"total_silence_duration": %g, "silence_percentage": %g, "num_silent_segments": %d, "total_duration": 10.0, "duration_after_removal": %g}`,
		total, total/10.0*100, len(parsed), 10.0-total)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func countSubtitles(raw json.RawMessage) int {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return 0
	}
	return len(arr)
}

// toCamelCase rewrites the snake_case subtitle keys the tests use most.
func toCamelCase(raw json.RawMessage) json.RawMessage {
	s := string(raw)
	for from, to := range map[string]string{
		`"start_time"`:       `"startTime"`,
		`"end_time"`:         `"endTime"`,
		`"font_family"`:      `"fontFamily"`,
		`"font_size"`:        `"fontSize"`,
		`"background_color"`: `"backgroundColor"`,
	} {
		s = strings.ReplaceAll(s, from, to)
	}
	return json.RawMessage(s)
}
