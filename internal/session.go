package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ActiveSubtitleListener receives the subtitle resolved for each
// playback tick; sub is nil when no cue is active or overlay rendering
// is suppressed.
type ActiveSubtitleListener func(t float64, sub *Subtitle)

// SessionState is the serializable snapshot of a session, persisted in
// the local store between CLI invocations. The server remains the
// source of truth; this is a session-scoped cache, not authoritative.
type SessionState struct {
	SessionID   string        `json:"session_id"`
	Filename    string        `json:"filename"`
	VideoURL    string        `json:"video_url,omitempty"`
	Metadata    VideoMetadata `json:"metadata"`
	Subtitles   []Subtitle    `json:"subtitles"`
	Version     uint64        `json:"version"`
	ChatHistory []ChatMessage `json:"chat_history"`
	Artifact    *Artifact     `json:"artifact,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SessionController orchestrates the wire client, timeline, artifact
// cache, and player. It owns the session identity (always issued by the
// Media Service, never invented locally), the append-only chat history,
// and the single-flight edit gate: while an edit turn is in flight any
// further submission is rejected outright, which keeps replacements
// applied in the order the user issued them.
type SessionController struct {
	client   *Client
	timeline *Timeline
	cache    *ArtifactCache
	player   *Player

	mu           sync.Mutex
	sessionID    string
	filename     string
	videoURL     string
	metadata     VideoMetadata
	chatHistory  []ChatMessage
	isProcessing bool
	lastError    string
	createdAt    time.Time
	// epoch distinguishes session generations so a response that was in
	// flight across a reset is discarded instead of applied blindly.
	epoch uint64

	activeListeners []ActiveSubtitleListener
}

// NewSessionController wires the four components together. Playback
// time-advance events are forwarded to the timeline to resolve the
// active subtitle.
func NewSessionController(client *Client) *SessionController {
	s := &SessionController{
		client:   client,
		timeline: NewTimeline(),
		player:   NewPlayer(),
	}
	s.cache = NewArtifactCache(client, s.timeline)
	s.player.OnTimeUpdate(s.resolveTick)
	return s
}

// Timeline returns the subtitle timeline. The controller is its only
// writer.
func (s *SessionController) Timeline() *Timeline { return s.timeline }

// Cache returns the artifact cache.
func (s *SessionController) Cache() *ArtifactCache { return s.cache }

// Player returns the playback controller.
func (s *SessionController) Player() *Player { return s.player }

// Client returns the wire client.
func (s *SessionController) Client() *Client { return s.client }

// SessionID returns the server-issued session identity, empty when no
// session is active.
func (s *SessionController) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// HasSession reports whether a session is active.
func (s *SessionController) HasSession() bool {
	return s.SessionID() != ""
}

// Metadata returns the uploaded video's metadata.
func (s *SessionController) Metadata() VideoMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// Filename returns the uploaded video's filename.
func (s *SessionController) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

// IsProcessing reports whether an edit turn is in flight.
func (s *SessionController) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isProcessing
}

// LastError returns the session-level error message, empty when none.
func (s *SessionController) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ClearError dismisses the session-level error.
func (s *SessionController) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// History returns a copy of the chat history.
func (s *SessionController) History() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.chatHistory...)
}

// OnActiveSubtitle registers a listener for per-tick active subtitle
// resolution.
func (s *SessionController) OnActiveSubtitle(fn ActiveSubtitleListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeListeners = append(s.activeListeners, fn)
}

// Upload validates and uploads a video, then initializes a fresh
// session around the server-issued identity.
func (s *SessionController) Upload(ctx context.Context, path string) (*UploadResult, error) {
	result, err := s.client.Upload(ctx, path)
	if err != nil {
		// Validation errors never reach the wire and are surfaced as-is;
		// transport and server failures also land in the session error.
		if _, ok := err.(*ValidationError); !ok {
			s.recordError(err)
		}
		return nil, err
	}

	// Video URL comes from the recovered info route; playback still
	// works without it.
	videoURL := ""
	if info, infoErr := s.client.GetVideoInfo(ctx, result.SessionID); infoErr == nil {
		videoURL = info.VideoURL
	} else {
		LogDebug("video info unavailable for %s: %v", result.SessionID, infoErr)
	}

	s.mu.Lock()
	s.epoch++
	s.sessionID = result.SessionID
	s.filename = result.Filename
	s.videoURL = videoURL
	s.metadata = result.Metadata
	s.chatHistory = nil
	s.isProcessing = false
	s.lastError = ""
	s.createdAt = time.Now()
	s.mu.Unlock()

	s.timeline.Restore(nil, 0)
	s.cache.Invalidate()
	s.player.Load(videoURL, result.Metadata.Duration, true)

	LogInfo("session %s created for %s (%.1fs)", result.SessionID, result.Filename, result.Metadata.Duration)
	return result, nil
}

// SendEdit submits one edit turn. While a turn is in flight further
// submissions fail with ErrEditInFlight. On success the returned
// subtitle collection replaces the timeline wholesale and the artifact
// cache is invalidated.
func (s *SessionController) SendEdit(ctx context.Context, message string) (*EditResult, error) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	if s.isProcessing {
		s.mu.Unlock()
		return nil, ErrEditInFlight
	}
	s.isProcessing = true
	sessionID := s.sessionID
	epoch := s.epoch
	s.chatHistory = append(s.chatHistory, NewUserMessage(message))
	s.mu.Unlock()

	result, err := s.client.SendEdit(ctx, sessionID, message)

	s.mu.Lock()
	if s.epoch != epoch {
		// The session was reset while the request was in flight. The
		// response belongs to an identity that no longer exists.
		s.mu.Unlock()
		LogWarn("discarding edit response for stale session %s", sessionID)
		return nil, fmt.Errorf("session was reset while the edit was in flight")
	}
	s.isProcessing = false
	if err != nil {
		s.chatHistory = append(s.chatHistory, NewSystemMessage(err.Error()))
		s.lastError = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.chatHistory = append(s.chatHistory, result.AIMessage)
	videoURL := s.videoURL
	duration := s.metadata.Duration
	s.mu.Unlock()

	version := s.timeline.Replace(result.Subtitles)
	s.cache.Invalidate()

	// Editing returns the user to the original upload; re-enable the
	// overlay if a burned-in artifact was loaded.
	if s.player.SourceURL() != videoURL {
		s.player.Load(videoURL, duration, true)
	} else {
		s.player.SetOverlayEnabled(true)
	}

	LogDebug("edit applied: %d subtitle(s), timeline version %d", len(result.Subtitles), version)
	return result, nil
}

// RemoveSilence asks the service to cut silent spans out of the session
// video. It mutates the video and the subtitle collection together, so
// it shares the edit turn's single-flight gate and epoch discard. On
// success the shifted subtitles replace the timeline, the artifact
// cache is invalidated, and playback moves to the processed video.
func (s *SessionController) RemoveSilence(ctx context.Context, opts SilenceOptions) (*SilenceRemovalResult, error) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	if s.isProcessing {
		s.mu.Unlock()
		return nil, ErrEditInFlight
	}
	s.isProcessing = true
	sessionID := s.sessionID
	epoch := s.epoch
	s.mu.Unlock()

	result, err := s.client.RemoveSilence(ctx, sessionID, opts)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		LogWarn("discarding silence removal response for stale session %s", sessionID)
		return nil, fmt.Errorf("session was reset while silence removal was in flight")
	}
	s.isProcessing = false
	if err != nil {
		s.chatHistory = append(s.chatHistory, NewSystemMessage(err.Error()))
		s.lastError = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	if !result.Removed {
		s.mu.Unlock()
		return result, nil
	}
	s.videoURL = result.PreviewURL
	s.metadata.Duration = result.Stats.DurationAfterRemoval
	videoURL := s.videoURL
	duration := s.metadata.Duration
	s.mu.Unlock()

	version := s.timeline.Replace(result.Subtitles)
	s.cache.Invalidate()
	s.player.Load(videoURL, duration, true)

	LogInfo("removed %d silent segment(s) (%.1fs); timeline version %d",
		result.Stats.NumSilentSegments, result.Stats.TotalSilenceDuration, version)
	return result, nil
}

// DetectSilence analyzes the session video for silent spans.
func (s *SessionController) DetectSilence(ctx context.Context, opts SilenceOptions) (*SilenceReport, error) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	report, err := s.client.DetectSilence(ctx, sessionID, opts)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return report, nil
}

// Preview generates (or reuses) a preview artifact and swaps it into
// the player with overlay rendering suppressed, since its subtitles are
// already burned in.
func (s *SessionController) Preview(ctx context.Context) (*Artifact, error) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	sessionID := s.sessionID
	duration := s.metadata.Duration
	s.mu.Unlock()

	artifact, err := s.cache.RequestPreview(ctx, sessionID)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.player.Load(s.client.ResolveURL(artifact.DownloadURL), duration, false)
	return artifact, nil
}

// Export returns a downloadable artifact, reusing the cached one while
// it still matches the timeline version and regenerating otherwise.
func (s *SessionController) Export(ctx context.Context, filename string) (*Artifact, error) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	artifact, err := s.cache.RequestDownload(ctx, sessionID, filename)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return artifact, nil
}

// DownloadTo saves the ready artifact's bytes into dir and returns the
// written path.
func (s *SessionController) DownloadTo(ctx context.Context, dir string) (string, error) {
	path, err := s.cache.Download(ctx, dir)
	if err != nil {
		s.recordError(err)
		return "", err
	}
	return path, nil
}

// ClearSubtitles removes every subtitle, on the server and locally.
func (s *SessionController) ClearSubtitles(ctx context.Context) error {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	if s.isProcessing {
		s.mu.Unlock()
		return ErrEditInFlight
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	if err := s.client.ClearSubtitles(ctx, sessionID); err != nil {
		s.recordError(err)
		return err
	}
	s.timeline.Replace(nil)
	s.cache.Invalidate()
	return nil
}

// RefreshSubtitles pulls the server's subtitle collection and applies
// it as a replacement. The Edit Service is the single source of truth
// for subtitle content.
func (s *SessionController) RefreshSubtitles(ctx context.Context) ([]Subtitle, error) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	subs, err := s.client.GetSubtitles(ctx, sessionID)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	s.timeline.Replace(subs)
	s.cache.Invalidate()
	return subs, nil
}

// Reset discards the session ("new video"). The server-side session is
// torn down best-effort; any response still in flight for the old
// identity will be discarded when it arrives.
func (s *SessionController) Reset(ctx context.Context) {
	s.mu.Lock()
	sessionID := s.sessionID
	s.epoch++
	s.sessionID = ""
	s.filename = ""
	s.videoURL = ""
	s.metadata = VideoMetadata{}
	s.chatHistory = nil
	s.isProcessing = false
	s.lastError = ""
	s.mu.Unlock()

	s.timeline.Restore(nil, 0)
	s.cache.Invalidate()
	s.player.Load("", 0, true)

	if sessionID != "" {
		if err := s.client.DeleteSession(ctx, sessionID); err != nil {
			LogWarn("failed to delete server session %s: %v", sessionID, err)
		}
	}
}

// ActiveSubtitle resolves the subtitle for the current playhead
// position, honoring overlay suppression.
func (s *SessionController) ActiveSubtitle() (Subtitle, bool) {
	if !s.player.OverlayEnabled() {
		return Subtitle{}, false
	}
	return s.timeline.ActiveAt(s.player.CurrentTime())
}

// ExportState snapshots the session for the local store.
func (s *SessionController) ExportState() *SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == "" {
		return nil
	}
	return &SessionState{
		SessionID:   s.sessionID,
		Filename:    s.filename,
		VideoURL:    s.videoURL,
		Metadata:    s.metadata,
		Subtitles:   s.timeline.Snapshot(),
		Version:     s.timeline.Version(),
		ChatHistory: append([]ChatMessage(nil), s.chatHistory...),
		Artifact:    s.cache.Artifact(),
		CreatedAt:   s.createdAt,
	}
}

// RestoreState rebuilds the controller from a persisted snapshot.
func (s *SessionController) RestoreState(st *SessionState) {
	if st == nil || st.SessionID == "" {
		return
	}
	s.mu.Lock()
	s.epoch++
	s.sessionID = st.SessionID
	s.filename = st.Filename
	s.videoURL = st.VideoURL
	s.metadata = st.Metadata
	s.chatHistory = append([]ChatMessage(nil), st.ChatHistory...)
	s.isProcessing = false
	s.lastError = ""
	s.createdAt = st.CreatedAt
	s.mu.Unlock()

	s.timeline.Restore(st.Subtitles, st.Version)
	s.cache.Restore(st.Artifact)
	s.player.Load(st.VideoURL, st.Metadata.Duration, true)
}

// recordError routes a failure into the chat history as a system
// message and sets the dismissible session-level error. Nothing is
// fatal; the session stays usable and retry is a fresh user action.
// Gate rejections are not failures and are not recorded.
func (s *SessionController) recordError(err error) {
	if errors.Is(err, ErrGenerationInFlight) || errors.Is(err, ErrEditInFlight) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatHistory = append(s.chatHistory, NewSystemMessage(err.Error()))
	s.lastError = err.Error()
}

// resolveTick resolves the active subtitle for a playback tick and
// fans it out to listeners.
func (s *SessionController) resolveTick(t float64) {
	var sub *Subtitle
	if s.player.OverlayEnabled() {
		if active, ok := s.timeline.ActiveAt(t); ok {
			sub = &active
		}
	}

	s.mu.Lock()
	listeners := append([]ActiveSubtitleListener(nil), s.activeListeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(t, sub)
	}
}
