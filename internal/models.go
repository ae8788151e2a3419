package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position is where a subtitle is rendered on the video frame.
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Default styling applied when the server omits style fields.
const (
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 32
	DefaultColor      = "white"
	DefaultPosition   = PositionBottom

	MinFontSize = 12
	MaxFontSize = 72
)

// Subtitle is one timed cue in the session's subtitle collection.
// Subtitles carry no identity across edit turns; the whole collection is
// replaced after every turn.
type Subtitle struct {
	Text            string   `json:"text"`
	StartTime       float64  `json:"start_time"`
	EndTime         float64  `json:"end_time"`
	FontFamily      string   `json:"font_family"`
	FontSize        int      `json:"font_size"`
	Color           string   `json:"color"`
	BackgroundColor string   `json:"background_color,omitempty"`
	Position        Position `json:"position"`
	Bold            bool     `json:"bold"`
	Italic          bool     `json:"italic"`
}

// Duration returns the cue length in seconds.
func (s Subtitle) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Validate checks the timing and styling constraints.
func (s Subtitle) Validate() error {
	if s.EndTime <= s.StartTime {
		return fmt.Errorf("subtitle %q: end time %.3f must be after start time %.3f", s.Text, s.EndTime, s.StartTime)
	}
	if s.StartTime < 0 {
		return fmt.Errorf("subtitle %q: start time %.3f must not be negative", s.Text, s.StartTime)
	}
	if s.FontSize != 0 && (s.FontSize < MinFontSize || s.FontSize > MaxFontSize) {
		return fmt.Errorf("subtitle %q: font size %d outside %d-%d", s.Text, s.FontSize, MinFontSize, MaxFontSize)
	}
	return nil
}

// ActiveAt reports whether the cue covers time t. Both bounds are
// inclusive.
func (s Subtitle) ActiveAt(t float64) bool {
	return s.StartTime <= t && t <= s.EndTime
}

// VideoMetadata describes the uploaded media file as reported by the
// Media Service.
type VideoMetadata struct {
	Filename string  `json:"filename,omitempty"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// ChatMessage is one entry in the session's append-only chat history.
// Metadata carries the parameters the Edit Service extracted from an AI
// turn (action, text, timing, style) and is nil for other roles.
type ChatMessage struct {
	Role      Role                   `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewUserMessage creates a user chat message stamped with the current time.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

// NewAIMessage creates an AI chat message with optional extracted parameters.
func NewAIMessage(content string, metadata map[string]interface{}) ChatMessage {
	return ChatMessage{Role: RoleAI, Content: content, Timestamp: time.Now(), Metadata: metadata}
}

// NewSystemMessage creates a system chat message. Errors surfaced to the
// user are appended to history with this role.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content, Timestamp: time.Now()}
}

// ArtifactKind distinguishes preview artifacts from final exports.
type ArtifactKind string

const (
	ArtifactPreview ArtifactKind = "preview"
	ArtifactExport  ArtifactKind = "export"
)

// Artifact is a server-generated media file with burned-in subtitles.
// GeneratedAtVersion records the subtitle collection version at
// generation time; the artifact is stale once the timeline has moved on.
type Artifact struct {
	Kind               ArtifactKind `json:"kind"`
	DownloadURL        string       `json:"download_url"`
	Filename           string       `json:"filename"`
	GeneratedAtVersion uint64       `json:"generated_at_version"`
}

// SilenceSegment is one detected silent span reported with an upload
// response. Informational only.
type SilenceSegment struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// SilenceDetection is the optional silence analysis block the Media
// Service attaches to an upload response.
type SilenceDetection struct {
	HasSilence bool             `json:"has_silence"`
	Segments   []SilenceSegment `json:"segments,omitempty"`
}

// SilenceStats summarizes the silence found in a video, as reported by
// the detect/remove silence calls.
type SilenceStats struct {
	TotalSilenceDuration float64 `json:"total_silence_duration"`
	SilencePercentage    float64 `json:"silence_percentage"`
	NumSilentSegments    int     `json:"num_silent_segments"`
	TotalDuration        float64 `json:"total_duration"`
	DurationAfterRemoval float64 `json:"duration_after_removal"`
}

// rawFields is a loosely-decoded JSON object used to normalize
// heterogeneous wire shapes. The same conceptual field arrives as
// snake_case or camelCase depending on the server code path, and older
// responses nest styling under a "style" object.
type rawFields map[string]json.RawMessage

func (r rawFields) str(keys ...string) string {
	var s string
	r.decode(&s, keys...)
	return s
}

func (r rawFields) num(keys ...string) float64 {
	var f float64
	r.decode(&f, keys...)
	return f
}

func (r rawFields) boolean(keys ...string) bool {
	var b bool
	r.decode(&b, keys...)
	return b
}

func (r rawFields) object(keys ...string) rawFields {
	var o rawFields
	r.decode(&o, keys...)
	return o
}

// decode unmarshals the first present key into dst. Unparseable values
// are skipped so a single malformed field does not poison the cue.
func (r rawFields) decode(dst interface{}, keys ...string) {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err == nil {
			return
		}
	}
}

// UnmarshalJSON accepts the subtitle wire shape in snake_case,
// camelCase, or with a nested style object, and normalizes to the
// internal flat shape with defaults filled in.
func (s *Subtitle) UnmarshalJSON(data []byte) error {
	var raw rawFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse subtitle JSON: %w", err)
	}

	s.Text = raw.str("text")
	s.StartTime = raw.num("start_time", "startTime")
	s.EndTime = raw.num("end_time", "endTime")

	// Flat styling fields, with the nested style object as fallback.
	style := raw.object("style")
	s.FontFamily = firstNonEmpty(
		raw.str("font_family", "fontFamily"),
		style.str("font_family", "fontFamily"),
		DefaultFontFamily)
	s.FontSize = int(firstNonZero(
		raw.num("font_size", "fontSize"),
		style.num("font_size", "fontSize"),
		DefaultFontSize))
	s.Color = firstNonEmpty(
		raw.str("color", "font_color", "fontColor"),
		style.str("color", "font_color", "fontColor"),
		DefaultColor)
	s.BackgroundColor = firstNonEmpty(
		raw.str("background_color", "backgroundColor"),
		style.str("background_color", "backgroundColor"))
	s.Position = Position(firstNonEmpty(
		raw.str("position"),
		style.str("position"),
		string(DefaultPosition)))
	s.Bold = raw.boolean("bold") || style.boolean("bold")
	s.Italic = raw.boolean("italic") || style.boolean("italic")

	return nil
}

// UnmarshalJSON accepts the message role under "role" or "type" (the
// server uses "type") and maps "assistant" to the ai role.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw rawFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse chat message JSON: %w", err)
	}

	m.Role = normalizeRole(raw.str("role", "type"))
	m.Content = raw.str("content")
	raw.decode(&m.Metadata, "metadata")

	var ts string
	raw.decode(&ts, "timestamp")
	if ts != "" {
		if t, err := parseWireTimestamp(ts); err == nil {
			m.Timestamp = t
		}
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

// UnmarshalJSON accepts metadata fields in either casing.
func (v *VideoMetadata) UnmarshalJSON(data []byte) error {
	var raw rawFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse video metadata JSON: %w", err)
	}

	v.Filename = raw.str("filename")
	v.Duration = raw.num("duration")
	v.Width = int(raw.num("width"))
	v.Height = int(raw.num("height"))
	v.FPS = raw.num("fps")
	v.Format = raw.str("format")
	v.Size = int64(raw.num("size"))
	return nil
}

func normalizeRole(role string) Role {
	switch role {
	case "user":
		return RoleUser
	case "ai", "assistant":
		return RoleAI
	case "system":
		return RoleSystem
	default:
		return RoleAI
	}
}

// parseWireTimestamp handles the timestamp formats the server emits:
// RFC3339 and Python's isoformat without a zone.
func parseWireTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999", ts)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
