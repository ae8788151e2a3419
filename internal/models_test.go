package internal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSubtitle_UnmarshalJSON_WireShapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Subtitle
	}{
		{
			name: "snake_case",
			json: `{"text": "Hi", "start_time": 0, "end_time": 5, "font_family": "Helvetica", "font_size": 24, "color": "red", "background_color": "black", "position": "top", "bold": true}`,
			want: Subtitle{
				Text: "Hi", StartTime: 0, EndTime: 5,
				FontFamily: "Helvetica", FontSize: 24,
				Color: "red", BackgroundColor: "black",
				Position: PositionTop, Bold: true,
			},
		},
		{
			name: "camelCase",
			json: `{"text": "Hi", "startTime": 1.5, "endTime": 3.25, "fontFamily": "Georgia", "fontSize": 48, "color": "yellow", "position": "center", "italic": true}`,
			want: Subtitle{
				Text: "Hi", StartTime: 1.5, EndTime: 3.25,
				FontFamily: "Georgia", FontSize: 48,
				Color: "yellow", Position: PositionCenter, Italic: true,
			},
		},
		{
			name: "nested style object",
			json: `{"text": "Hi", "start_time": 0, "end_time": 5, "style": {"font_family": "Courier", "font_size": 20, "color": "green", "position": "top", "bold": true}}`,
			want: Subtitle{
				Text: "Hi", StartTime: 0, EndTime: 5,
				FontFamily: "Courier", FontSize: 20,
				Color: "green", Position: PositionTop, Bold: true,
			},
		},
		{
			name: "defaults when style is omitted",
			json: `{"text": "Hi", "start_time": 0, "end_time": 5}`,
			want: Subtitle{
				Text: "Hi", StartTime: 0, EndTime: 5,
				FontFamily: DefaultFontFamily, FontSize: DefaultFontSize,
				Color: DefaultColor, Position: DefaultPosition,
			},
		},
		{
			name: "flat fields win over nested style",
			json: `{"text": "Hi", "start_time": 0, "end_time": 5, "color": "red", "style": {"color": "blue"}}`,
			want: Subtitle{
				Text: "Hi", StartTime: 0, EndTime: 5,
				FontFamily: DefaultFontFamily, FontSize: DefaultFontSize,
				Color: "red", Position: DefaultPosition,
			},
		},
		{
			name: "font_color alias",
			json: `{"text": "Hi", "start_time": 0, "end_time": 5, "font_color": "cyan"}`,
			want: Subtitle{
				Text: "Hi", StartTime: 0, EndTime: 5,
				FontFamily: DefaultFontFamily, FontSize: DefaultFontSize,
				Color: "cyan", Position: DefaultPosition,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Subtitle
			if err := json.Unmarshal([]byte(tt.json), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestSubtitle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sub     Subtitle
		wantErr bool
	}{
		{"valid", Subtitle{Text: "ok", StartTime: 0, EndTime: 5, FontSize: 32}, false},
		{"zero font size allowed", Subtitle{Text: "ok", StartTime: 0, EndTime: 5}, false},
		{"end before start", Subtitle{Text: "bad", StartTime: 5, EndTime: 2}, true},
		{"zero duration", Subtitle{Text: "bad", StartTime: 3, EndTime: 3}, true},
		{"negative start", Subtitle{Text: "bad", StartTime: -1, EndTime: 2}, true},
		{"font too small", Subtitle{Text: "bad", StartTime: 0, EndTime: 5, FontSize: 8}, true},
		{"font too large", Subtitle{Text: "bad", StartTime: 0, EndTime: 5, FontSize: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubtitle_ActiveAt(t *testing.T) {
	s := Subtitle{StartTime: 2, EndTime: 4}
	tests := []struct {
		at   float64
		want bool
	}{
		{1.999, false},
		{2, true},
		{3, true},
		{4, true},
		{4.001, false},
	}
	for _, tt := range tests {
		if got := s.ActiveAt(tt.at); got != tt.want {
			t.Errorf("ActiveAt(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestChatMessage_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantRole Role
	}{
		{"role key", `{"role": "user", "content": "hello"}`, RoleUser},
		{"type key", `{"type": "ai", "content": "hello"}`, RoleAI},
		{"assistant maps to ai", `{"role": "assistant", "content": "hello"}`, RoleAI},
		{"system", `{"type": "system", "content": "hello"}`, RoleSystem},
		{"unknown defaults to ai", `{"role": "bot", "content": "hello"}`, RoleAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ChatMessage
			if err := json.Unmarshal([]byte(tt.json), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if got.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", got.Role, tt.wantRole)
			}
			if got.Content != "hello" {
				t.Errorf("Content = %q", got.Content)
			}
			if got.Timestamp.IsZero() {
				t.Error("Timestamp not filled in")
			}
		})
	}
}

func TestChatMessage_UnmarshalJSON_Timestamps(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{
			"rfc3339",
			`{"role": "ai", "content": "x", "timestamp": "2026-08-25T10:30:00Z"}`,
			time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		},
		{
			"python isoformat",
			`{"role": "ai", "content": "x", "timestamp": "2026-08-25T10:30:00.123456"}`,
			time.Date(2026, 8, 25, 10, 30, 0, 123456000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ChatMessage
			if err := json.Unmarshal([]byte(tt.json), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !got.Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.want)
			}
		})
	}
}

func TestChatMessage_UnmarshalJSON_Metadata(t *testing.T) {
	var got ChatMessage
	raw := `{"type": "ai", "content": "Added.", "metadata": {"action": "add", "text": "Hi"}}`
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Metadata["action"] != "add" || got.Metadata["text"] != "Hi" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
}

func TestVideoMetadata_UnmarshalJSON(t *testing.T) {
	var got VideoMetadata
	raw := `{"filename": "demo.mp4", "duration": 10.5, "width": 1920, "height": 1080, "fps": 29.97, "format": "mp4", "size": 4096}`
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := VideoMetadata{Filename: "demo.mp4", Duration: 10.5, Width: 1920, Height: 1080, FPS: 29.97, Format: "mp4", Size: 4096}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSubtitle_Duration(t *testing.T) {
	s := Subtitle{StartTime: 1.5, EndTime: 4}
	if got := s.Duration(); got != 2.5 {
		t.Errorf("Duration = %v, want 2.5", got)
	}
}
