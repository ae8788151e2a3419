package internal

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.000"},
		{5, "0:05.000"},
		{61.5, "1:01.500"},
		{125.042, "2:05.042"},
		{-3, "0:00.000"},
	}
	for _, tt := range tests {
		if got := FormatTimecode(tt.in); got != tt.want {
			t.Errorf("FormatTimecode(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderChatMessage(t *testing.T) {
	ts := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		msg  ChatMessage
		want string
	}{
		{"user", ChatMessage{Role: RoleUser, Content: "add a subtitle", Timestamp: ts}, "you:"},
		{"ai", ChatMessage{Role: RoleAI, Content: "done", Timestamp: ts}, "ai:"},
		{"system", ChatMessage{Role: RoleSystem, Content: "service unavailable", Timestamp: ts}, "service unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderChatMessage(tt.msg)
			if !strings.Contains(got, tt.want) {
				t.Errorf("RenderChatMessage = %q, want it to contain %q", got, tt.want)
			}
			if !strings.Contains(got, tt.msg.Content) {
				t.Errorf("RenderChatMessage = %q, missing content", got)
			}
		})
	}
}

func TestRenderChatHistory_Empty(t *testing.T) {
	got := RenderChatHistory(nil)
	if !strings.Contains(got, "No messages") {
		t.Errorf("empty history render = %q", got)
	}
}

func TestRenderSubtitleTable(t *testing.T) {
	var b strings.Builder
	RenderSubtitleTable(&b, []Subtitle{
		{Text: "Hi", StartTime: 0, EndTime: 5, FontFamily: "Arial", FontSize: 32, Color: "red", Position: PositionBottom, Bold: true},
	})
	out := b.String()
	for _, want := range []string{"Hi", "0:00.000", "0:05.000", "red", "bold"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	b.Reset()
	RenderSubtitleTable(&b, nil)
	if !strings.Contains(b.String(), "No subtitles") {
		t.Errorf("empty table render = %q", b.String())
	}
}

func TestRenderOverlay(t *testing.T) {
	if got := RenderOverlay(nil); got != "" {
		t.Errorf("RenderOverlay(nil) = %q, want empty", got)
	}
	sub := &Subtitle{Text: "Hi there"}
	if got := RenderOverlay(sub); !strings.Contains(got, "Hi there") {
		t.Errorf("RenderOverlay = %q", got)
	}
}
