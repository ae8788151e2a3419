package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"gopkg.in/yaml.v3"
)

func sampleSubtitles() []internal.Subtitle {
	return []internal.Subtitle{
		{Text: "Hi", StartTime: 0, EndTime: 5, FontFamily: "Arial", FontSize: 32, Color: "red", Position: internal.PositionBottom, Bold: true},
		{Text: "Bye", StartTime: 61.5, EndTime: 63.042, FontFamily: "Arial", FontSize: 32, Color: "white", Position: internal.PositionTop, Italic: true},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"srt", "srt", false},
		{"vtt", "vtt", false},
		{"webvtt", "vtt", false},
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"yml", "yaml", false},
		{"ass", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := NewExporter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewExporter(%q) accepted an unsupported format", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) failed: %v", tt.format, err)
			}
			if got := exp.Extension(); got != tt.wantExt {
				t.Errorf("Extension = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestSRTExporter(t *testing.T) {
	var b strings.Builder
	if err := (&SRTExporter{}).Export(sampleSubtitles(), &b); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"1\n00:00:00,000 --> 00:00:05,000\n<b>Hi</b>\n",
		"2\n00:01:01,500 --> 00:01:03,042\n<i>Bye</i>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SRT output missing %q:\n%s", want, out)
		}
	}
}

func TestSRTExporter_Empty(t *testing.T) {
	var b strings.Builder
	if err := (&SRTExporter{}).Export(nil, &b); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("empty collection produced output: %q", b.String())
	}
}

func TestVTTExporter(t *testing.T) {
	var b strings.Builder
	if err := (&VTTExporter{}).Export(sampleSubtitles(), &b); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Errorf("missing WEBVTT header:\n%s", out)
	}
	for _, want := range []string{
		"00:00:00.000 --> 00:00:05.000",
		"00:01:01.500 --> 00:01:03.042 line:10%",
		"<b>Hi</b>",
		"<i>Bye</i>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("VTT output missing %q:\n%s", want, out)
		}
	}
	// Bottom-positioned cues carry no settings.
	if strings.Contains(out, "00:00:05.000 line:") {
		t.Errorf("bottom cue carries position settings:\n%s", out)
	}
}

func TestJSONExporter(t *testing.T) {
	var b strings.Builder
	if err := (&JSONExporter{}).Export(sampleSubtitles(), &b); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded []internal.Subtitle
	if err := json.Unmarshal([]byte(b.String()), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Text != "Hi" || decoded[0].Color != "red" {
		t.Errorf("decoded = %+v", decoded)
	}

	b.Reset()
	if err := (&JSONExporter{}).Export(nil, &b); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(b.String()) != "[]" {
		t.Errorf("nil collection rendered as %q, want []", b.String())
	}
}

func TestYAMLExporter(t *testing.T) {
	var b strings.Builder
	if err := (&YAMLExporter{}).Export(sampleSubtitles(), &b); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded []map[string]interface{}
	if err := yaml.Unmarshal([]byte(b.String()), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d documents, want 2", len(decoded))
	}
	if decoded[0]["text"] != "Hi" || decoded[0]["start_time"] != 0 {
		t.Errorf("decoded[0] = %v", decoded[0])
	}
	if decoded[1]["position"] != "top" {
		t.Errorf("decoded[1] = %v", decoded[1])
	}
}

func TestSRTTimestampRounding(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{1.002, "00:00:01,002"},
		{3599.999, "00:59:59,999"},
		{3600, "01:00:00,000"},
		{-2, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := srtTimestamp(tt.in); got != tt.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
