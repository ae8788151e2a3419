package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
)

// VTTExporter writes subtitles in WebVTT format.
type VTTExporter struct{}

// Export writes the collection as a WebVTT file with position cues.
func (e *VTTExporter) Export(subtitles []internal.Subtitle, w io.Writer) error {
	if _, err := fmt.Fprint(w, "WEBVTT\n\n"); err != nil {
		return fmt.Errorf("failed to write WebVTT header: %w", err)
	}

	for i, sub := range subtitles {
		settings := vttSettings(sub.Position)
		line := fmt.Sprintf("%s --> %s", vttTimestamp(sub.StartTime), vttTimestamp(sub.EndTime))
		if settings != "" {
			line += " " + settings
		}

		text := sub.Text
		if sub.Bold {
			text = "<b>" + text + "</b>"
		}
		if sub.Italic {
			text = "<i>" + text + "</i>"
		}

		if _, err := fmt.Fprintf(w, "%d\n%s\n%s\n\n", i+1, line, text); err != nil {
			return fmt.Errorf("failed to write WebVTT cue %d: %w", i+1, err)
		}
	}
	return nil
}

// Extension returns the file extension for WebVTT format
func (e *VTTExporter) Extension() string {
	return "vtt"
}

func vttSettings(pos internal.Position) string {
	switch pos {
	case internal.PositionTop:
		return "line:10%"
	case internal.PositionCenter:
		return "line:50%"
	default:
		return ""
	}
}

// vttTimestamp renders seconds as HH:MM:SS.mmm.
func vttTimestamp(t float64) string {
	return strings.Replace(srtTimestamp(t), ",", ".", 1)
}
