package export

import (
	"fmt"
	"io"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
)

// SRTExporter writes subtitles in SubRip format.
type SRTExporter struct{}

// Export writes the collection as numbered SRT cues.
func (e *SRTExporter) Export(subtitles []internal.Subtitle, w io.Writer) error {
	for i, sub := range subtitles {
		text := sub.Text
		if sub.Bold {
			text = "<b>" + text + "</b>"
		}
		if sub.Italic {
			text = "<i>" + text + "</i>"
		}
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(sub.StartTime), srtTimestamp(sub.EndTime), text)
		if err != nil {
			return fmt.Errorf("failed to write SRT cue %d: %w", i+1, err)
		}
	}
	return nil
}

// Extension returns the file extension for SRT format
func (e *SRTExporter) Extension() string {
	return "srt"
}

// srtTimestamp renders seconds as HH:MM:SS,mmm.
func srtTimestamp(t float64) string {
	if t < 0 {
		t = 0
	}
	millis := int(t*1000 + 0.5)
	h := millis / 3600000
	m := millis % 3600000 / 60000
	s := millis % 60000 / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
