package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
)

// JSONExporter writes subtitles as an indented JSON array in the
// internal snake_case shape.
type JSONExporter struct{}

// Export writes the collection as JSON.
func (e *JSONExporter) Export(subtitles []internal.Subtitle, w io.Writer) error {
	if subtitles == nil {
		subtitles = []internal.Subtitle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(subtitles); err != nil {
		return fmt.Errorf("failed to encode subtitles JSON: %w", err)
	}
	return nil
}

// Extension returns the file extension for JSON format
func (e *JSONExporter) Extension() string {
	return "json"
}
