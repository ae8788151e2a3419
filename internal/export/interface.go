// Package export writes the session's subtitle collection to local
// subtitle file formats.
package export

import (
	"fmt"
	"io"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
)

// Exporter defines the interface for all subtitle export formats
type Exporter interface {
	Export(subtitles []internal.Subtitle, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "srt":
		return &SRTExporter{}, nil
	case "vtt", "webvtt":
		return &VTTExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: srt, vtt, json, yaml)", format)
	}
}
