package export

import (
	"fmt"
	"io"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes subtitles as a YAML document.
type YAMLExporter struct{}

// yamlSubtitle mirrors internal.Subtitle with YAML field names.
type yamlSubtitle struct {
	Text            string  `yaml:"text"`
	StartTime       float64 `yaml:"start_time"`
	EndTime         float64 `yaml:"end_time"`
	FontFamily      string  `yaml:"font_family"`
	FontSize        int     `yaml:"font_size"`
	Color           string  `yaml:"color"`
	BackgroundColor string  `yaml:"background_color,omitempty"`
	Position        string  `yaml:"position"`
	Bold            bool    `yaml:"bold,omitempty"`
	Italic          bool    `yaml:"italic,omitempty"`
}

// Export writes the collection as YAML.
func (e *YAMLExporter) Export(subtitles []internal.Subtitle, w io.Writer) error {
	out := make([]yamlSubtitle, 0, len(subtitles))
	for _, sub := range subtitles {
		out = append(out, yamlSubtitle{
			Text:            sub.Text,
			StartTime:       sub.StartTime,
			EndTime:         sub.EndTime,
			FontFamily:      sub.FontFamily,
			FontSize:        sub.FontSize,
			Color:           sub.Color,
			BackgroundColor: sub.BackgroundColor,
			Position:        string(sub.Position),
			Bold:            sub.Bold,
			Italic:          sub.Italic,
		})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal subtitles YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write subtitles YAML: %w", err)
	}
	return nil
}

// Extension returns the file extension for YAML format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
