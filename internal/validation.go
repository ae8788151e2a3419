package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AllowedVideoFormats lists the upload extensions the Media Service
// accepts.
var AllowedVideoFormats = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
}

// ValidateUpload checks a local video file against the format and size
// limits before any network call is made. Failures are ValidationError
// values and never reach the wire.
func ValidateUpload(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: "file", Detail: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	if info.IsDir() {
		return &ValidationError{Field: "file", Detail: fmt.Sprintf("%s is a directory", path)}
	}
	if info.Size() == 0 {
		return &ValidationError{Field: "file", Detail: fmt.Sprintf("%s is empty", path)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !AllowedVideoFormats[ext] {
		return &ValidationError{
			Field:  "format",
			Detail: fmt.Sprintf("unsupported format %q (allowed: %s)", ext, strings.Join(allowedFormatList(), ", ")),
		}
	}

	if maxSize > 0 && info.Size() > maxSize {
		return &ValidationError{
			Field:  "size",
			Detail: fmt.Sprintf("file is %d bytes, maximum is %d", info.Size(), maxSize),
		}
	}

	return nil
}

func allowedFormatList() []string {
	formats := make([]string, 0, len(AllowedVideoFormats))
	for ext := range AllowedVideoFormats {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// SanitizeFilename strips path components and characters that are not
// safe in a saved filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return "video.mp4"
	}
	return out
}
