package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/mahideveloper1/Video-editor-assignment/testutil"
)

func TestValidateUpload(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	video := testutil.WriteTempFile(t, dir, "clip.mp4", []byte("fake video content"))
	textFile := testutil.WriteTempFile(t, dir, "notes.txt", []byte("not a video"))
	empty := testutil.WriteTempFile(t, dir, "empty.mp4", nil)

	tests := []struct {
		name      string
		path      string
		maxSize   int64
		wantField string
	}{
		{"valid mp4", video, 0, ""},
		{"valid under limit", video, 1024, ""},
		{"missing file", dir + "/missing.mp4", 0, "file"},
		{"directory", dir, 0, "file"},
		{"empty file", empty, 0, "file"},
		{"unsupported format", textFile, 0, "format"},
		{"over size limit", video, 4, "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.path, tt.maxSize)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateUpload(%s) = %v, want nil", tt.path, err)
				}
				return
			}
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("ValidateUpload(%s) = %v, want *ValidationError", tt.path, err)
			}
			if valErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateUpload_AllowedExtensions(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	for _, ext := range []string{".mp4", ".mov", ".avi", ".webm", ".MP4"} {
		path := testutil.WriteTempFile(t, dir, "clip"+ext, []byte("x"))
		if err := ValidateUpload(path, 0); err != nil {
			t.Errorf("ValidateUpload(*%s) = %v, want nil", ext, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"output.mp4", "output.mp4"},
		{"my video (final).mp4", "my video _final_.mp4"},
		{"../../etc/passwd", "passwd"},
		{"/tmp/abs/path.mp4", "path.mp4"},
		{"", "video.mp4"},
		{"..", "video.mp4"},
		{"weird\x00name.mp4", "weird_name.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateUpload_FormatMessageListsAllowed(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteTempFile(t, dir, "clip.mkv", []byte("x"))

	err := ValidateUpload(path, 0)
	if err == nil {
		t.Fatal("expected a format error for .mkv")
	}
	// The allowed list is rendered sorted so the message is stable.
	if !strings.Contains(err.Error(), ".avi, .mov, .mp4, .webm") {
		t.Errorf("error %q does not list the allowed formats in order", err)
	}
}
