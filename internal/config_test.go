package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mahideveloper1/Video-editor-assignment/testutil"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	t.Setenv("HOME", dir)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.MaxUploadMB != DefaultMaxUploadMB {
		t.Errorf("MaxUploadMB = %d, want %d", cfg.MaxUploadMB, DefaultMaxUploadMB)
	}
	if cfg.Timeout() != DefaultHTTPTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout(), DefaultHTTPTimeout)
	}
	if cfg.StateDir != filepath.Join(dir, DefaultStateDirName) {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.DownloadDir != "." {
		t.Errorf("DownloadDir = %q, want %q", cfg.DownloadDir, ".")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteTempFile(t, dir, "config.yaml", []byte(
		"api_url: http://media.example.test:9000\nmax_upload_mb: 100\ntimeout_seconds: 30\nstate_dir: "+dir+"\n"))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIURL != "http://media.example.test:9000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.MaxUploadMB != 100 {
		t.Errorf("MaxUploadMB = %d, want 100", cfg.MaxUploadMB)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout())
	}
	if got := cfg.DatabasePath(); got != filepath.Join(dir, DefaultDatabaseName) {
		t.Errorf("DatabasePath = %q", got)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteTempFile(t, dir, "config.yaml", []byte(
		"api_url: http://from-file.test\nmax_upload_mb: 100\nstate_dir: "+dir+"\n"))

	t.Setenv("VEDIT_API_URL", "http://from-env.test")
	t.Setenv("VEDIT_MAX_UPLOAD_MB", "250")
	t.Setenv("VEDIT_TIMEOUT_SECONDS", "15")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIURL != "http://from-env.test" {
		t.Errorf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.MaxUploadMB != 250 {
		t.Errorf("MaxUploadMB = %d, want 250", cfg.MaxUploadMB)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want 15", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_IgnoresBadEnvNumbers(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	t.Setenv("HOME", dir)
	t.Setenv("VEDIT_MAX_UPLOAD_MB", "not-a-number")
	t.Setenv("VEDIT_TIMEOUT_SECONDS", "-5")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MaxUploadMB != DefaultMaxUploadMB {
		t.Errorf("MaxUploadMB = %d, want default", cfg.MaxUploadMB)
	}
	if cfg.TimeoutSeconds != int(DefaultHTTPTimeout/time.Second) {
		t.Errorf("TimeoutSeconds = %d, want default", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteTempFile(t, dir, "config.yaml", []byte("api_url: [not: valid\n"))

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted malformed YAML")
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := &Config{
		APIURL:         "http://saved.test",
		MaxUploadMB:    42,
		TimeoutSeconds: 9,
		StateDir:       dir,
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.APIURL != cfg.APIURL || loaded.MaxUploadMB != cfg.MaxUploadMB || loaded.TimeoutSeconds != cfg.TimeoutSeconds {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestConfig_MaxUploadBytes(t *testing.T) {
	cfg := &Config{MaxUploadMB: 2}
	if got := cfg.MaxUploadBytes(); got != 2*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", got)
	}
}
