package startup

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)
	t.Setenv("PORT", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("INGEST_WORKER_LIMIT", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "5000" {
		t.Errorf("Port = %q, want 5000", config.Port)
	}
	if config.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 10MB", config.MaxUploadBytes)
	}
	if config.WorkerLimit < 1 {
		t.Errorf("WorkerLimit = %d, want >= 1", config.WorkerLimit)
	}
	if !filepath.IsAbs(config.UploadsDir) {
		t.Errorf("UploadsDir = %q, want absolute path", config.UploadsDir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)
	t.Setenv("PORT", "8123")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("INGEST_WORKER_LIMIT", "2")
	t.Setenv("METRICS_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "8123" {
		t.Errorf("Port = %q, want 8123", config.Port)
	}
	if config.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d, want 1048576", config.MaxUploadBytes)
	}
	if config.WorkerLimit != 2 {
		t.Errorf("WorkerLimit = %d, want 2", config.WorkerLimit)
	}
	if config.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("INGEST_WORKER_LIMIT", "bogus")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want default", config.MaxUploadBytes)
	}
	if config.WorkerLimit < 1 {
		t.Errorf("WorkerLimit = %d, want >= 1", config.WorkerLimit)
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("incomplete build info: %+v", info)
	}
}
