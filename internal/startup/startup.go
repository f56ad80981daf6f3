package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/workers"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration.
type Config struct {
	UploadsDir     string
	Port           string
	MaxUploadBytes int64
	WorkerLimit    int
	MetricsEnabled bool
	LogStaticFiles bool
}

// LoadConfig loads and validates configuration from environment
// variables, reading an optional .env file first.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to load .env file: %v", err)
	}

	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	uploadsDir := getEnv("UPLOADS_DIR", "./uploads")
	port := getEnv("PORT", "5000")
	maxUploadBytes := getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024)
	workerLimit := int(getEnvInt64("INGEST_WORKER_LIMIT", int64(workers.DefaultLimit)))
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)

	logging.Info("  UPLOADS_DIR:         %s", uploadsDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  MAX_UPLOAD_BYTES:    %d", maxUploadBytes)
	logging.Info("  INGEST_WORKER_LIMIT: %d", workerLimit)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	absUploadsDir, err := filepath.Abs(uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploads directory path: %w", err)
	}

	if err := os.MkdirAll(absUploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if err := testWriteAccess(absUploadsDir); err != nil {
		return nil, fmt.Errorf("uploads directory is not writable: %w", err)
	}
	logging.Info("  Uploads directory (absolute): %s", absUploadsDir)

	if maxUploadBytes <= 0 {
		logging.Warn("  Invalid MAX_UPLOAD_BYTES, using default: 10MB")
		maxUploadBytes = 10 * 1024 * 1024
	}
	if workerLimit <= 0 {
		workerLimit = workers.DefaultLimit
	}

	return &Config{
		UploadsDir:     absUploadsDir,
		Port:           port,
		MaxUploadBytes: maxUploadBytes,
		WorkerLimit:    workerLimit,
		MetricsEnabled: metricsEnabled,
		LogStaticFiles: logStaticFiles,
	}, nil
}

func printBanner() {
	logging.Info("photo-gallery %s (commit %s, built %s, %s)", Version, Commit, BuildTime, GoVersion)
}

// LogFatal logs a fatal startup error and exits.
func LogFatal(format string, args ...any) {
	logging.Fatal(format, args...)
}

// LogServerStarted logs the listening address and startup latency.
func LogServerStarted(port string, elapsed time.Duration) {
	logging.Info("------------------------------------------------------------")
	logging.Info("Server listening on :%s (started in %v)", port, elapsed.Round(time.Millisecond))
	logging.Info("------------------------------------------------------------")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func testWriteAccess(dir string) error {
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}
