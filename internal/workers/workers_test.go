package workers

import (
	"os"
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	os.Unsetenv("INGEST_WORKERS")
	defer os.Unsetenv("INGEST_WORKERS")

	cpus := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		maxExpect  int
	}{
		{"CPU-bound", 1.0, 0, cpus},
		{"I/O-bound", 2.0, 0, cpus * 2},
		{"Capped", 2.0, 2, 2},
		{"Tiny multiplier still yields one", 0.01, 0, cpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < 1 {
				t.Errorf("Count(%v, %d) = %d, want >= 1", tt.multiplier, tt.limit, got)
			}
			if got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, want <= %d", tt.multiplier, tt.limit, got, tt.maxExpect)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int
	}{
		{"Valid override", "6", 0, 6},
		{"Override capped by limit", "20", 8, 8},
		{"Override below limit", "3", 8, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("INGEST_WORKERS", tt.envValue)
			defer os.Unsetenv("INGEST_WORKERS")

			if got := Count(1.0, tt.limit); got != tt.expected {
				t.Errorf("Count(1.0, %d) with INGEST_WORKERS=%s = %d, want %d",
					tt.limit, tt.envValue, got, tt.expected)
			}
		})
	}
}

func TestCountInvalidOverrideFallsBack(t *testing.T) {
	for _, bad := range []string{"invalid", "0", "-4"} {
		os.Setenv("INGEST_WORKERS", bad)
		if got := Count(1.0, 0); got < 1 {
			t.Errorf("Count with INGEST_WORKERS=%s = %d, want >= 1", bad, got)
		}
	}
	os.Unsetenv("INGEST_WORKERS")
}

func TestForCPUAndForIO(t *testing.T) {
	os.Unsetenv("INGEST_WORKERS")
	defer os.Unsetenv("INGEST_WORKERS")

	if got := ForCPU(4); got < 1 || got > 4 {
		t.Errorf("ForCPU(4) = %d, want 1..4", got)
	}
	if got := ForIO(4); got < 1 || got > 4 {
		t.Errorf("ForIO(4) = %d, want 1..4", got)
	}
}
