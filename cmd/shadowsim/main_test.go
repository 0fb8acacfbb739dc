package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCmdPlan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"point", []string{"40", "10"}, 0},
		{"spot", []string{"-type", "spot", "-quality", "low", "5", "10"}, 0},
		{"shadows off", []string{"-quality", "off", "40", "10"}, 0},
		{"missing range", []string{"40"}, 1},
		{"bad distance", []string{"far", "10"}, 1},
		{"bad quality", []string{"-quality", "ultra", "40", "10"}, 1},
		{"bad type", []string{"-type", "sun", "40", "10"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cmdPlan(tt.args); got != tt.want {
				t.Errorf("expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCmdTraceMissingFile(t *testing.T) {
	if got := cmdTrace(nil); got != 1 {
		t.Errorf("expected exit code 1 without arguments, got %d", got)
	}
	if got := cmdTrace([]string{filepath.Join(t.TempDir(), "none.trace")}); got != 1 {
		t.Errorf("expected exit code 1 for a missing file, got %d", got)
	}
}

func TestCmdRun(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir ignores XDG_CONFIG_HOME on this platform")
	}
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(tmpDir)

	tracePath := filepath.Join(tmpDir, "run.trace")
	code := cmdRun([]string{"-quality", "low", "-frames", "5", "-lights", "4", "-trace", tracePath, "-save-config"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	saved := filepath.Join(tmpDir, "xdg", "shadowcast", "config.yaml")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("expected config saved to %s: %v", saved, err)
	}
	if got := cmdTrace([]string{tracePath}); got != 0 {
		t.Errorf("expected trace summary exit code 0, got %d", got)
	}

	// command flags are process wide, so the failing run resets the save flag
	if got := cmdRun([]string{"-quality", "ultra", "-save-config=false"}); got != 1 {
		t.Errorf("expected exit code 1 for an unknown quality, got %d", got)
	}
}
