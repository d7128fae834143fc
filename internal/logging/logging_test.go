package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := New(Options{LogDir: dir, Console: &console})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info().Str("source", "api").Msg("Snapshot loaded")
	logger.Debug().Msg("hidden at info level")

	if !strings.Contains(console.String(), "Snapshot loaded") {
		t.Errorf("console output missing message: %q", console.String())
	}
	if strings.Contains(console.String(), "hidden") {
		t.Error("debug message should be filtered at info level")
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"source":"api"`) {
		t.Errorf("log file should contain structured JSON, got %q", data)
	}
}
