package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := New(dir, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("agenda pronta")
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"agenda pronta"`) {
		t.Fatalf("log line not found in %q", string(b))
	}
}
