package utils

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileCreatesDirAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "office.summary.md")
	if err := SafeWriteFile(path, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(path, []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "second" {
		t.Fatalf("got %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 4})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"rows\": 4") {
		t.Fatalf("not indented: %s", b)
	}
	if _, err := PrettyJSON(math.NaN()); err == nil {
		t.Fatal("expected error for NaN")
	}
}
