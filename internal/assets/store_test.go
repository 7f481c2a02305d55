package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "/assets/")

	url, err := store.Save(context.Background(), 3, "clue.png", strings.NewReader("not really a png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/assets/day3/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url: %s", url)
	}

	// The stored name must not be the uploaded one.
	if strings.Contains(url, "clue") {
		t.Fatalf("uploaded filename leaked into url: %s", url)
	}

	files, err := os.ReadDir(filepath.Join(dir, "day3"))
	if err != nil {
		t.Fatalf("read day dir: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one stored file, got %d", len(files))
	}
	raw, err := os.ReadFile(filepath.Join(dir, "day3", files[0].Name()))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(raw) != "not really a png" {
		t.Fatal("stored content mismatch")
	}
}

func TestDiskStoreRejectsUnknownExtensions(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/assets")

	for _, name := range []string{"script.sh", "archive.zip", "noext", "evil.png.exe"} {
		if _, err := store.Save(context.Background(), 1, name, strings.NewReader("x")); err == nil {
			t.Errorf("expected rejection for %s", name)
		}
	}
}
