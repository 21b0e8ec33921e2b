package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "videos.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestAdapter_Fetch(t *testing.T) {
	path := writeFile(t, `[
  {"title": "Intro", "topic": "Basics", "category": "lessons", "platform": "YouTube", "url": "https://youtu.be/dQw4w9WgXcQ"},
  {"title": "", "url": "https://example.com/skip"},
  {"title": "Reel", "topic": "Fun", "category": "shorts", "platform": "", "url": "https://instagram.com/p/abc", "thumbnail": "https://cdn.example.com/r.jpg"}
]`)

	recs, err := NewAdapter(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1].Platform != "Unknown" {
		t.Errorf("expected default platform, got %q", recs[1].Platform)
	}
	if recs[1].Thumbnail != "https://cdn.example.com/r.jpg" {
		t.Errorf("thumbnail lost: %q", recs[1].Thumbnail)
	}
}

func TestAdapter_MissingFile(t *testing.T) {
	a := NewAdapter(filepath.Join(t.TempDir(), "nope.json"))
	_, err := a.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestAdapter_Malformed(t *testing.T) {
	path := writeFile(t, `{"title": "not an array"}`)
	if _, err := NewAdapter(path).Fetch(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestAdapter_DefaultPath(t *testing.T) {
	a := NewAdapter("")
	if a.Path() != DefaultPath {
		t.Errorf("Path() = %q, want %q", a.Path(), DefaultPath)
	}
	if a.GetSourceID() != "file:"+DefaultPath {
		t.Errorf("GetSourceID() = %q", a.GetSourceID())
	}
}
