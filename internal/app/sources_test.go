package app

import (
	"testing"

	"github.com/timmy/vidgrid/internal/config"
)

func TestBuildSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sources.Sheet.Enabled = true
	cfg.Sources.Sheet.URL = "https://docs.google.com/spreadsheets/d/abc/export?format=csv"
	cfg.Sources.File.Enabled = true
	cfg.Sources.File.Path = "data/videos.json"

	srcs := BuildSources(cfg).Sources()
	if len(srcs) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(srcs))
	}
	if srcs[0].GetSourceID() != "sheet" || srcs[1].GetSourceID() != "file:data/videos.json" {
		t.Errorf("unexpected order: %s, %s", srcs[0].GetSourceID(), srcs[1].GetSourceID())
	}
}

func TestBuildSources_SheetWithoutURLIsSkipped(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sources.Sheet.Enabled = true
	cfg.Sources.File.Enabled = true

	srcs := BuildSources(cfg).Sources()
	if len(srcs) != 1 || srcs[0].GetSourceID() != "file:data/videos.json" {
		t.Errorf("expected only the file source, got %d sources", len(srcs))
	}
}
