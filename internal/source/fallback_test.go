package source

import (
	"context"
	"errors"
	"testing"

	"github.com/timmy/vidgrid/internal/domain"
)

type stubSource struct {
	id    string
	recs  []domain.VideoRecord
	err   error
	calls int
}

func (s *stubSource) GetSourceID() string    { return s.id }
func (s *stubSource) GetDisplayName() string { return s.id }
func (s *stubSource) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	s.calls++
	return s.recs, s.err
}

func TestFallback_PrimaryServes(t *testing.T) {
	primary := &stubSource{id: "sheet", recs: []domain.VideoRecord{{Title: "a", URL: "u"}}}
	backup := &stubSource{id: "file"}

	res, err := NewFallback(primary, backup).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SourceID != "sheet" || res.UsedBackup {
		t.Errorf("expected primary to serve, got %+v", res)
	}
	if backup.calls != 0 {
		t.Errorf("backup called %d times, want 0", backup.calls)
	}
}

func TestFallback_BackupServesOnce(t *testing.T) {
	primary := &stubSource{id: "sheet", err: errors.New("timeout")}
	backup := &stubSource{id: "file", recs: []domain.VideoRecord{{Title: "a", URL: "u"}}}

	res, err := NewFallback(primary, backup).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SourceID != "file" || !res.UsedBackup || res.PrimaryErr == nil {
		t.Errorf("expected backup to serve, got %+v", res)
	}
	if primary.calls != 1 || backup.calls != 1 {
		t.Errorf("calls primary=%d backup=%d, want 1 and 1", primary.calls, backup.calls)
	}
}

func TestFallback_BothFail(t *testing.T) {
	errPrimary := errors.New("timeout")
	errBackup := errors.New("missing file")
	primary := &stubSource{id: "sheet", err: errPrimary}
	backup := &stubSource{id: "file", err: errBackup}

	_, err := NewFallback(primary, backup).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errPrimary) || !errors.Is(err, errBackup) {
		t.Errorf("error should wrap both causes, got %v", err)
	}
}

func TestFallback_NoSources(t *testing.T) {
	_, err := NewFallback(nil, nil).Fetch(context.Background())
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	in := []domain.VideoRecord{
		{Title: "  Intro ", URL: " https://youtu.be/dQw4w9WgXcQ ", Topic: " basics "},
		{Title: "", URL: "https://example.com"},
		{Title: "No url", URL: "   "},
		{Title: "Reel", URL: "https://instagram.com/p/x", Platform: "Instagram"},
	}

	out := Normalize(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Title != "Intro" || out[0].URL != "https://youtu.be/dQw4w9WgXcQ" || out[0].Topic != "basics" {
		t.Errorf("record not trimmed: %+v", out[0])
	}
	if out[0].Platform != domain.DefaultPlatformLabel {
		t.Errorf("expected default platform, got %q", out[0].Platform)
	}
	if out[1].Platform != "Instagram" {
		t.Errorf("platform overwritten: %q", out[1].Platform)
	}
}
