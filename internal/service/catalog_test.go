package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/source"
)

type fakeFetcher struct {
	res *source.Result
	err error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*source.Result, error) {
	return f.res, f.err
}

type memoryRuns struct {
	mu   sync.Mutex
	runs map[string]domain.LoadRun
	last string
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: make(map[string]domain.LoadRun)}
}

func (m *memoryRuns) Create(ctx context.Context, run *domain.LoadRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	m.last = run.ID
	return nil
}

func (m *memoryRuns) Update(ctx context.Context, run *domain.LoadRun) error {
	return m.Create(ctx, run)
}

func (m *memoryRuns) Latest(ctx context.Context) (*domain.LoadRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == "" {
		return nil, nil
	}
	run := m.runs[m.last]
	return &run, nil
}

func (m *memoryRuns) ListRecent(ctx context.Context, limit int) ([]domain.LoadRun, error) {
	run, _ := m.Latest(ctx)
	if run == nil {
		return nil, nil
	}
	return []domain.LoadRun{*run}, nil
}

func (m *memoryRuns) CountByStatus(ctx context.Context, status domain.LoadStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.runs {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

var sampleRecords = []domain.VideoRecord{
	{Title: "Warmup basics", Topic: "Mobility", Category: "training", Platform: "YouTube", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	{Title: "Stretch reel", Topic: "mobility", Category: "training", Platform: "Instagram", URL: "https://www.instagram.com/p/Cabc123"},
	{Title: "Interview", Topic: "Stories", Category: "talks", Platform: "Vimeo", URL: "https://vimeo.com/1"},
	{Title: "Drill", Topic: "Strength", Category: "training", Platform: "Other", URL: "https://example.com/v", Thumbnail: "https://cdn.example.com/d.jpg"},
}

func loadedService(t *testing.T) (*CatalogService, *memoryRuns) {
	t.Helper()
	runs := newMemoryRuns()
	svc := NewCatalogService(&fakeFetcher{res: &source.Result{Records: sampleRecords, SourceID: "sheet"}}, runs, nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc, runs
}

func TestCatalogService_QueryBeforeLoad(t *testing.T) {
	svc := NewCatalogService(&fakeFetcher{}, nil, nil)
	if _, err := svc.Query(context.Background(), Filter{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.Categories(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestCatalogService_LoadRecordsRun(t *testing.T) {
	svc, runs := loadedService(t)

	latest, _ := runs.Latest(context.Background())
	if latest == nil || latest.Status != domain.LoadStatusSuccess || latest.RecordCount != len(sampleRecords) {
		t.Errorf("unexpected run: %+v", latest)
	}
	if latest.Source != "sheet" || latest.CompletedAt == nil {
		t.Errorf("run missing source or completion: %+v", latest)
	}
	if !svc.IsLoaded() {
		t.Error("expected service to be loaded")
	}
}

func TestCatalogService_LoadFailureKeepsSnapshot(t *testing.T) {
	svc, runs := loadedService(t)
	svc.fetcher = &fakeFetcher{err: errors.New("sheet: timeout")}

	run, err := svc.Load(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if run.Status != domain.LoadStatusFailed {
		t.Errorf("status = %q, want failed", run.Status)
	}
	latest, _ := runs.Latest(context.Background())
	if latest.Status != domain.LoadStatusFailed {
		t.Errorf("stored status = %q, want failed", latest.Status)
	}

	resp, err := svc.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("previous snapshot should still serve: %v", err)
	}
	if resp.Total != len(sampleRecords) {
		t.Errorf("total = %d, want %d", resp.Total, len(sampleRecords))
	}
}

func TestCatalogService_LoadFallbackStatus(t *testing.T) {
	svc := NewCatalogService(&fakeFetcher{res: &source.Result{
		Records:    sampleRecords[:1],
		SourceID:   "file:data/videos.json",
		UsedBackup: true,
		PrimaryErr: errors.New("sheet: status 500"),
	}}, nil, nil)

	run, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.Status != domain.LoadStatusFallback || run.Error == "" {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestCatalogService_Query(t *testing.T) {
	svc, _ := loadedService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		titles []string
	}{
		{"everything", Filter{}, []string{"Warmup basics", "Stretch reel", "Interview", "Drill"}},
		{"category page", Filter{Category: "training"}, []string{"Warmup basics", "Stretch reel", "Drill"}},
		{"topic is case-insensitive", Filter{Category: "training", Topic: "MOBILITY"}, []string{"Warmup basics", "Stretch reel"}},
		{"search title", Filter{Query: "reel"}, []string{"Stretch reel"}},
		{"search platform", Filter{Query: "vimeo"}, []string{"Interview"}},
		{"search topic within category", Filter{Category: "training", Query: "strength"}, []string{"Drill"}},
		{"category is exact", Filter{Category: "Training"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(resp.Cards) != len(tt.titles) {
				t.Fatalf("got %d cards, want %d", len(resp.Cards), len(tt.titles))
			}
			for i, title := range tt.titles {
				if resp.Cards[i].Title != title {
					t.Errorf("card %d = %q, want %q", i, resp.Cards[i].Title, title)
				}
			}
		})
	}
}

func TestCatalogService_QueryResolvesCards(t *testing.T) {
	svc, _ := loadedService(t)

	resp, err := svc.Query(context.Background(), Filter{Category: "training"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.Cards[0].Embed == nil || resp.Cards[0].Embed.Src != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("youtube card not embedded: %+v", resp.Cards[0])
	}
	if resp.Cards[2].Embed != nil || resp.Cards[2].ThumbURL != "https://cdn.example.com/d.jpg" {
		t.Errorf("thumbnail card wrong: %+v", resp.Cards[2])
	}
	wantTopics := []string{"Mobility", "Strength", "mobility"}
	if len(resp.Topics) != len(wantTopics) {
		t.Fatalf("topics = %v, want %v", resp.Topics, wantTopics)
	}
	for i := range wantTopics {
		if resp.Topics[i] != wantTopics[i] {
			t.Errorf("topics = %v, want %v", resp.Topics, wantTopics)
			break
		}
	}
}

func TestCatalogService_CategoriesAndStats(t *testing.T) {
	svc, _ := loadedService(t)
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "talks" || cats[1] != "training" {
		t.Errorf("categories = %v", cats)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["total_videos"] != 4 || stats["embeddable"] != 2 {
		t.Errorf("stats = %v", stats)
	}
	if stats["last_load_run"] == nil {
		t.Error("expected last load run in stats")
	}
	if stats["failed_loads"] != int64(0) {
		t.Errorf("failed_loads = %v, want 0", stats["failed_loads"])
	}
}

type failingRuns struct{ *memoryRuns }

func (f *failingRuns) Create(ctx context.Context, run *domain.LoadRun) error {
	return errors.New("database is locked")
}

func (f *failingRuns) Update(ctx context.Context, run *domain.LoadRun) error {
	return errors.New("database is locked")
}

func TestCatalogService_RunStoreErrorsUseServiceLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "warn", Format: "json", Output: &buf, ServiceName: "catalog-test"})
	runs := &failingRuns{memoryRuns: newMemoryRuns()}
	svc := NewCatalogService(&fakeFetcher{res: &source.Result{Records: sampleRecords, SourceID: "sheet"}}, runs, log)

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("history errors must not fail a load: %v", err)
	}
	if !strings.Contains(buf.String(), "Failed to record load run") {
		t.Errorf("expected warning on the injected logger, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "database is locked") {
		t.Errorf("expected store error in log, got %q", buf.String())
	}
}
