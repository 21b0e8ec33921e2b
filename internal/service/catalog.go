package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/embed"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/source"
)

// ErrUnavailable is returned when no catalogue snapshot could be loaded.
var ErrUnavailable = errors.New("could not load videos")

// RunStore persists load history. *repository.LoadRunRepository satisfies it.
type RunStore interface {
	Create(ctx context.Context, run *domain.LoadRun) error
	Update(ctx context.Context, run *domain.LoadRun) error
	Latest(ctx context.Context) (*domain.LoadRun, error)
	ListRecent(ctx context.Context, limit int) ([]domain.LoadRun, error)
	CountByStatus(ctx context.Context, status domain.LoadStatus) (int64, error)
}

// Fetcher is the data source chain the catalogue loads from.
type Fetcher interface {
	Fetch(ctx context.Context) (*source.Result, error)
}

// Filter narrows the catalogue for one page view.
type Filter struct {
	Category string `form:"category" json:"category,omitempty"`
	Topic    string `form:"topic" json:"topic,omitempty"`
	Query    string `form:"q" json:"q,omitempty"`
}

// CardListResponse is the result of a catalogue query.
type CardListResponse struct {
	Cards    []domain.Card `json:"cards"`
	Total    int           `json:"total"`
	Category string        `json:"category,omitempty"`
	Topics   []string      `json:"topics"`
	LoadedAt time.Time     `json:"loaded_at"`
	Source   string        `json:"source"`
}

// CatalogService holds the current snapshot of video records.
type CatalogService struct {
	fetcher Fetcher
	runs    RunStore
	logger  *logger.Logger

	mu       sync.RWMutex
	records  []domain.VideoRecord
	loaded   bool
	loadedAt time.Time
	sourceID string
}

// NewCatalogService creates a new catalogue service.
// Parameters:
//   - fetcher: source chain used by Load.
//   - runs: optional store for load history; nil disables history.
//   - log: logger instance.
// Returns:
//   - *CatalogService: service with an empty snapshot.
func NewCatalogService(fetcher Fetcher, runs RunStore, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.GetDefault()
	}
	return &CatalogService{
		fetcher: fetcher,
		runs:    runs,
		logger:  log,
	}
}

func (s *CatalogService) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

// Load fetches a full snapshot and replaces the current one.
// On failure the previous snapshot stays in place.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.LoadRun: record of this load.
//   - error: wraps ErrUnavailable when every source failed.
func (s *CatalogService) Load(ctx context.Context) (*domain.LoadRun, error) {
	run := &domain.LoadRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}
	ctx = logger.SetRunID(ctx, run.ID)
	s.recordRun(ctx, run, true)

	res, err := s.fetcher.Fetch(ctx)
	completed := time.Now()
	run.CompletedAt = &completed
	duration := completed.Sub(run.StartedAt)

	if err != nil {
		run.Status = domain.LoadStatusFailed
		run.Error = err.Error()
		s.recordRun(ctx, run, false)
		logger.With(logger.Fields{
			logger.FieldDurationMs: duration.Milliseconds(),
		}).Error(ctx, "Catalogue load failed: error=%v", err)
		return run, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	run.Source = res.SourceID
	run.RecordCount = len(res.Records)
	run.Status = domain.LoadStatusSuccess
	if res.UsedBackup {
		run.Status = domain.LoadStatusFallback
		if res.PrimaryErr != nil {
			run.Error = res.PrimaryErr.Error()
		}
	}

	s.mu.Lock()
	s.records = res.Records
	s.loaded = true
	s.loadedAt = completed
	s.sourceID = res.SourceID
	s.mu.Unlock()

	s.recordRun(ctx, run, false)
	logger.With(logger.Fields{
		logger.FieldSource: run.Source,
	}).WithDuration(duration.Milliseconds()).WithCount(run.RecordCount).Info(ctx, "Catalogue loaded: status=%s", run.Status)

	return run, nil
}

// recordRun persists the run; history is best-effort and never fails a load.
func (s *CatalogService) recordRun(ctx context.Context, run *domain.LoadRun, create bool) {
	if s.runs == nil {
		return
	}
	var err error
	if create {
		err = s.runs.Create(ctx, run)
	} else {
		err = s.runs.Update(ctx, run)
	}
	if err != nil {
		s.log(ctx).WithError(err).Warn("Failed to record load run")
	}
}

// snapshot returns the current records and load metadata.
func (s *CatalogService) snapshot() ([]domain.VideoRecord, bool, time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.loaded, s.loadedAt, s.sourceID
}

// IsLoaded reports whether any snapshot has been loaded.
func (s *CatalogService) IsLoaded() bool {
	_, loaded, _, _ := s.snapshot()
	return loaded
}

// Query returns the cards matching f, in source order.
// Parameters:
//   - ctx: context for logging.
//   - f: category, topic, and free-text filters; empty fields match everything.
// Returns:
//   - *CardListResponse: matching cards and the topics available in the category.
//   - error: ErrUnavailable when no snapshot has loaded.
func (s *CatalogService) Query(ctx context.Context, f Filter) (*CardListResponse, error) {
	records, loaded, loadedAt, sourceID := s.snapshot()
	if !loaded {
		return nil, ErrUnavailable
	}

	inCategory := FilterRecords(records, Filter{Category: f.Category})
	matched := FilterRecords(inCategory, Filter{Topic: f.Topic, Query: f.Query})

	logger.CtxDebug(ctx, "Catalogue query: category=%q, topic=%q, q=%q, matched=%d",
		f.Category, f.Topic, f.Query, len(matched))

	return &CardListResponse{
		Cards:    embed.BuildCards(matched),
		Total:    len(matched),
		Category: f.Category,
		Topics:   distinct(inCategory, func(r domain.VideoRecord) string { return r.Topic }),
		LoadedAt: loadedAt,
		Source:   sourceID,
	}, nil
}

// Categories returns the distinct non-empty categories, sorted.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	records, loaded, _, _ := s.snapshot()
	if !loaded {
		return nil, ErrUnavailable
	}
	return distinct(records, func(r domain.VideoRecord) string { return r.Category }), nil
}

// Topics returns the distinct topics within a category; empty category means all.
func (s *CatalogService) Topics(ctx context.Context, category string) ([]string, error) {
	records, loaded, _, _ := s.snapshot()
	if !loaded {
		return nil, ErrUnavailable
	}
	return distinct(FilterRecords(records, Filter{Category: category}),
		func(r domain.VideoRecord) string { return r.Topic }), nil
}

// Stats summarizes the snapshot and recent load history.
func (s *CatalogService) Stats(ctx context.Context) (map[string]interface{}, error) {
	records, loaded, loadedAt, sourceID := s.snapshot()

	stats := map[string]interface{}{
		"loaded":        loaded,
		"total_videos":  len(records),
		"source":        sourceID,
		"categories":    distinct(records, func(r domain.VideoRecord) string { return r.Category }),
		"embeddable":    countEmbeddable(records),
		"loaded_at":     nil,
		"recent_loads":  []domain.LoadRun{},
		"last_load_run": nil,
	}
	if loaded {
		stats["loaded_at"] = loadedAt
	}

	if s.runs != nil {
		latest, err := s.runs.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest load run: %w", err)
		}
		if latest != nil {
			stats["last_load_run"] = latest
		}
		recent, err := s.runs.ListRecent(ctx, 10)
		if err != nil {
			return nil, fmt.Errorf("failed to list load runs: %w", err)
		}
		stats["recent_loads"] = recent
		failed, err := s.runs.CountByStatus(ctx, domain.LoadStatusFailed)
		if err != nil {
			return nil, fmt.Errorf("failed to count load runs: %w", err)
		}
		stats["failed_loads"] = failed
	}

	return stats, nil
}

// FilterRecords applies f to records, preserving order.
// Category matches exactly; topic matches case-insensitively; Query is a
// case-insensitive substring match over title, topic and platform.
func FilterRecords(records []domain.VideoRecord, f Filter) []domain.VideoRecord {
	category := strings.TrimSpace(f.Category)
	topic := strings.TrimSpace(f.Topic)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.VideoRecord, 0, len(records))
	for _, r := range records {
		if category != "" && r.Category != category {
			continue
		}
		if topic != "" && !strings.EqualFold(r.Topic, topic) {
			continue
		}
		if query != "" && !matchesQuery(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r domain.VideoRecord, lowerQuery string) bool {
	for _, field := range []string{r.Title, r.Topic, r.Platform} {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}

func distinct(records []domain.VideoRecord, key func(domain.VideoRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func countEmbeddable(records []domain.VideoRecord) int {
	n := 0
	for _, r := range records {
		if embed.Resolve(r) != nil {
			n++
		}
	}
	return n
}
