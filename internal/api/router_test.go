package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/vidgrid/internal/config"
	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/service"
	"github.com/timmy/vidgrid/internal/source"
)

type staticSource struct {
	recs []domain.VideoRecord
	err  error
}

func (s *staticSource) GetSourceID() string    { return "static" }
func (s *staticSource) GetDisplayName() string { return "Static" }
func (s *staticSource) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	return s.recs, s.err
}

var testRecords = []domain.VideoRecord{
	{Title: "Warmup", Topic: "Mobility", Category: "training", Platform: "YouTube", URL: "https://youtu.be/dQw4w9WgXcQ"},
	{Title: "Reel", Topic: "Fun", Category: "training", Platform: "Instagram", URL: "https://www.instagram.com/p/Cabc123"},
	{Title: "Talk", Topic: "Stories", Category: "talks", Platform: "Vimeo", URL: "https://vimeo.com/1"},
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.SiteTitle = "Test videos"
	cfg.Server.CORS.AllowAllOrigins = true
	cfg.Server.Reload.PerMinute = 60
	cfg.Server.Reload.Burst = 1
	return cfg
}

func newRouter(t *testing.T, src *staticSource, load bool, cfg *config.Config) http.Handler {
	t.Helper()
	catalog := service.NewCatalogService(source.NewFallback(src, nil), nil, nil)
	if load {
		_, err := catalog.Load(context.Background())
		require.NoError(t, err)
	}
	return SetupRouter(catalog, cfg, logger.GetDefault())
}

func do(h http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newRouter(t, &staticSource{}, false, testConfig())
	rec := do(h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListVideos(t *testing.T) {
	h := newRouter(t, &staticSource{recs: testRecords}, true, testConfig())
	rec := do(h, http.MethodGet, "/api/v1/videos?category=training&q=reel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.CardListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Cards, 1)
	assert.Equal(t, "Reel", body.Cards[0].Title)
	require.NotNil(t, body.Cards[0].Embed)
	assert.Equal(t, "https://www.instagram.com/p/Cabc123/embed", body.Cards[0].Embed.Src)
	assert.Equal(t, []string{"Fun", "Mobility"}, body.Topics)
}

func TestListVideos_Unavailable(t *testing.T) {
	h := newRouter(t, &staticSource{}, false, testConfig())
	rec := do(h, http.MethodGet, "/api/v1/videos", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCategoriesAndTopics(t *testing.T) {
	h := newRouter(t, &staticSource{recs: testRecords}, true, testConfig())

	rec := do(h, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["talks","training"],"total":2}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/v1/topics?category=talks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":"talks","topics":["Stories"],"total":1}`, rec.Body.String())
}

func TestCategoryPage(t *testing.T) {
	h := newRouter(t, &staticSource{recs: testRecords}, true, testConfig())
	rec := do(h, http.MethodGet, "/c/training", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)
	assert.Contains(t, body, `src="https://www.instagram.com/p/Cabc123/embed"`)
	assert.Contains(t, body, "Mobility • YouTube")
	assert.Contains(t, body, "Open video in new tab")
	assert.NotContains(t, body, "Talk")
}

func TestCategoryPage_PlaceholderCard(t *testing.T) {
	h := newRouter(t, &staticSource{recs: testRecords}, true, testConfig())
	rec := do(h, http.MethodGet, "/c/talks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `<div class="video-thumb-placeholder">Vimeo video</div>`)
	assert.NotContains(t, body, "<iframe")
}

func TestCategoryPage_Unavailable(t *testing.T) {
	h := newRouter(t, &staticSource{err: errors.New("down")}, false, testConfig())
	rec := do(h, http.MethodGet, "/c/training", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load videos")
}

func TestIndexPage(t *testing.T) {
	h := newRouter(t, &staticSource{recs: testRecords}, true, testConfig())
	rec := do(h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/c/training"`)
	assert.True(t, strings.Contains(rec.Body.String(), "Test videos"))
}

func TestReload_TokenAndRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AdminToken = "secret"
	h := newRouter(t, &staticSource{recs: testRecords}, false, cfg)

	rec := do(h, http.MethodPost, "/api/v1/admin/reload", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodPost, "/api/v1/admin/reload", map[string]string{"X-Admin-Token": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)

	rec = do(h, http.MethodPost, "/api/v1/admin/reload", map[string]string{"X-Admin-Token": "secret"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(h, http.MethodGet, "/api/v1/videos", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReload_SourceFailure(t *testing.T) {
	h := newRouter(t, &staticSource{err: errors.New("down")}, false, testConfig())
	rec := do(h, http.MethodPost, "/api/v1/admin/reload", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"failed"`)
}
