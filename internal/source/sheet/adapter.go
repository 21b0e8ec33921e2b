package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/source"
)

// Format is the body format served by the sheet endpoint.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ErrNoURL is returned by Fetch when the adapter has no endpoint configured.
var ErrNoURL = errors.New("sheet endpoint URL is not configured")

// ErrEmptyBody is returned when the endpoint answers 200 with nothing in it.
var ErrEmptyBody = errors.New("sheet endpoint returned an empty body")

// Config holds configuration for the spreadsheet endpoint.
type Config struct {
	URL     string
	Format  Format
	Timeout time.Duration
	// Headers are sent with every request, e.g. an API key for an Apps Script proxy.
	Headers map[string]string
}

// Adapter implements the Source interface for a spreadsheet-backed web endpoint.
type Adapter struct {
	client *resty.Client
	url    string
	format Format
}

// NewAdapter creates a new sheet adapter.
// Parameters:
//   - cfg: endpoint configuration.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(cfg *Config) *Adapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json, text/csv, text/html;q=0.9, */*;q=0.5")
	for k, v := range cfg.Headers {
		client.SetHeader(k, v)
	}

	return &Adapter{
		client: client,
		url:    strings.TrimSpace(cfg.URL),
		format: Format(strings.ToLower(string(cfg.Format))),
	}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return "sheet"
}

// GetDisplayName returns a human-readable name for this source.
func (a *Adapter) GetDisplayName() string {
	return "Spreadsheet endpoint"
}

// Fetch downloads the sheet and maps its rows onto records.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.VideoRecord: normalized records in sheet order.
//   - error: non-nil on transport failure, non-200 status, or unparseable body.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	if a.url == "" {
		return nil, ErrNoURL
	}

	resp, err := a.client.R().
		SetContext(ctx).
		Get(a.url)
	if err != nil {
		return nil, fmt.Errorf("failed to call sheet endpoint: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("sheet endpoint error: status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	format := a.format
	if format == FormatAuto {
		format = detectFormat(resp.Header().Get("Content-Type"), body)
	}

	var recs []domain.VideoRecord
	switch format {
	case FormatJSON:
		recs, err = parseJSON(body)
	case FormatHTML:
		recs, err = parseHTML(bytes.NewReader(body))
	case FormatCSV:
		recs, err = ParseCSV(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("unsupported sheet format: %q", format)
	}
	if err != nil {
		return nil, err
	}

	return source.Normalize(recs), nil
}

// detectFormat picks a parser from the Content-Type, then from the first body byte.
func detectFormat(contentType string, body []byte) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "csv"):
		return FormatCSV
	case strings.Contains(ct, "html"):
		return FormatHTML
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return FormatCSV
	}
	switch trimmed[0] {
	case '[', '{':
		return FormatJSON
	case '<':
		return FormatHTML
	default:
		return FormatCSV
	}
}
