package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/source"
)

// DefaultPath is where the sheet export writes the catalogue.
const DefaultPath = "data/videos.json"

// Adapter implements the Source interface for a local videos.json file.
type Adapter struct {
	path string
}

// NewAdapter creates a new JSON file adapter.
// Parameters:
//   - path: path to the JSON file; empty uses DefaultPath.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(path string) *Adapter {
	if path == "" {
		path = DefaultPath
	}
	return &Adapter{path: path}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return "file:" + a.path
}

// GetDisplayName returns a human-readable name for this source.
func (a *Adapter) GetDisplayName() string {
	return fmt.Sprintf("Local file (%s)", a.path)
}

// Path returns the file this adapter reads.
func (a *Adapter) Path() string {
	return a.path
}

// Fetch reads and decodes the whole file on every call.
// Parameters:
//   - ctx: context for cancellation (checked before reading).
// Returns:
//   - []domain.VideoRecord: normalized records.
//   - error: non-nil if the file is missing or not a JSON array of records.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("video file not found: %s", a.path)
		}
		return nil, fmt.Errorf("failed to read video file: %w", err)
	}

	var recs []domain.VideoRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode video file %s: %w", a.path, err)
	}

	return source.Normalize(recs), nil
}
