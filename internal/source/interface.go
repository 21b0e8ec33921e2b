package source

import (
	"context"

	"github.com/timmy/vidgrid/internal/domain"
)

// Source defines the interface for video catalogue data sources.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	// Parameters: none.
	// Returns:
	//   - string: display-friendly source name.
	GetDisplayName() string

	// Fetch loads the full set of records.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	// Returns:
	//   - []domain.VideoRecord: normalized records in source order.
	//   - error: non-nil if the source cannot be read.
	Fetch(ctx context.Context) ([]domain.VideoRecord, error)
}

// Normalize trims every record, fills in the default platform label,
// and drops rows that lack a title or url.
// Parameters:
//   - recs: raw records as read from a source.
// Returns:
//   - []domain.VideoRecord: cleaned records in their original order.
func Normalize(recs []domain.VideoRecord) []domain.VideoRecord {
	out := make([]domain.VideoRecord, 0, len(recs))
	for _, r := range recs {
		if !r.IsComplete() {
			continue
		}
		out = append(out, r.Normalize())
	}
	return out
}
