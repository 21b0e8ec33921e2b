package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/logger"
)

// Result describes which source served a fetch through a Fallback.
type Result struct {
	Records    []domain.VideoRecord
	SourceID   string
	UsedBackup bool
	// PrimaryErr is set when the primary failed and the backup served.
	PrimaryErr error
}

// Fallback fetches from a primary source and, on error, from one backup.
// There are no further retries.
type Fallback struct {
	primary Source
	backup  Source
}

// NewFallback creates a fallback chain. Either side may be nil.
// Parameters:
//   - primary: preferred source, usually the spreadsheet endpoint.
//   - backup: source tried once when primary fails, usually the local JSON file.
// Returns:
//   - *Fallback: initialized chain.
func NewFallback(primary, backup Source) *Fallback {
	return &Fallback{primary: primary, backup: backup}
}

// ErrNoSource is returned when a Fallback has neither a primary nor a backup.
var ErrNoSource = errors.New("no data source configured")

// Fetch tries the primary and then the backup.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *Result: records and the id of the source that served them.
//   - error: non-nil when every configured source failed.
func (f *Fallback) Fetch(ctx context.Context) (*Result, error) {
	if f.primary == nil && f.backup == nil {
		return nil, ErrNoSource
	}

	var primaryErr error
	if f.primary != nil {
		recs, err := f.primary.Fetch(ctx)
		if err == nil {
			return &Result{Records: recs, SourceID: f.primary.GetSourceID()}, nil
		}
		primaryErr = fmt.Errorf("%s: %w", f.primary.GetSourceID(), err)
		if f.backup == nil {
			return nil, primaryErr
		}
		logger.CtxWarn(ctx, "Primary source failed, trying backup: primary=%s, backup=%s, error=%v",
			f.primary.GetSourceID(), f.backup.GetSourceID(), err)
	}

	recs, err := f.backup.Fetch(ctx)
	if err != nil {
		backupErr := fmt.Errorf("%s: %w", f.backup.GetSourceID(), err)
		if primaryErr != nil {
			return nil, errors.Join(primaryErr, backupErr)
		}
		return nil, backupErr
	}
	return &Result{
		Records:    recs,
		SourceID:   f.backup.GetSourceID(),
		UsedBackup: f.primary != nil,
		PrimaryErr: primaryErr,
	}, nil
}

// Sources returns the configured sources in the order they are tried.
func (f *Fallback) Sources() []Source {
	var out []Source
	if f.primary != nil {
		out = append(out, f.primary)
	}
	if f.backup != nil {
		out = append(out, f.backup)
	}
	return out
}
