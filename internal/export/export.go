// Package export turns a sheet export into the videos.json file the site reads,
// and optionally publishes it to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/source"
	"github.com/timmy/vidgrid/internal/source/sheet"
	"github.com/timmy/vidgrid/internal/storage"
)

// ReadCSV reads a sheet CSV export from disk.
// Parameters:
//   - path: CSV file path.
// Returns:
//   - []domain.VideoRecord: normalized records; incomplete rows are skipped.
//   - error: non-nil if the file is missing or unreadable.
func ReadCSV(path string) ([]domain.VideoRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("CSV file not found: %s (export your sheet as videos.csv into the tools folder)", path)
		}
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	recs, err := sheet.ParseCSV(f)
	if err != nil {
		return nil, err
	}
	return source.Normalize(recs), nil
}

// Encode renders records as indented JSON without HTML escaping.
func Encode(recs []domain.VideoRecord) ([]byte, error) {
	if recs == nil {
		recs = []domain.VideoRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return nil, fmt.Errorf("failed to encode videos: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes records to path, creating parent directories.
// Returns the encoded bytes so callers can publish the same payload.
func WriteJSON(path string, recs []domain.VideoRecord) ([]byte, error) {
	data, err := Encode(recs)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return data, nil
}

// Publish uploads an encoded catalogue and returns its public URL.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - store: destination object storage.
//   - key: object key, e.g. data/videos.json.
//   - data: encoded catalogue from Encode or WriteJSON.
// Returns:
//   - string: public URL of the uploaded object.
//   - error: non-nil if the upload fails.
func Publish(ctx context.Context, store storage.ObjectStorage, key string, data []byte) (string, error) {
	existed, err := store.Exists(ctx, key)
	if err != nil {
		logger.CtxWarn(ctx, "Could not check existing object: key=%s, error=%v", key, err)
	}
	if err := store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json; charset=utf-8"); err != nil {
		logger.CtxError(ctx, "Upload failed: key=%s, error=%v", key, err)
		return "", err
	}
	url := store.GetURL(key)
	logger.With(logger.Fields{
		logger.FieldSize: len(data),
	}).Info(ctx, "Published catalogue: key=%s, replaced=%v, url=%s", key, existed, url)
	return url, nil
}
