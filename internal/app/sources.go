// Package app wires configuration into the components both binaries share.
package app

import (
	"github.com/timmy/vidgrid/internal/config"
	"github.com/timmy/vidgrid/internal/source"
	"github.com/timmy/vidgrid/internal/source/jsonfile"
	"github.com/timmy/vidgrid/internal/source/sheet"
	"github.com/timmy/vidgrid/internal/storage"
)

// NewSheetAdapter builds the spreadsheet source from configuration.
func NewSheetAdapter(cfg *config.SheetConfig) *sheet.Adapter {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["X-API-Key"] = cfg.APIKey
	}
	return sheet.NewAdapter(&sheet.Config{
		URL:     cfg.URL,
		Format:  sheet.Format(cfg.Format),
		Timeout: cfg.Timeout,
		Headers: headers,
	})
}

// BuildSources returns the sheet endpoint with the local JSON file as its fallback.
// A disabled or unconfigured side is left out of the chain.
func BuildSources(cfg *config.Config) *source.Fallback {
	var primary, backup source.Source
	if cfg.Sources.Sheet.Enabled && cfg.Sources.Sheet.URL != "" {
		primary = NewSheetAdapter(&cfg.Sources.Sheet)
	}
	if cfg.Sources.File.Enabled {
		backup = jsonfile.NewAdapter(cfg.Sources.File.Path)
	}
	return source.NewFallback(primary, backup)
}

// NewStorage builds the publish target from configuration.
func NewStorage(cfg *config.StorageConfig) (storage.ObjectStorage, error) {
	return storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageType(cfg.Type),
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	})
}
