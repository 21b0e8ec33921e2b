package domain

import "strings"

// Platform identifies the video host a record URL points at.
// Values include PlatformYouTube, PlatformInstagram, and PlatformUnknown.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformUnknown   Platform = "unknown"
)

// DefaultPlatformLabel is used when a sheet row leaves the platform column empty.
const DefaultPlatformLabel = "Unknown"

// VideoRecord is a single row of the video catalogue.
// Platform is the free-text label from the sheet and is informational only;
// embedding decisions are made from URL alone.
type VideoRecord struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Platform  string `json:"platform"`
	Topic     string `json:"topic"`
	Category  string `json:"category"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Normalize trims every field and fills in the default platform label.
// Parameters: none.
// Returns:
//   - VideoRecord: trimmed copy of the record.
func (v VideoRecord) Normalize() VideoRecord {
	out := VideoRecord{
		Title:     strings.TrimSpace(v.Title),
		URL:       strings.TrimSpace(v.URL),
		Platform:  strings.TrimSpace(v.Platform),
		Topic:     strings.TrimSpace(v.Topic),
		Category:  strings.TrimSpace(v.Category),
		Thumbnail: strings.TrimSpace(v.Thumbnail),
	}
	if out.Platform == "" {
		out.Platform = DefaultPlatformLabel
	}
	return out
}

// IsComplete reports whether the record carries the fields a card needs.
// Parameters: none.
// Returns:
//   - bool: true when both title and url are non-blank.
func (v VideoRecord) IsComplete() bool {
	return strings.TrimSpace(v.Title) != "" && strings.TrimSpace(v.URL) != ""
}

// Embed describes an inline player for a record.
type Embed struct {
	Platform Platform `json:"platform"`
	Src      string   `json:"src"`
	Height   int      `json:"height"`
}

// Card is a record together with its resolved presentation.
// At most one of Embed and Thumbnail is shown; Placeholder is used when neither exists.
type Card struct {
	VideoRecord
	Embed       *Embed `json:"embed,omitempty"`
	ThumbURL    string `json:"thumbnail_url,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Meta returns the "topic • platform" line shown under the card title.
func (c Card) Meta() string {
	return c.Topic + " • " + c.Platform
}
