// Package embed decides how a video record is presented on a card: as an inline
// player, as a thumbnail link, or as a text placeholder.
package embed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/timmy/vidgrid/internal/domain"
)

const (
	youTubeEmbedBase = "https://www.youtube.com/embed/"
	youTubeThumbFmt  = "https://img.youtube.com/vi/%s/hqdefault.jpg"

	// Player heights in pixels; width is always 100%.
	YouTubeHeight   = 250
	InstagramHeight = 320
)

var youTubeIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([A-Za-z0-9_-]{11})`)

// Classify returns the platform a URL belongs to by case-insensitive substring match.
func Classify(rawURL string) domain.Platform {
	l := strings.ToLower(strings.TrimSpace(rawURL))
	switch {
	case isYouTube(l):
		return domain.PlatformYouTube
	case isInstagram(l):
		return domain.PlatformInstagram
	default:
		return domain.PlatformUnknown
	}
}

func isYouTube(lower string) bool {
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}

func isInstagram(lower string) bool {
	return strings.Contains(lower, "instagram.com") || strings.Contains(lower, "instagr.am")
}

// YouTubeID extracts the 11-character video id from a v= parameter or a youtu.be path.
// The host is not checked here; callers classify first.
func YouTubeID(rawURL string) (string, bool) {
	m := youTubeIDPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// InstagramEmbedURL normalizes a post URL so it ends in /embed.
// A URL that already contains /embed only gains the trailing slash.
func InstagramEmbedURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	if !strings.Contains(u, "/embed") {
		u += "embed"
	}
	return u
}

// Resolve returns the inline player for a record, or nil when the caller must fall
// back to a thumbnail link. A YouTube URL without an extractable id is not embedded.
func Resolve(rec domain.VideoRecord) *domain.Embed {
	platform := Classify(rec.URL)
	if platform == domain.PlatformYouTube {
		if id, ok := YouTubeID(rec.URL); ok {
			return &domain.Embed{
				Platform: domain.PlatformYouTube,
				Src:      youTubeEmbedBase + id,
				Height:   YouTubeHeight,
			}
		}
		// Without an id the Instagram rule still applies.
		if isInstagram(strings.ToLower(strings.TrimSpace(rec.URL))) {
			platform = domain.PlatformInstagram
		}
	}
	if platform == domain.PlatformInstagram {
		return &domain.Embed{
			Platform: domain.PlatformInstagram,
			Src:      InstagramEmbedURL(rec.URL),
			Height:   InstagramHeight,
		}
	}
	return nil
}

// Thumbnail returns the image to show for a record, independent of embeddability.
// An explicit thumbnail wins; YouTube ids get a synthesized hqdefault image.
func Thumbnail(rec domain.VideoRecord) string {
	if t := strings.TrimSpace(rec.Thumbnail); t != "" {
		return t
	}
	if Classify(rec.URL) != domain.PlatformYouTube {
		return ""
	}
	if id, ok := YouTubeID(rec.URL); ok {
		return fmt.Sprintf(youTubeThumbFmt, id)
	}
	return ""
}

// Placeholder is the text shown when a card has neither a player nor an image.
func Placeholder(rec domain.VideoRecord) string {
	return rec.Platform + " video"
}

// BuildCard resolves the full presentation of a record.
func BuildCard(rec domain.VideoRecord) domain.Card {
	card := domain.Card{VideoRecord: rec}
	if e := Resolve(rec); e != nil {
		card.Embed = e
		return card
	}
	if thumb := Thumbnail(rec); thumb != "" {
		card.ThumbURL = thumb
		return card
	}
	card.Placeholder = Placeholder(rec)
	return card
}

// BuildCards resolves a slice of records, preserving order.
func BuildCards(recs []domain.VideoRecord) []domain.Card {
	cards := make([]domain.Card, len(recs))
	for i, rec := range recs {
		cards[i] = BuildCard(rec)
	}
	return cards
}
