package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/spins/pkg/spotify"
)

// DefaultMaxPages caps how many pages a single fetch may request.
const DefaultMaxPages = 20

// Fallback labels when the provider omits a field.
const (
	unknownTrack   = "Unknown track"
	unknownArtist  = "Unknown artist"
	unknownEpisode = "Unknown episode"
	unknownHost    = "Unknown host"
	unknownPodcast = "Unknown podcast"
)

// Fetcher paginates through the recently-played endpoint and
// normalizes the raw payloads into PlayEvents.
type Fetcher struct {
	client *spotify.Client
	logger zerolog.Logger
}

// NewFetcher creates a Fetcher on top of an authenticated client.
func NewFetcher(client *spotify.Client, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch collects the play events inside the window, newest first.
func (f *Fetcher) Fetch(ctx context.Context, window Window, maxPages int) ([]PlayEvent, error) {
	return f.FetchSince(ctx, window.Cutoff(time.Now().UTC()), maxPages)
}

// FetchSince collects play events with PlayedAt at or after cutoff.
//
// Pages are requested newest first, following the "before" cursor,
// until the provider runs out of items, maxPages is reached, or the
// oldest item on a page has aged past the cutoff (pagination is
// reverse-chronological, so older pages cannot re-enter the window).
// A final filter pass guards against out-of-order responses.
func (f *Fetcher) FetchSince(ctx context.Context, cutoff time.Time, maxPages int) ([]PlayEvent, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var events []PlayEvent
	var beforeMs int64

	for page := 0; page < maxPages; page++ {
		resp, err := f.client.History().RecentlyPlayed(ctx, spotify.RecentlyPlayedOptions{
			Limit:    50,
			BeforeMs: beforeMs,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching play history page %d: %w", page+1, err)
		}

		if len(resp.Items) == 0 {
			break
		}

		var earliest time.Time
		for _, item := range resp.Items {
			event, ok, err := normalize(item)
			if err != nil {
				return nil, fmt.Errorf("normalizing play history item: %w", err)
			}
			if !ok {
				f.logger.Debug().Str("played_at", item.PlayedAt).Msg("Skipping history item without payload")
				continue
			}

			if earliest.IsZero() || event.PlayedAt.Before(earliest) {
				earliest = event.PlayedAt
			}
			if !event.PlayedAt.Before(cutoff) {
				events = append(events, event)
			}
		}

		f.logger.Debug().Int("page", page+1).Int("collected", len(events)).Msg("Fetched history page")

		if earliest.IsZero() {
			break
		}
		// Older pages are entirely outside the window.
		if !earliest.After(cutoff) {
			break
		}

		beforeMs = earliest.UnixMilli() - 1
	}

	// Provider responses are not guaranteed strictly sorted, so filter
	// once more over everything collected.
	kept := make([]PlayEvent, 0, len(events))
	for _, event := range events {
		if !event.PlayedAt.Before(cutoff) {
			kept = append(kept, event)
		}
	}

	f.logger.Info().Int("events", len(kept)).Time("cutoff", cutoff).Msg("Play history fetched")
	return kept, nil
}

// normalize converts a raw history item into a PlayEvent. The second
// return is false when the item carries no payload at all.
func normalize(item spotify.PlayHistoryItem) (PlayEvent, bool, error) {
	payload := item.Item()
	if payload == nil {
		return PlayEvent{}, false, nil
	}

	playedAt, err := parseTimestamp(item.PlayedAt)
	if err != nil {
		return PlayEvent{}, false, err
	}

	duration := time.Duration(payload.DurationMs) * time.Millisecond

	if payload.Type != string(KindEpisode) {
		performers := make([]string, 0, len(payload.Artists))
		for _, artist := range payload.Artists {
			name := artist.Name
			if name == "" {
				name = unknownArtist
			}
			performers = append(performers, name)
		}
		if len(performers) == 0 {
			performers = []string{unknownArtist}
		}

		name := payload.Name
		if name == "" {
			name = unknownTrack
		}

		return PlayEvent{
			Kind:       KindTrack,
			Name:       name,
			Performers: performers,
			Duration:   duration,
			PlayedAt:   playedAt,
		}, true, nil
	}

	host := unknownHost
	show := unknownPodcast
	if payload.Show != nil {
		if payload.Show.Publisher != "" {
			host = payload.Show.Publisher
		}
		if payload.Show.Name != "" {
			show = payload.Show.Name
		}
	}

	name := payload.Name
	if name == "" {
		name = unknownEpisode
	}

	return PlayEvent{
		Kind:       KindEpisode,
		Name:       name,
		Performers: []string{host},
		ShowName:   show,
		Duration:   duration,
		PlayedAt:   playedAt,
	}, true, nil
}

// parseTimestamp reads the provider's ISO 8601 played-at timestamp.
// Timestamps without a zone are treated as UTC.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing played_at timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed played_at timestamp %q", s)
	}
	return t, nil
}
