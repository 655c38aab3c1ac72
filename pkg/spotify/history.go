package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// HistoryService provides access to the user's play history.
type HistoryService struct {
	client *Client
}

// maxPageLimit is the largest page size the recently-played endpoint accepts.
const maxPageLimit = 50

// RecentlyPlayedOptions control a recently-played page request.
type RecentlyPlayedOptions struct {
	// Limit is the page size (1-50). Defaults to 50.
	Limit int

	// BeforeMs requests items played strictly before this Unix
	// timestamp in milliseconds. Zero means the most recent page.
	BeforeMs int64
}

// RecentlyPlayed fetches one page of the user's recently played items,
// newest first. Use the played-at timestamps to derive the BeforeMs
// cursor for the next page.
func (h *HistoryService) RecentlyPlayed(ctx context.Context, opts RecentlyPlayedOptions) (*RecentlyPlayedPage, error) {
	limit := opts.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if opts.BeforeMs > 0 {
		query.Set("before", strconv.FormatInt(opts.BeforeMs, 10))
	}

	var page RecentlyPlayedPage
	if err := h.client.get(ctx, "/me/player/recently-played", query, &page); err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", err)
	}

	return &page, nil
}
