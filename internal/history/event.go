// Package history retrieves and models the user's play history.
package history

import "time"

// Kind distinguishes music tracks from podcast episodes.
type Kind string

const (
	KindTrack   Kind = "track"
	KindEpisode Kind = "episode"
)

// PlayEvent is one normalized entry of the play history. Events are
// immutable once constructed and collected newest first, matching the
// provider's pagination order.
type PlayEvent struct {
	Kind       Kind
	Name       string
	Performers []string      // ordered; episode publisher for episodes
	ShowName   string        // episodes only
	Duration   time.Duration // how long the item runs
	PlayedAt   time.Time     // UTC
}

// IsEpisode reports whether the event is a podcast episode.
func (e PlayEvent) IsEpisode() bool {
	return e.Kind == KindEpisode
}
