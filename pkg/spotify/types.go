package spotify

// RecentlyPlayedPage is one page of the recently-played listing.
type RecentlyPlayedPage struct {
	Items   []PlayHistoryItem `json:"items"`
	Next    string            `json:"next"`
	Cursors struct {
		After  string `json:"after"`
		Before string `json:"before"`
	} `json:"cursors"`
}

// PlayHistoryItem is a single entry in the play history. Spotify places
// the payload under "track" for both music tracks and podcast episodes;
// some responses use a separate "episode" key instead, so both are
// modeled and Item() picks whichever is present.
type PlayHistoryItem struct {
	PlayedAt string    `json:"played_at"`
	Track    *PlayItem `json:"track"`
	Episode  *PlayItem `json:"episode"`
}

// Item returns the played payload regardless of which key carried it,
// or nil when the entry has no payload at all.
func (i *PlayHistoryItem) Item() *PlayItem {
	if i.Track != nil {
		return i.Track
	}
	return i.Episode
}

// PlayItem is the payload of a play history entry. The Type field
// distinguishes music tracks ("track") from podcast episodes
// ("episode"); episodes carry Show instead of Artists.
type PlayItem struct {
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	DurationMs int      `json:"duration_ms"`
	Artists    []Artist `json:"artists"`
	Show       *Show    `json:"show"`
}

// Artist is a track performer.
type Artist struct {
	Name string `json:"name"`
}

// Show is the parent show of a podcast episode.
type Show struct {
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}
