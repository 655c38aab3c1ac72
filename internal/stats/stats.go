// Package stats computes aggregate listening statistics over a play history.
package stats

import (
	"sort"
	"time"

	"github.com/jfmyers9/spins/internal/history"
)

// Entry pairs a name with its accumulated listening time.
type Entry struct {
	Name  string
	Total time.Duration
}

// Report holds the aggregates for one run. It is rebuilt fresh from the
// event sequence every time; nothing carries over between runs.
type Report struct {
	// Artists and Podcasts are kept in first-encounter order so that
	// ranking ties resolve deterministically.
	Artists  []Entry
	Podcasts []Entry

	// Weekdays is indexed by time.Weekday (Sunday = 0), Hours by the
	// local clock hour. Both bucket total listening time.
	Weekdays [7]time.Duration
	Hours    [24]time.Duration

	Plays int
	Total time.Duration
}

// Summarize aggregates the events using the local timezone for the
// weekday and hour buckets.
func Summarize(events []history.PlayEvent) *Report {
	return SummarizeIn(events, time.Local)
}

// SummarizeIn aggregates the events in a single pass.
//
// A multi-performer track contributes its full duration to every listed
// performer; podcast episodes contribute to their show instead. Weekday
// and hour buckets use the event's played-at instant in loc.
func SummarizeIn(events []history.PlayEvent, loc *time.Location) *Report {
	report := &Report{}
	artistIdx := make(map[string]int)
	podcastIdx := make(map[string]int)

	for _, event := range events {
		report.Plays++
		report.Total += event.Duration

		if event.IsEpisode() {
			show := event.ShowName
			if show == "" {
				show = event.Name
			}
			report.Podcasts = accumulate(report.Podcasts, podcastIdx, show, event.Duration)
		} else {
			for _, performer := range event.Performers {
				report.Artists = accumulate(report.Artists, artistIdx, performer, event.Duration)
			}
		}

		local := event.PlayedAt.In(loc)
		report.Weekdays[local.Weekday()] += event.Duration
		report.Hours[local.Hour()] += event.Duration
	}

	return report
}

// accumulate adds duration to the named entry, appending it on first
// encounter to preserve input order.
func accumulate(entries []Entry, index map[string]int, name string, d time.Duration) []Entry {
	if i, ok := index[name]; ok {
		entries[i].Total += d
		return entries
	}
	index[name] = len(entries)
	return append(entries, Entry{Name: name, Total: d})
}

// TopArtists returns up to n artists ranked by descending total
// duration. Ties keep first-encounter order.
func (r *Report) TopArtists(n int) []Entry {
	return topN(r.Artists, n)
}

// TopPodcasts returns up to n podcast shows ranked by descending total
// duration. Ties keep first-encounter order.
func (r *Report) TopPodcasts(n int) []Entry {
	return topN(r.Podcasts, n)
}

func topN(entries []Entry, n int) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	// Stable sort so equal totals rank by first appearance.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
