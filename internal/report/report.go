// Package report renders aggregate listening statistics for humans.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/spins/internal/stats"
)

// nameWidth is the display width names are padded or truncated to in
// the ranked listings.
const nameWidth = 40

// Weekday print order, Monday first.
var dayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Options control how the summary is rendered.
type Options struct {
	RangeLabel string    // the selected time range, e.g. "1month"
	Since      time.Time // the window cutoff
	TopN       int       // how many entries the ranked listings show
}

// Render writes the full listening summary.
func Render(w io.Writer, r *stats.Report, opts Options) {
	topN := opts.TopN
	if topN <= 0 {
		topN = 5
	}

	fmt.Fprintln(w, "\n================ Spotify Listening Summary ================")
	fmt.Fprintf(w, "Time range requested : Last %s (since %s)\n", opts.RangeLabel, opts.Since.Format("2006-01-02"))
	fmt.Fprintf(w, "Total plays analyzed : %d\n", r.Plays)
	fmt.Fprintf(w, "Total listening time : %s\n", FormatDuration(r.Total))

	renderTopListing(w, "Top artists by listening time", r.TopArtists(topN))
	renderTopListing(w, "Top podcasts by listening time", r.TopPodcasts(topN))
	renderPatterns(w, r)

	fmt.Fprintln(w, "\n===========================================================")
}

// renderTopListing prints one ranked listing.
func renderTopListing(w io.Writer, title string, entries []stats.Entry) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))

	if len(entries) == 0 {
		fmt.Fprintln(w, "No data available yet. Try listening to something and rerun.")
		return
	}

	for rank, entry := range entries {
		fmt.Fprintf(w, "%02d. %s  %s\n", rank+1, padName(entry.Name, nameWidth), FormatDuration(entry.Total))
	}
}

// renderPatterns prints the weekday and hour-of-day summaries.
func renderPatterns(w io.Writer, r *stats.Report) {
	fmt.Fprintln(w, "\nListening pattern by day of week:")
	var anyDay bool
	for _, day := range dayOrder {
		if d := r.Weekdays[day]; d > 0 {
			fmt.Fprintf(w, "- %-9s %s\n", day.String(), FormatDuration(d))
			anyDay = true
		}
	}
	if !anyDay {
		fmt.Fprintln(w, "- Not enough data yet. Spotify only returns a finite history of plays.")
	}

	fmt.Fprintln(w, "\nListening pattern by hour of day:")
	var anyHour bool
	for hour, d := range r.Hours {
		if d > 0 {
			fmt.Fprintf(w, "- %02d:00  %s\n", hour, FormatDuration(d))
			anyHour = true
		}
	}
	if !anyHour {
		fmt.Fprintln(w, "- Not enough data yet.")
	}
}

// FormatDuration converts a duration to an easy-to-read hours/minutes
// string, falling back to seconds for very short totals.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// padName pads or truncates a name to a fixed display width so the
// duration column lines up. Width is measured in display columns,
// accounting for Unicode characters.
func padName(name string, width int) string {
	current := runewidth.StringWidth(name)

	if current > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)
		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		truncated := runewidth.Truncate(name, width-ellipsisWidth, "") + ellipsis
		if got := runewidth.StringWidth(truncated); got < width {
			return truncated + strings.Repeat(" ", width-got)
		}
		return truncated
	}

	if current < width {
		return name + strings.Repeat(" ", width-current)
	}
	return name
}
