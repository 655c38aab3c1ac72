package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/spins/internal/history"
	"github.com/jfmyers9/spins/internal/stats"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{0, "0s"},
		{time.Minute, "1m"},
		{90 * time.Minute, "1h 30m"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 5*time.Minute + 30*time.Second, "2h 5m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPadName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
	}{
		{name: "short padded", input: "abc", width: 10},
		{name: "exact", input: "abcde", width: 5},
		{name: "long truncated", input: "a very long artist name indeed", width: 10},
		{name: "wide runes", input: "日本語の名前", width: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padName(tt.input, tt.width)
			// All outputs must land on exactly the target display width.
			if w := runewidth.StringWidth(got); w != tt.width {
				t.Errorf("padName(%q, %d) has width %d: %q", tt.input, tt.width, w, got)
			}
		})
	}
}

// monday is 2026-08-24, a Monday.
var monday = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

func exampleReport() *stats.Report {
	return stats.SummarizeIn([]history.PlayEvent{
		{Kind: history.KindTrack, Name: "Song A", Performers: []string{"Artist X"}, Duration: 120 * time.Second, PlayedAt: monday},
		{Kind: history.KindEpisode, Name: "Ep 1", Performers: []string{"Host Y"}, ShowName: "Show Z", Duration: 1800 * time.Second, PlayedAt: monday.Add(5 * time.Minute)},
	}, time.UTC)
}

func TestRender(t *testing.T) {
	var out strings.Builder
	Render(&out, exampleReport(), Options{
		RangeLabel: "1month",
		Since:      monday.AddDate(0, -1, 0),
		TopN:       5,
	})

	text := out.String()

	for _, want := range []string{
		"Spotify Listening Summary",
		"Last 1month (since 2026-07-24)",
		"Total plays analyzed : 2",
		"Total listening time : 32m",
		"Top artists by listening time",
		"01. Artist X",
		"Top podcasts by listening time",
		"01. Show Z",
		"- Monday    32m",
		"- 09:00  32m",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q\n--- output ---\n%s", want, text)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	var out strings.Builder
	Render(&out, stats.SummarizeIn(nil, time.UTC), Options{RangeLabel: "24h", Since: monday})

	text := out.String()

	if !strings.Contains(text, "No data available yet") {
		t.Errorf("expected empty listing message, got:\n%s", text)
	}
	if !strings.Contains(text, "Not enough data yet") {
		t.Errorf("expected empty pattern message, got:\n%s", text)
	}
}

func TestRender_WeekdayOrder(t *testing.T) {
	// Sunday and Monday plays: Monday must print first.
	events := []history.PlayEvent{
		{Kind: history.KindTrack, Name: "S", Performers: []string{"A"}, Duration: time.Minute, PlayedAt: monday.AddDate(0, 0, -1)},
		{Kind: history.KindTrack, Name: "M", Performers: []string{"A"}, Duration: time.Minute, PlayedAt: monday},
	}

	var out strings.Builder
	Render(&out, stats.SummarizeIn(events, time.UTC), Options{RangeLabel: "1week", Since: monday.AddDate(0, 0, -7)})

	text := out.String()
	mondayIdx := strings.Index(text, "- Monday")
	sundayIdx := strings.Index(text, "- Sunday")
	if mondayIdx == -1 || sundayIdx == -1 {
		t.Fatalf("expected both weekdays in output:\n%s", text)
	}
	if mondayIdx > sundayIdx {
		t.Error("expected Monday before Sunday in weekday pattern")
	}
}
