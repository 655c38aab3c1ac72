package history

import (
	"fmt"
	"strings"
	"time"
)

// Window selects how far back the play history reaches.
type Window string

const (
	Window24Hours Window = "24h"
	Window1Week   Window = "1week"
	Window1Month  Window = "1month"
	Window3Months Window = "3months"
	Window6Months Window = "6months"
)

// DefaultWindow is used when the user does not pick a range.
const DefaultWindow = Window1Month

// windowDays maps each window to its length in days.
var windowDays = map[Window]int{
	Window24Hours: 1,
	Window1Week:   7,
	Window1Month:  30,
	Window3Months: 90,
	Window6Months: 180,
}

// Windows returns all valid windows, shortest first.
func Windows() []Window {
	return []Window{Window24Hours, Window1Week, Window1Month, Window3Months, Window6Months}
}

// ParseWindow validates a user-supplied range name.
func ParseWindow(s string) (Window, error) {
	w := Window(s)
	if _, ok := windowDays[w]; !ok {
		names := make([]string, 0, len(windowDays))
		for _, valid := range Windows() {
			names = append(names, string(valid))
		}
		return "", fmt.Errorf("invalid time range %q (valid: %s)", s, strings.Join(names, ", "))
	}
	return w, nil
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return time.Duration(windowDays[w]) * 24 * time.Hour
}

// Cutoff returns the instant before which events fall outside the window.
func (w Window) Cutoff(now time.Time) time.Time {
	return now.Add(-w.Duration())
}

func (w Window) String() string {
	return string(w)
}
