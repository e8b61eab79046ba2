// Package format renders journeys for console output, the shape the CLI
// presents to a traveller.
package format

import (
	"fmt"
	"strings"

	"pyroutech.ch/internal/journey"
)

// SecondsToClock converts seconds-since-midnight to "HH:MM", preserving
// values at or beyond 24:00 rather than wrapping them.
func SecondsToClock(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

const ruleWidth = 50

// Journey renders one itinerary as a multi-line block: header, endpoints,
// total travel time, then one "RIDE" block per segment with a transfer
// callout between rides.
func Journey(j journey.Journey, startName, endName string) string {
	if len(j.Segments) == 0 {
		return "No journey found."
	}

	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, " PyRouteCH | journey found")
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "From: %s (%s)\n", startName, SecondsToClock(j.DepartSec()))
	fmt.Fprintf(&b, "To:   %s (%s)\n", endName, SecondsToClock(j.ArriveSec()))
	fmt.Fprintf(&b, "TOTAL TRAVEL TIME: %s\n", duration(j.ArriveSec()-j.DepartSec()))
	fmt.Fprintln(&b, strings.Repeat("-", ruleWidth))

	for i, seg := range j.Segments {
		fmt.Fprintf(&b, "  %d. RIDE\n", i+1)
		fmt.Fprintf(&b, "     > Depart: %s  | %s\n", SecondsToClock(seg.BoardSec), seg.BoardStopName)
		fmt.Fprintf(&b, "     > Arrive: %s  | %s\n", SecondsToClock(seg.AlightSec), seg.AlightStopName)
		line := seg.RouteShortName
		if line == "" {
			line = "Unknown"
		}
		fmt.Fprintf(&b, "     > Line:   %s\n", line)

		if i+1 < len(j.Segments) {
			next := j.Segments[i+1]
			waitMinutes := next.WaitBeforeSec / 60
			thin := strings.Repeat("-", ruleWidth-2)
			fmt.Fprintf(&b, "  %s\n", thin)
			fmt.Fprintf(&b, "  TRANSFER: %s (%d min wait)\n", seg.AlightStopName, waitMinutes)
			fmt.Fprintf(&b, "  %s\n", thin)
		}
	}

	fmt.Fprint(&b, rule)
	return b.String()
}

// duration renders a second count as "H hour(s), M minute(s)" or just
// "M minute(s)" when under an hour.
func duration(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%d %s, %d %s", hours, plural(hours, "hour"), minutes, plural(minutes, "minute"))
	}
	return fmt.Sprintf("%d %s", minutes, plural(minutes, "minute"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
