// Package analysis provides supplementary statistics over a loaded feed —
// the kind of summary a timetable planner runs once and skims, not part of
// any journey search. Callers that only need route planning never import
// this package.
package analysis

import (
	"sort"

	"pyroutech.ch/internal/feedstore"
)

// FastestPerHour is one row of FastestDirectConnectionPerHour: the shortest
// ride duration among all direct (single-trip) services departing in a given
// hour of the day.
type FastestPerHour struct {
	DepartureHour   int
	DurationMinutes int
	RouteShortName  string
}

// FastestDirectConnectionPerHour finds, for every departure hour that has at
// least one trip, the trip with the shortest end-to-end duration (first stop
// to last stop), ignoring any notion of specific stations — this mirrors a
// feed-wide timetable quality summary, not a point-to-point query.
func FastestDirectConnectionPerHour(fs *feedstore.FeedStore) []FastestPerHour {
	bestSeconds := make(map[int]int)
	best := make(map[int]FastestPerHour)

	for _, tripID := range fs.Trips() {
		stopTimes := fs.StopTimes(tripID)
		if len(stopTimes) < 2 {
			continue
		}
		first, last := stopTimes[0], stopTimes[len(stopTimes)-1]
		duration := last.ArrivalSec - first.DepartureSec
		if duration < 0 {
			continue
		}
		hour := first.DepartureSec / 3600
		_, routeName := fs.TripRoute(tripID)

		if existing, ok := bestSeconds[hour]; !ok || duration < existing {
			bestSeconds[hour] = duration
			best[hour] = FastestPerHour{
				DepartureHour:   hour,
				DurationMinutes: duration / 60,
				RouteShortName:  routeName,
			}
		}
	}

	out := make([]FastestPerHour, 0, len(best))
	for _, row := range best {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureHour < out[j].DepartureHour })
	return out
}

// StopFrequency is one row of TopFrequentedStops: how many stop_times rows
// (i.e. scheduled visits) a stop appears in across the whole feed.
type StopFrequency struct {
	StopName  string
	Frequency int
}

// TopFrequentedStops returns the n most-visited stops in the feed, ranked by
// how many stop_times rows name them, ties broken by stop name for
// determinism.
func TopFrequentedStops(fs *feedstore.FeedStore, n int) []StopFrequency {
	counts := make(map[string]int)
	for _, tripID := range fs.Trips() {
		for _, st := range fs.StopTimes(tripID) {
			counts[st.StopID]++
		}
	}

	rows := make([]StopFrequency, 0, len(counts))
	for stopID, count := range counts {
		rows = append(rows, StopFrequency{StopName: fs.StopName(stopID), Frequency: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Frequency != rows[j].Frequency {
			return rows[i].Frequency > rows[j].Frequency
		}
		return rows[i].StopName < rows[j].StopName
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// OvernightConnection is one row of OvernightConnections: a single
// stop_times entry whose arrival crosses midnight relative to its
// departure, or is otherwise recorded past 24:00:00.
type OvernightConnection struct {
	TripID         string
	StopName       string
	DepartureSec   int
	ArrivalSec     int
	RouteShortName string
}

// OvernightConnections returns up to limit stop_times rows that span or sit
// past midnight (arrival before departure within the row, or arrival at or
// beyond 24:00:00), the signal GTFS feeds use for trips crossing a service
// day boundary.
func OvernightConnections(fs *feedstore.FeedStore, limit int) []OvernightConnection {
	var out []OvernightConnection
	if limit <= 0 {
		return out
	}

	for _, tripID := range fs.Trips() {
		_, routeName := fs.TripRoute(tripID)
		for _, st := range fs.StopTimes(tripID) {
			if st.ArrivalSec < st.DepartureSec || st.ArrivalSec >= 24*3600 {
				out = append(out, OvernightConnection{
					TripID:         tripID,
					StopName:       fs.StopName(st.StopID),
					DepartureSec:   st.DepartureSec,
					ArrivalSec:     st.ArrivalSec,
					RouteShortName: routeName,
				})
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}
