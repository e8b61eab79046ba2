// Package connections builds the ordered list of per-trip hops the planner
// scans.
package connections

import (
	"sort"

	"pyroutech.ch/internal/feedstore"
)

// Connection is one directed hop between two consecutive stops of a single
// trip.
type Connection struct {
	TripID     string
	RouteID    string
	FromStopID string
	ToStopID   string
	DepSec     int
	ArrSec     int
}

// Build walks every trip whose service is active on the query date and
// emits one Connection per adjacent stop_times pair whose departure is at or
// after earliestSec, sorted by (DepSec, ArrSec, TripID) for determinism.
//
// It deliberately never joins non-adjacent stops of a trip — doing so would
// be an unnecessary quadratic self-join.
func Build(fs *feedstore.FeedStore, activeServices map[string]bool, earliestSec int) []Connection {
	var out []Connection

	for _, tripID := range fs.Trips() {
		serviceID, ok := fs.TripService(tripID)
		if !ok || !activeServices[serviceID] {
			continue
		}

		stopTimes := fs.StopTimes(tripID)
		if len(stopTimes) < 2 {
			continue
		}

		routeID, _ := fs.TripRoute(tripID)

		for i := 0; i < len(stopTimes)-1; i++ {
			from, to := stopTimes[i], stopTimes[i+1]
			if from.DepartureSec < earliestSec {
				continue
			}
			out = append(out, Connection{
				TripID:     tripID,
				RouteID:    routeID,
				FromStopID: from.StopID,
				ToStopID:   to.StopID,
				DepSec:     from.DepartureSec,
				ArrSec:     to.ArrivalSec,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DepSec != out[j].DepSec {
			return out[i].DepSec < out[j].DepSec
		}
		if out[i].ArrSec != out[j].ArrSec {
			return out[i].ArrSec < out[j].ArrSec
		}
		return out[i].TripID < out[j].TripID
	})
	return out
}
