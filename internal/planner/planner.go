// Package planner is the search core: a pruned label-setting connection
// scan that returns the K earliest arrivals at a destination stop set,
// preserving predecessor pointers for journey reconstruction.
package planner

import (
	"context"
	"sort"

	"pyroutech.ch/internal/connections"
)

// cancelCheckInterval is how often (in connections scanned) the Planner
// checks ctx for cancellation.
const cancelCheckInterval = 1 << 16

// Options configures one search. Zero values are replaced with defaults by
// NewOptions.
type Options struct {
	// MinTransferSec is the minimum time (MTT) required between alighting
	// and boarding a different trip at the same stop. Waived when boarding
	// directly from Origin or continuing the same trip.
	MinTransferSec int
	// LabelsPerStop bounds how many labels (B) are kept per stop.
	LabelsPerStop int
	// MaxResults bounds how many destination labels (K) are returned.
	MaxResults int
}

// DefaultLabelsPerStop is the default number of labels kept per stop.
const DefaultLabelsPerStop = 4

// DefaultMaxResults is the default number of journeys returned.
const DefaultMaxResults = 5

// NewOptions fills zero fields with their defaults.
func NewOptions(minTransferSec, labelsPerStop, maxResults int) Options {
	if labelsPerStop <= 0 {
		labelsPerStop = DefaultLabelsPerStop
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return Options{
		MinTransferSec: minTransferSec,
		LabelsPerStop:  labelsPerStop,
		MaxResults:     maxResults,
	}
}

// Result is the output of one search: the label arena (owned by the
// Planner for the duration of one search) plus the indices of the best
// labels reaching the destination set, already sorted by arrival time
// ascending with the dominance tie-breaks from labels.go.
type Result struct {
	Labels       []Label
	Destinations []int32
}

// Plan runs the connection scan over conns, starting from every stop in
// origin at earliestSec, and returns up to opts.MaxResults
// labels reaching a stop in dest. It never errors for routing
// impossibility — an empty Destinations slice means no journey was found —
// and only returns an error if ctx is cancelled mid-scan.
func Plan(ctx context.Context, conns []connections.Connection, origin, dest map[string]bool, earliestSec int, opts Options) (*Result, error) {
	a := newArena(opts.LabelsPerStop)

	for stopID := range origin {
		idx := a.push(Label{
			StopID:      stopID,
			ArrSec:      earliestSec,
			Predecessor: noPredecessor,
			FirstDepSec: earliestSec,
		})
		a.tryInsert(stopID, idx)
	}

	var worstEndArrival *int
	scanned := 0

	for _, c := range conns {
		scanned++
		if scanned%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, ErrCancelled
			}
		}

		if worstEndArrival != nil && c.DepSec > *worstEndArrival {
			break // every later connection departs too late to beat the Kth-best arrival.
		}

		depLabels := a.labelsAt(c.FromStopID)
		if len(depLabels) == 0 {
			continue
		}

		// Try every qualifying label at the boarding stop, not just the
		// earliest: a later-arriving label may still be the one carrying
		// the cheaper (free, same-trip) transfer.
		for _, labIdx := range depLabels {
			lab := a.labels[labIdx]
			if lab.ArrSec > c.DepSec {
				break // depLabels is sorted by arrival ascending; none further qualify.
			}

			sameTrip := lab.ViaTripID == c.TripID
			if !lab.IsOrigin() && !sameTrip {
				if c.DepSec-lab.ArrSec < opts.MinTransferSec {
					continue // MTT not satisfied for a trip change.
				}
			}

			firstDep := c.DepSec
			hops := 1
			if !lab.IsOrigin() {
				firstDep = lab.FirstDepSec
				hops = lab.Hops + 1
			}

			candidate := Label{
				StopID:      c.ToStopID,
				ArrSec:      c.ArrSec,
				ViaTripID:   c.TripID,
				ViaRouteID:  c.RouteID,
				Predecessor: labIdx,
				DepSec:      c.DepSec,
				BoardStopID: c.FromStopID,
				FirstDepSec: firstDep,
				Hops:        hops,
			}

			newIdx := a.push(candidate)
			if !a.tryInsert(c.ToStopID, newIdx) {
				a.labels = a.labels[:len(a.labels)-1] // rejected: reclaim the arena slot.
				continue
			}

			if dest[c.ToStopID] {
				worstEndArrival = recomputeWorstEndArrival(a, dest, opts.MaxResults, worstEndArrival)
			}
		}
	}

	return &Result{Labels: a.labels, Destinations: bestDestinationLabels(a, dest, opts.MaxResults)}, nil
}

// recomputeWorstEndArrival returns the Kth-best (i.e. worst of the kept K)
// arrival time across every label currently reaching a destination stop, or
// the previous value if fewer than K such labels exist yet.
func recomputeWorstEndArrival(a *arena, dest map[string]bool, k int, prev *int) *int {
	var arrivals []int
	for stopID := range dest {
		for _, idx := range a.byStop[stopID] {
			arrivals = append(arrivals, a.labels[idx].ArrSec)
		}
	}
	if len(arrivals) < k {
		return prev
	}
	sort.Ints(arrivals)
	worst := arrivals[k-1]
	return &worst
}

// bestDestinationLabels collects every label at a destination stop and
// returns the best K, ordered by the dominance tie-breaks from labels.go.
func bestDestinationLabels(a *arena, dest map[string]bool, k int) []int32 {
	var all []int32
	for stopID := range dest {
		all = append(all, a.byStop[stopID]...)
	}
	sort.Slice(all, func(i, j int) bool {
		return less(a.labels[all[i]], a.labels[all[j]])
	})
	if len(all) > k {
		all = all[:k]
	}
	return all
}
