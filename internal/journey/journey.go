// Package journey reconstructs human-facing itineraries from the raw label
// chains a search produces.
package journey

import (
	"strconv"

	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/planner"
)

// Segment is one leg of a journey spent aboard a single trip, after
// coalescing consecutive connections that ride the same trip without a
// transfer in between.
type Segment struct {
	TripID         string
	RouteShortName string
	BoardStopID    string
	BoardStopName  string
	BoardSec       int
	AlightStopID   string
	AlightStopName string
	AlightSec      int
	// WaitBeforeSec is the time spent at BoardStopID before this segment's
	// trip departs, i.e. the transfer wait. It is 0 for the first segment.
	WaitBeforeSec int
}

// Journey is one complete itinerary: an ordered, non-empty list of segments.
type Journey struct {
	Segments []Segment
}

// DepartSec is when the traveller boards the first segment.
func (j Journey) DepartSec() int { return j.Segments[0].BoardSec }

// ArriveSec is when the traveller alights the final segment.
func (j Journey) ArriveSec() int { return j.Segments[len(j.Segments)-1].AlightSec }

// hop is one raw (pre-coalescing) connection taken along a label chain.
type hop struct {
	tripID, routeID       string
	boardStop, alightStop string
	boardSec, alightSec   int
}

// Build walks the predecessor chain starting at the label arena[idx] back to
// its Origin label, producing the coalesced Journey. It returns false if the
// chain is malformed (a cycle, or an Origin reached with no hops — i.e. the
// start and destination stop coincide).
func Build(fs *feedstore.FeedStore, labels []planner.Label, idx int32) (Journey, bool) {
	hops, ok := walkChain(labels, idx)
	if !ok || len(hops) == 0 {
		return Journey{}, false
	}

	segments := coalesce(fs, hops)
	return Journey{Segments: segments}, true
}

// walkChain reverses a label's predecessor chain into departure-ordered hops,
// guarding against cycles via a visited-index set (the arena uses plain
// indices, not pointers, so a cycle would otherwise loop forever).
func walkChain(labels []planner.Label, idx int32) ([]hop, bool) {
	var revHops []hop
	visited := make(map[int32]bool)

	cur := idx
	for {
		lab := labels[cur]
		if lab.IsOrigin() {
			break
		}
		if visited[cur] {
			return nil, false
		}
		visited[cur] = true

		revHops = append(revHops, hop{
			tripID:     lab.ViaTripID,
			routeID:    lab.ViaRouteID,
			boardStop:  lab.BoardStopID,
			alightStop: lab.StopID,
			boardSec:   lab.DepSec,
			alightSec:  lab.ArrSec,
		})
		cur = lab.Predecessor
	}

	hops := make([]hop, len(revHops))
	for i, h := range revHops {
		hops[len(revHops)-1-i] = h
	}
	return hops, true
}

// coalesce merges consecutive hops riding the same trip (board stop of hop
// N+1 equals alight stop of hop N, same trip id) into one Segment, and fills
// in each segment's wait time at its boarding stop.
func coalesce(fs *feedstore.FeedStore, hops []hop) []Segment {
	var segments []Segment

	cur := hops[0]
	for i := 1; i < len(hops); i++ {
		h := hops[i]
		if h.tripID == cur.tripID && h.boardStop == cur.alightStop && h.boardSec >= cur.alightSec {
			cur.alightStop = h.alightStop
			cur.alightSec = h.alightSec
			continue
		}
		segments = append(segments, toSegment(fs, cur))
		cur = h
	}
	segments = append(segments, toSegment(fs, cur))

	for i := range segments {
		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if prev.AlightStopID == segments[i].BoardStopID {
			if wait := segments[i].BoardSec - prev.AlightSec; wait > 0 {
				segments[i].WaitBeforeSec = wait
			}
		}
	}
	return segments
}

func toSegment(fs *feedstore.FeedStore, h hop) Segment {
	_, shortName := fs.TripRoute(h.tripID)
	return Segment{
		TripID:         h.tripID,
		RouteShortName: shortName,
		BoardStopID:    h.boardStop,
		BoardStopName:  fs.StopName(h.boardStop),
		BoardSec:       h.boardSec,
		AlightStopID:   h.alightStop,
		AlightStopName: fs.StopName(h.alightStop),
		AlightSec:      h.alightSec,
	}
}

// Hash identifies a journey by its sequence of (trip, board stop, alight
// stop, board time) tuples: two label chains that describe the same
// physical itinerary collapse to one Journey.
func Hash(j Journey) string {
	h := ""
	for _, s := range j.Segments {
		h += s.TripID + "|" + s.BoardStopID + "|" + s.AlightStopID + "|" + strconv.Itoa(s.BoardSec) + ";"
	}
	return h
}
