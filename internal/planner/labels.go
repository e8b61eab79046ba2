package planner

// noPredecessor marks a Label with no predecessor, i.e. an Origin label.
const noPredecessor int32 = -1

// Label is a tentative (stop, arrival_time, via) tuple kept during the scan.
// Labels are allocated in an arena keyed by a 32-bit index so predecessor
// "pointers" are plain indices: no cycles, and the whole arena's lifetime
// is exactly one search.
type Label struct {
	StopID      string
	ArrSec      int
	ViaTripID   string // "" for an Origin label
	ViaRouteID  string
	Predecessor int32 // index into the arena, or noPredecessor
	// DepSec is the time this label's trip departed its boarding stop
	// (meaningless for an Origin label).
	DepSec int
	// BoardStopID is the stop this label's trip departed from (meaningless
	// for an Origin label).
	BoardStopID string
	// FirstDepSec is the departure time of the very first connection taken
	// after leaving the origin. It never changes once a label has left the
	// origin, and backs the "later departure from origin" tie-break.
	FirstDepSec int
	Hops        int
}

// IsOrigin reports whether l is a synthetic Origin label.
func (l Label) IsOrigin() bool { return l.Predecessor == noPredecessor && l.ViaTripID == "" }

// arena holds every label created during one search, plus the bounded
// per-stop label sets used for the dominance rule.
type arena struct {
	labels        []Label
	byStop        map[string][]int32 // sorted ascending by the less() order below
	labelsPerStop int
}

func newArena(labelsPerStop int) *arena {
	return &arena{
		byStop:        make(map[string][]int32),
		labelsPerStop: labelsPerStop,
	}
}

func (a *arena) get(idx int32) Label { return a.labels[idx] }

func (a *arena) push(l Label) int32 {
	a.labels = append(a.labels, l)
	return int32(len(a.labels) - 1)
}

// less implements the dominance/tie-break order: strictly earlier arrival
// wins; ties prefer the label with a later departure from Origin (smaller
// ride-duration proxy); further ties prefer fewer predecessor hops, then a
// lexicographically smaller trip id.
func less(a, b Label) bool {
	if a.ArrSec != b.ArrSec {
		return a.ArrSec < b.ArrSec
	}
	if a.FirstDepSec != b.FirstDepSec {
		return a.FirstDepSec > b.FirstDepSec
	}
	if a.Hops != b.Hops {
		return a.Hops < b.Hops
	}
	return a.ViaTripID < b.ViaTripID
}

// tryInsert attempts to add candidate (already pushed to the arena at index
// idx) to stopID's bounded label set. It returns false if the candidate is
// dominated or redundant and was not kept: labels at the same stop are kept
// distinct if they arrive on different trips or via different predecessors;
// otherwise dominated labels (later arrival, same trip) are dropped.
func (a *arena) tryInsert(stopID string, idx int32) bool {
	cand := a.labels[idx]
	existing := a.byStop[stopID]

	if len(existing) >= a.labelsPerStop && !less(cand, a.labels[existing[len(existing)-1]]) {
		return false
	}

	for _, otherIdx := range existing {
		other := a.labels[otherIdx]
		if other.ViaTripID == cand.ViaTripID && other.Predecessor == cand.Predecessor && other.ArrSec <= cand.ArrSec {
			return false // exact duplicate or dominated continuation of the same trip/predecessor
		}
	}

	pos := 0
	for pos < len(existing) && less(a.labels[existing[pos]], cand) {
		pos++
	}
	existing = append(existing, 0)
	copy(existing[pos+1:], existing[pos:])
	existing[pos] = idx
	if len(existing) > a.labelsPerStop {
		existing = existing[:a.labelsPerStop]
	}
	a.byStop[stopID] = existing
	return true
}

func (a *arena) labelsAt(stopID string) []int32 {
	return a.byStop[stopID]
}
