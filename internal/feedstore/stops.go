package feedstore

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalizeName matches station queries by NFKC normalisation followed by
// Unicode case folding. This is deliberately not a hand-rolled
// strings.ToLower — casefolding and NFKC both have locale-independent
// semantics strings.ToLower doesn't give us, and golang.org/x/text already
// ships both.
func normalizeName(s string) string {
	folded := cases.Fold().String(norm.NFKC.String(s))
	return strings.TrimSpace(folded)
}

func (fs *FeedStore) loadStops(dir string, logger *slog.Logger) error {
	_, err := walkCSV(dir, "stops.txt", true, logger, func(row csvRow, line int) error {
		id, ok := row.get("stop_id")
		if !ok || id == "" {
			return nil
		}
		name := row.getOr("stop_name", "")
		parent := row.getOr("parent_station", "")
		locType := LocationOther
		if raw, ok := row.get("location_type"); ok && raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				locType = LocationType(n)
			}
		} else if parent == "" {
			// Feeds frequently omit location_type for top-level stations;
			// absence of a parent is itself a strong signal.
			locType = LocationStation
		}

		stop := Stop{ID: id, Name: name, Parent: parent, LocationType: locType}
		fs.stops[id] = stop
		fs.stopOrder = append(fs.stopOrder, id)
		if parent != "" {
			fs.children[parent] = append(fs.children[parent], id)
		}
		return nil
	})
	return err
}

// ResolveStation normalises the query and every stop name, matches by exact
// equality first, then substring containment, and finally expands any match
// that shares a parent station into that parent plus all of its platforms.
func (fs *FeedStore) ResolveStation(query string) ([]string, error) {
	needle := normalizeName(query)
	if needle == "" {
		return nil, &StationNotFoundError{Query: query}
	}

	var exact, substring []string
	for _, id := range fs.stopOrder {
		name := normalizeName(fs.stops[id].Name)
		if name == needle {
			exact = append(exact, id)
		} else if strings.Contains(name, needle) {
			substring = append(substring, id)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = substring
	}
	if len(matches) == 0 {
		return nil, &StationNotFoundError{Query: query}
	}

	if stations := fs.distinctStationNames(matches); len(stations) > 1 {
		return nil, &AmbiguousStationError{Query: query, Candidates: stations}
	}

	return fs.expandStops(matches), nil
}

// distinctStationNames returns the display names of the distinct stations
// (collapsing platforms to their parent) that matches belong to.
func (fs *FeedStore) distinctStationNames(matches []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, id := range matches {
		station := id
		if parent := fs.stops[id].Parent; parent != "" {
			station = parent
		}
		if !seen[station] {
			seen[station] = true
			names = append(names, fs.stops[station].Name)
		}
	}
	return names
}

// expandStops collapses every matched stop sharing a parent station into
// that parent, then expands to the parent plus every one of its platforms,
// de-duplicating while preserving discovery order.
func (fs *FeedStore) expandStops(matches []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, id := range matches {
		station := id
		if parent := fs.stops[id].Parent; parent != "" {
			station = parent
		}
		add(station)
		for _, child := range fs.children[station] {
			add(child)
		}
	}
	return out
}

// StopName returns the human-readable name of stopID, or "" if unknown.
func (fs *FeedStore) StopName(stopID string) string {
	return fs.stops[stopID].Name
}

// Stop returns the Stop row for stopID and whether it exists.
func (fs *FeedStore) Stop(stopID string) (Stop, bool) {
	s, ok := fs.stops[stopID]
	return s, ok
}
