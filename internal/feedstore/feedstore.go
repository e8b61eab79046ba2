package feedstore

import (
	"log/slog"

	"pyroutech.ch/internal/logging"
)

// FeedStore owns every normalised GTFS table for one static feed. Its tables
// are built once by Load and never change afterwards; the only state written
// later is ActiveServices' per-date cache, which is guarded by a mutex, so a
// *FeedStore can be shared across concurrent queries.
type FeedStore struct {
	stops     map[string]Stop
	stopOrder []string
	children  map[string][]string // parent_station -> platform stop_ids

	routes map[string]Route
	trips  map[string]Trip

	tripOrder     []string // first-seen order of trip_ids in stop_times.txt
	tripOrderSeen map[string]struct{}
	stopTimes     map[string][]StopTime

	calendar   map[string]calendarRule
	exceptions map[int][]calendarException

	activeServiceCache map[int]map[string]bool
}

// Load reads the mandatory GTFS CSVs (stops, stop_times, trips, routes,
// calendar) plus the optional calendar_dates from dir, and returns an
// immutable FeedStore. logger may be nil.
func Load(dir string, logger *slog.Logger) (*FeedStore, error) {
	fs := &FeedStore{
		stops:              make(map[string]Stop),
		children:           make(map[string][]string),
		routes:             make(map[string]Route),
		trips:              make(map[string]Trip),
		tripOrderSeen:      make(map[string]struct{}),
		stopTimes:          make(map[string][]StopTime),
		calendar:           make(map[string]calendarRule),
		exceptions:         make(map[int][]calendarException),
		activeServiceCache: make(map[int]map[string]bool),
	}

	steps := []struct {
		name string
		fn   func(string, *slog.Logger) error
	}{
		{"stops", fs.loadStops},
		{"routes", fs.loadRoutes},
		{"trips", fs.loadTrips},
		{"stop_times", fs.loadStopTimes},
		{"calendar", fs.loadCalendar},
		{"calendar_dates", fs.loadCalendarDates},
	}

	for _, step := range steps {
		if err := step.fn(dir, logger); err != nil {
			logging.LogError(logger, "feed load failed", err, slog.String("table", step.name))
			return nil, err
		}
	}

	logging.LogOperation(logger, "feed_loaded",
		slog.Int("stops", len(fs.stops)),
		slog.Int("trips", len(fs.tripOrder)),
		slog.Int("routes", len(fs.routes)),
		slog.Int("services", len(fs.calendar)),
	)
	return fs, nil
}
