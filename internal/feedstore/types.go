// Package feedstore owns the normalised GTFS tables for one static feed:
// stops, trips, routes, calendars, and the sorted stop_times. It is built
// once at startup and is immutable afterwards.
package feedstore

// LocationType distinguishes a passenger-level station from the platforms
// (or other points) that hang off it via parent_station.
type LocationType int

const (
	LocationStation  LocationType = 1
	LocationOther    LocationType = 4
	LocationPlatform LocationType = 0
)

// Stop is a row of stops.txt. A platform always has a non-empty Parent; a
// station never does.
type Stop struct {
	ID           string // stop_id
	Name         string // stop_name
	Parent       string // parent_station
	LocationType LocationType
}

// IsStation reports whether s is a station: tagged location_type=1, or
// loaded with no location_type and no parent station.
func (s Stop) IsStation() bool {
	return s.LocationType == LocationStation
}

// Route is a row of routes.txt, reduced to the fields the planner surfaces.
type Route struct {
	ID        string // route_id
	ShortName string // route_short_name, falling back to route_long_name
}

// Trip is a row of trips.txt.
type Trip struct {
	ID        string // trip_id
	RouteID   string // route_id
	ServiceID string // service_id
}

// StopTime is a row of stop_times.txt. ArrivalSec/DepartureSec are seconds
// since midnight of the service day and may exceed 86400 to represent
// post-midnight trips; they are never converted to wall-clock types.
type StopTime struct {
	TripID       string
	StopSequence int
	StopID       string
	ArrivalSec   int
	DepartureSec int
}

// calendarRule is one row of calendar.txt.
type calendarRule struct {
	ServiceID string
	Weekday   [7]bool // Monday=0 ... Sunday=6
	StartDate int     // YYYYMMDD
	EndDate   int     // YYYYMMDD
}

// exceptionType mirrors GTFS calendar_dates.exception_type.
type exceptionType int

const (
	ExceptionAdded   exceptionType = 1
	ExceptionRemoved exceptionType = 2
)

type calendarException struct {
	ServiceID string
	Date      int // YYYYMMDD
	Type      exceptionType
}
