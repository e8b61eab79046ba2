package feedstore

import "log/slog"

func (fs *FeedStore) loadRoutes(dir string, logger *slog.Logger) error {
	_, err := walkCSV(dir, "routes.txt", true, logger, func(row csvRow, line int) error {
		id, ok := row.get("route_id")
		if !ok || id == "" {
			return nil
		}
		name := row.getOr("route_short_name", "")
		if name == "" {
			name = row.getOr("route_long_name", "")
		}
		fs.routes[id] = Route{ID: id, ShortName: name}
		return nil
	})
	return err
}

func (fs *FeedStore) loadTrips(dir string, logger *slog.Logger) error {
	_, err := walkCSV(dir, "trips.txt", true, logger, func(row csvRow, line int) error {
		id, ok := row.get("trip_id")
		if !ok || id == "" {
			return nil
		}
		serviceID, ok := row.get("service_id")
		if !ok || serviceID == "" {
			return nil
		}
		routeID := row.getOr("route_id", "")
		fs.trips[id] = Trip{ID: id, RouteID: routeID, ServiceID: serviceID}
		return nil
	})
	return err
}

// TripRoute returns the route id and short name for tripID.
func (fs *FeedStore) TripRoute(tripID string) (routeID, shortName string) {
	trip, ok := fs.trips[tripID]
	if !ok {
		return "", ""
	}
	route := fs.routes[trip.RouteID]
	return trip.RouteID, route.ShortName
}

// TripService returns the service id tripID runs under, and whether the
// trip is known.
func (fs *FeedStore) TripService(tripID string) (string, bool) {
	trip, ok := fs.trips[tripID]
	if !ok {
		return "", false
	}
	return trip.ServiceID, true
}

// Trips returns the id of every trip that has stop_times rows, in the order
// each first appears in stop_times.txt. The slice is the FeedStore's own and
// must not be mutated; it is built only on Load.
func (fs *FeedStore) Trips() []string {
	return fs.tripOrder
}
