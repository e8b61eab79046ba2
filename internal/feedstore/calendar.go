package feedstore

import (
	"log/slog"
	"sync"
)

// activeServiceMu guards every FeedStore's activeServiceCache, the only
// state written after Load.
var activeServiceMu sync.Mutex

func (fs *FeedStore) loadCalendar(dir string, logger *slog.Logger) error {
	_, err := walkCSV(dir, "calendar.txt", true, logger, func(row csvRow, line int) error {
		serviceID, ok := row.get("service_id")
		if !ok || serviceID == "" {
			return nil
		}
		start, ok := parseYYYYMMDD(row.getOr("start_date", ""))
		if !ok {
			return nil
		}
		end, ok := parseYYYYMMDD(row.getOr("end_date", ""))
		if !ok {
			return nil
		}

		weekdayCols := [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
		var weekday [7]bool
		for i, col := range weekdayCols {
			weekday[i] = row.getOr(col, "0") == "1"
		}

		fs.calendar[serviceID] = calendarRule{
			ServiceID: serviceID,
			Weekday:   weekday,
			StartDate: start,
			EndDate:   end,
		}
		return nil
	})
	return err
}

func (fs *FeedStore) loadCalendarDates(dir string, logger *slog.Logger) error {
	_, err := walkCSV(dir, "calendar_dates.txt", false, logger, func(row csvRow, line int) error {
		serviceID, ok := row.get("service_id")
		if !ok || serviceID == "" {
			return nil
		}
		date, ok := parseYYYYMMDD(row.getOr("date", ""))
		if !ok {
			return nil
		}
		var excType exceptionType
		switch row.getOr("exception_type", "") {
		case "1":
			excType = ExceptionAdded
		case "2":
			excType = ExceptionRemoved
		default:
			return nil
		}

		fs.exceptions[date] = append(fs.exceptions[date], calendarException{
			ServiceID: serviceID,
			Date:      date,
			Type:      excType,
		})
		return nil
	})
	return err
}

// ActiveServices is the service-calendar predicate for date D (YYYYMMDD,
// weekday 0=Monday..6=Sunday): active iff D is within [start,end] and the
// weekday bit is set and D isn't an explicit removal, or D is an explicit
// addition. Results are cached per date: every caller asking for the same
// date gets the same map instance.
func (fs *FeedStore) ActiveServices(dateYYYYMMDD int, weekday int) map[string]bool {
	activeServiceMu.Lock()
	defer activeServiceMu.Unlock()

	if cached, ok := fs.activeServiceCache[dateYYYYMMDD]; ok {
		return cached
	}

	active := make(map[string]bool)
	for serviceID, rule := range fs.calendar {
		if rule.StartDate <= dateYYYYMMDD && dateYYYYMMDD <= rule.EndDate && rule.Weekday[weekday] {
			active[serviceID] = true
		}
	}

	for _, exc := range fs.exceptions[dateYYYYMMDD] {
		switch exc.Type {
		case ExceptionAdded:
			active[exc.ServiceID] = true
		case ExceptionRemoved:
			delete(active, exc.ServiceID)
		}
	}

	fs.activeServiceCache[dateYYYYMMDD] = active
	return active
}
