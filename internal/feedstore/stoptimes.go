package feedstore

import (
	"log/slog"
	"sort"
	"strconv"
)

func (fs *FeedStore) loadStopTimes(dir string, logger *slog.Logger) error {
	_, err := walkCSV(dir, "stop_times.txt", true, logger, func(row csvRow, line int) error {
		tripID, ok := row.get("trip_id")
		if !ok || tripID == "" {
			return nil
		}
		stopID, ok := row.get("stop_id")
		if !ok || stopID == "" {
			return nil
		}
		seqRaw, ok := row.get("stop_sequence")
		if !ok {
			return nil
		}
		seq, err := strconv.Atoi(seqRaw)
		if err != nil {
			return nil
		}

		arrival, _ := parseGTFSTime(row.getOr("arrival_time", ""))
		departure, _ := parseGTFSTime(row.getOr("departure_time", ""))

		if _, seen := fs.tripOrderSeen[tripID]; !seen {
			fs.tripOrderSeen[tripID] = struct{}{}
			fs.tripOrder = append(fs.tripOrder, tripID)
		}

		fs.stopTimes[tripID] = append(fs.stopTimes[tripID], StopTime{
			TripID:       tripID,
			StopSequence: seq,
			StopID:       stopID,
			ArrivalSec:   arrival,
			DepartureSec: departure,
		})
		return nil
	})
	if err != nil {
		return err
	}

	for tripID := range fs.stopTimes {
		rows := fs.stopTimes[tripID]
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].StopSequence < rows[j].StopSequence
		})
		fs.stopTimes[tripID] = rows
	}
	return nil
}

// StopTimes returns the sorted stop_times of tripID, by ascending
// stop_sequence.
func (fs *FeedStore) StopTimes(tripID string) []StopTime {
	return fs.stopTimes[tripID]
}
