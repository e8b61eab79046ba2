// Package query is the single entry point tying the Feed Store, Connection
// Builder, Planner and Journey Builder together into one call.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"pyroutech.ch/internal/connections"
	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/journey"
	"pyroutech.ch/internal/logging"
	"pyroutech.ch/internal/planner"
)

// Options configures a query beyond the mandatory (start, end, date, time)
// tuple.
type Options struct {
	MaxRoutes      int // K, defaults to planner.DefaultMaxResults
	MinTransferSec int
	LabelsPerStop  int // B, defaults to planner.DefaultLabelsPerStop
	// LookbackSec bounds how far before the query time the scan considers a
	// still-running trip (needed for the post-midnight wraparound case).
	// Defaults to 0 (no lookback).
	LookbackSec int
}

// Find implements find_route(start_name, end_name, date, time, max_routes).
// It returns up to opts.MaxRoutes journeys ordered by arrival time, or an
// empty slice if none exist — never an error for routing impossibility.
func Find(ctx context.Context, fs *feedstore.FeedStore, startName, endName, date, clock string, opts Options) ([]journey.Journey, error) {
	logger := logging.FromContext(ctx)

	if opts.MaxRoutes <= 0 {
		opts.MaxRoutes = planner.DefaultMaxResults
	}
	if opts.LabelsPerStop <= 0 {
		opts.LabelsPerStop = planner.DefaultLabelsPerStop
	}

	dateYYYYMMDD, weekday, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	timeSec, err := parseClock(clock)
	if err != nil {
		return nil, err
	}

	startIDs, err := fs.ResolveStation(startName)
	if err != nil {
		return nil, fmt.Errorf("resolving start station: %w", err)
	}
	endIDs, err := fs.ResolveStation(endName)
	if err != nil {
		return nil, fmt.Errorf("resolving end station: %w", err)
	}

	origin := toSet(startIDs)
	dest := toSet(endIDs)

	earliestSec := timeSec - opts.LookbackSec
	// ActiveServices returns FeedStore's own cached set; copy it before any
	// possible mutation below so the immutable FeedStore is never touched.
	active := make(map[string]bool)
	for id := range fs.ActiveServices(dateYYYYMMDD, weekday) {
		active[id] = true
	}
	if opts.LookbackSec > 0 {
		// A trip that started the prior service day and crosses midnight is
		// still indexed under yesterday's service id; widen the active set
		// to include it.
		prevDate, prevWeekday := previousDay(dateYYYYMMDD)
		for id := range fs.ActiveServices(prevDate, prevWeekday) {
			active[id] = true
		}
	}

	conns := connections.Build(fs, active, earliestSec)

	logging.LogOperation(logger, "journey_search",
		slog.String("component", "query"),
		slog.Int("connections", len(conns)),
		slog.Int("origin_stops", len(origin)),
		slog.Int("dest_stops", len(dest)),
	)

	res, err := planner.Plan(ctx, conns, origin, dest, timeSec, planner.NewOptions(opts.MinTransferSec, opts.LabelsPerStop, opts.MaxRoutes))
	if err != nil {
		return nil, err
	}

	return collectJourneys(fs, res, opts.MaxRoutes), nil
}

// collectJourneys reconstructs a Journey per destination label, in arrival
// order, deduplicating physically identical itineraries.
func collectJourneys(fs *feedstore.FeedStore, res *planner.Result, maxRoutes int) []journey.Journey {
	var out []journey.Journey
	seen := make(map[string]bool)

	for _, idx := range res.Destinations {
		if len(out) >= maxRoutes {
			break
		}
		j, ok := journey.Build(fs, res.Labels, idx)
		if !ok {
			continue
		}
		h := journey.Hash(j)
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, j)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// parseDate accepts "YYYY-MM-DD" or "YYYYMMDD" and returns the date as an
// int (YYYYMMDD) plus a weekday index (0=Monday .. 6=Sunday) matching
// feedstore.ActiveServices's convention.
func parseDate(value string) (int, int, error) {
	normalized := strings.ReplaceAll(value, "-", "")
	if len(normalized) != 8 {
		return 0, 0, &BadDateError{Value: value}
	}
	t, err := time.Parse("20060102", normalized)
	if err != nil {
		return 0, 0, &BadDateError{Value: value}
	}
	n, _ := strconv.Atoi(normalized)
	return n, weekdayIndex(t.Weekday()), nil
}

func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7 // time.Sunday == 0; we want Monday == 0
}

// previousDay returns the calendar day before dateYYYYMMDD, plus its weekday
// index.
func previousDay(dateYYYYMMDD int) (int, int) {
	t, err := time.Parse("20060102", strconv.Itoa(dateYYYYMMDD))
	if err != nil {
		return dateYYYYMMDD, 0
	}
	prev := t.AddDate(0, 0, -1)
	n, _ := strconv.Atoi(prev.Format("20060102"))
	return n, weekdayIndex(prev.Weekday())
}

// parseClock accepts "HH:MM" and returns seconds since midnight.
func parseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, &BadTimeError{Value: value}
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 {
		return 0, &BadTimeError{Value: value}
	}
	return h*3600 + m*60, nil
}
