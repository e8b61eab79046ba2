package planner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyroutech.ch/internal/connections"
	"pyroutech.ch/internal/feedstore"
)

func buildConns(t *testing.T, scenario string, date, weekday, earliestSec int) []connections.Connection {
	t.Helper()
	fs, err := feedstore.Load(filepath.Join("..", "..", "testdata", "gtfs", scenario), nil)
	require.NoError(t, err)
	active := fs.ActiveServices(date, weekday)
	return connections.Build(fs, active, earliestSec)
}

func set(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestPlan_DirectTrip(t *testing.T) {
	conns := buildConns(t, "direct", 20251215, 0, 28800) // Monday, 08:00:00
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 28800, NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	lab := res.Labels[res.Destinations[0]]
	assert.Equal(t, 34200, lab.ArrSec) // 09:30:00
	assert.Equal(t, "T1", lab.ViaTripID)
	assert.Equal(t, 1, lab.Hops)
}

func TestPlan_MissFirstCatchSecond(t *testing.T) {
	// Querying from 08:05:00 (28500+300=28800... use 28800+5*60=29100) means T1
	// (departs 08:00:00) has already left; only T2 (08:10:00) can be boarded.
	conns := buildConns(t, "miss_first", 20251215, 0, 29100) // 08:05:00
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 29100, NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	lab := res.Labels[res.Destinations[0]]
	assert.Equal(t, "T2", lab.ViaTripID)
	assert.Equal(t, 33600, lab.ArrSec) // 09:20:00
}

func TestPlan_TransferSatisfiesMTT(t *testing.T) {
	// T1 arrives at C 08:40:00, T2 departs C 08:45:00: a 300s gap, exactly MTT.
	conns := buildConns(t, "transfer", 20251215, 0, 28800)
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 28800, NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	lab := res.Labels[res.Destinations[0]]
	assert.Equal(t, 34200, lab.ArrSec) // 09:30:00
	assert.Equal(t, "T2", lab.ViaTripID)
	assert.Equal(t, 2, lab.Hops)

	pred := res.Labels[lab.Predecessor]
	assert.Equal(t, "T1", pred.ViaTripID)
	assert.Equal(t, "C", pred.StopID)
}

func TestPlan_TransferInfeasibleUnderStricterMTT(t *testing.T) {
	// Same fixture, but demand a transfer buffer longer than the 300s gap
	// available: the transfer connection must be rejected entirely.
	conns := buildConns(t, "transfer", 20251215, 0, 28800)
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 28800, NewOptions(301, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, res.Destinations)
}

func TestPlan_PostMidnightWraparound(t *testing.T) {
	conns := buildConns(t, "postmidnight", 20251215, 0, 86400) // lookback from 24:00:00
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 86400, NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	lab := res.Labels[res.Destinations[0]]
	assert.Equal(t, 93600, lab.ArrSec) // 26:00:00
	assert.Equal(t, "T3", lab.ViaTripID)
}

func TestPlan_StationExpansionBoardsFromPlatform(t *testing.T) {
	// Origin resolves "Luzern" (the parent station S) to its platforms; the
	// planner must be able to board a trip that only visits platform P1.
	conns := buildConns(t, "station_expansion", 20251215, 0, 36000) // 10:00:00
	res, err := Plan(context.Background(), conns, set("S", "P1", "P2"), set("B"), 36000, NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	lab := res.Labels[res.Destinations[0]]
	assert.Equal(t, 38700, lab.ArrSec) // 10:45:00
	assert.Equal(t, "T6", lab.ViaTripID)
}

func TestPlan_ServiceExceptionOverridesCalendar(t *testing.T) {
	// SVC_ADDED runs no weekday by calendar.txt but is added for 2025-12-15;
	// SVC_REMOVED runs every weekday but is removed for 2025-12-15. Only T1
	// (SVC_ADDED) should be usable.
	conns := buildConns(t, "service_exception", 20251215, 0, 0)
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 0, NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	lab := res.Labels[res.Destinations[0]]
	assert.Equal(t, "T1", lab.ViaTripID)
	assert.Equal(t, 27000, lab.ArrSec) // 07:30:00
}

func TestPlan_NoOriginOrDestinationYieldsEmptyResult(t *testing.T) {
	conns := buildConns(t, "direct", 20251215, 0, 28800)
	res, err := Plan(context.Background(), conns, set("A"), set("NOWHERE"), 28800, NewOptions(300, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, res.Destinations)
}

func TestPlan_RespectsMaxResults(t *testing.T) {
	conns := buildConns(t, "miss_first", 20251215, 0, 0)
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 0, NewOptions(300, 4, 1))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)
	// T2 departs later but arrives 09:20, before T1's 09:30.
	assert.Equal(t, "T2", res.Labels[res.Destinations[0]].ViaTripID)
	assert.Equal(t, 33600, res.Labels[res.Destinations[0]].ArrSec)
}

func TestPlan_DeterministicAcrossRuns(t *testing.T) {
	conns := buildConns(t, "transfer", 20251215, 0, 28800)
	opts := NewOptions(300, 0, 0)

	first, err := Plan(context.Background(), conns, set("A"), set("B"), 28800, opts)
	require.NoError(t, err)
	second, err := Plan(context.Background(), conns, set("A"), set("B"), 28800, opts)
	require.NoError(t, err)

	require.Equal(t, len(first.Destinations), len(second.Destinations))
	for i := range first.Destinations {
		a := first.Labels[first.Destinations[i]]
		b := second.Labels[second.Destinations[i]]
		assert.Equal(t, a.ArrSec, b.ArrSec)
		assert.Equal(t, a.ViaTripID, b.ViaTripID)
	}
}

func TestPlan_ArrivalsNeverPrecedeEarliestDeparture(t *testing.T) {
	conns := buildConns(t, "transfer", 20251215, 0, 28800)
	res, err := Plan(context.Background(), conns, set("A"), set("B"), 28800, NewOptions(300, 0, 0))
	require.NoError(t, err)
	for _, idx := range res.Destinations {
		lab := res.Labels[idx]
		for !lab.IsOrigin() {
			assert.GreaterOrEqual(t, lab.ArrSec, lab.DepSec)
			assert.GreaterOrEqual(t, lab.DepSec, 28800)
			lab = res.Labels[lab.Predecessor]
		}
	}
}

func TestPlan_CancelledContext(t *testing.T) {
	conns := buildConns(t, "direct", 20251215, 0, 28800)
	// Pad the connection slice so the cancel check inside the scan loop fires
	// at least once before the scan completes.
	padded := make([]connections.Connection, 0, cancelCheckInterval+len(conns))
	for i := 0; i < cancelCheckInterval; i++ {
		padded = append(padded, connections.Connection{
			TripID: "PAD", FromStopID: "X", ToStopID: "Y", DepSec: 1 << 30, ArrSec: 1<<30 + 1,
		})
	}
	padded = append(padded, conns...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Plan(ctx, padded, set("A"), set("B"), 28800, NewOptions(300, 0, 0))
	assert.ErrorIs(t, err, ErrCancelled)
}
