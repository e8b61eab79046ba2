package journey

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyroutech.ch/internal/connections"
	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/planner"
)

func load(t *testing.T, scenario string) *feedstore.FeedStore {
	t.Helper()
	fs, err := feedstore.Load(filepath.Join("..", "..", "testdata", "gtfs", scenario), nil)
	require.NoError(t, err)
	return fs
}

func set(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestBuild_DirectTripSingleSegment(t *testing.T) {
	fs := load(t, "direct")
	active := fs.ActiveServices(20251215, 0)
	conns := connections.Build(fs, active, 28800)

	res, err := planner.Plan(context.Background(), conns, set("A"), set("B"), 28800, planner.NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)

	j, ok := Build(fs, res.Labels, res.Destinations[0])
	require.True(t, ok)
	require.Len(t, j.Segments, 1)

	seg := j.Segments[0]
	assert.Equal(t, "T1", seg.TripID)
	assert.Equal(t, "A", seg.BoardStopID)
	assert.Equal(t, "Basel SBB", seg.BoardStopName)
	assert.Equal(t, 28800, seg.BoardSec)
	assert.Equal(t, "B", seg.AlightStopID)
	assert.Equal(t, "Zürich HB", seg.AlightStopName)
	assert.Equal(t, 34200, seg.AlightSec)
	assert.Equal(t, 0, seg.WaitBeforeSec)
}

func TestBuild_TransferProducesTwoSegmentsWithWait(t *testing.T) {
	fs := load(t, "transfer")
	active := fs.ActiveServices(20251215, 0)
	conns := connections.Build(fs, active, 28800)

	res, err := planner.Plan(context.Background(), conns, set("A"), set("B"), 28800, planner.NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)

	j, ok := Build(fs, res.Labels, res.Destinations[0])
	require.True(t, ok)
	require.Len(t, j.Segments, 2)

	assert.Equal(t, "T1", j.Segments[0].TripID)
	assert.Equal(t, "A", j.Segments[0].BoardStopID)
	assert.Equal(t, "C", j.Segments[0].AlightStopID)
	assert.Equal(t, 28800, j.Segments[0].BoardSec)
	assert.Equal(t, 31200, j.Segments[0].AlightSec) // 08:40:00
	assert.Equal(t, 0, j.Segments[0].WaitBeforeSec)

	assert.Equal(t, "T2", j.Segments[1].TripID)
	assert.Equal(t, "C", j.Segments[1].BoardStopID)
	assert.Equal(t, "B", j.Segments[1].AlightStopID)
	assert.Equal(t, 31500, j.Segments[1].BoardSec) // 08:45:00
	assert.Equal(t, 300, j.Segments[1].WaitBeforeSec)

	assert.Equal(t, 28800, j.DepartSec())
	assert.Equal(t, 34200, j.ArriveSec())
}

func TestBuild_CoalescesMultiHopSameTripIntoOneSegment(t *testing.T) {
	fs := load(t, "basic")
	active := fs.ActiveServices(20251215, 0) // SVC_WEEKDAY, Monday
	conns := connections.Build(fs, active, 0)

	res, err := planner.Plan(context.Background(), conns, set("A"), set("B"), 0, planner.NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Destinations, 1)

	j, ok := Build(fs, res.Labels, res.Destinations[0])
	require.True(t, ok)
	require.Len(t, j.Segments, 1) // T1 visits A -> C -> B but it's one ride

	seg := j.Segments[0]
	assert.Equal(t, "T1", seg.TripID)
	assert.Equal(t, "A", seg.BoardStopID)
	assert.Equal(t, "B", seg.AlightStopID)
	assert.Equal(t, 28800, seg.BoardSec)
	assert.Equal(t, 34200, seg.AlightSec)
}

func TestHash_SameItineraryHashesEqual(t *testing.T) {
	fs := load(t, "transfer")
	active := fs.ActiveServices(20251215, 0)
	conns := connections.Build(fs, active, 28800)

	res, err := planner.Plan(context.Background(), conns, set("A"), set("B"), 28800, planner.NewOptions(300, 0, 0))
	require.NoError(t, err)
	require.NotEmpty(t, res.Destinations)

	j1, ok := Build(fs, res.Labels, res.Destinations[0])
	require.True(t, ok)
	j2, ok := Build(fs, res.Labels, res.Destinations[0])
	require.True(t, ok)
	assert.Equal(t, Hash(j1), Hash(j2))
}
