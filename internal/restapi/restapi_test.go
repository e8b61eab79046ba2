package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/query"
)

func newTestServer(t *testing.T, scenario string) *Server {
	t.Helper()
	fs, err := feedstore.Load(filepath.Join("..", "..", "testdata", "gtfs", scenario), nil)
	require.NoError(t, err)
	return &Server{
		FeedStore:      fs,
		DefaultOptions: query.Options{},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestPlanHandler_ReturnsJourney(t *testing.T) {
	srv := newTestServer(t, "direct")
	router := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/plan?from=Basel+SBB&to=Z%C3%BCrich+HB&date=2025-12-15&time=08:00", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body planResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Journeys, 1)
	assert.Equal(t, "T1", body.Journeys[0].Segments[0].TripID)
	assert.Equal(t, 34200, body.Journeys[0].Segments[0].AlightSec)
}

func TestPlanHandler_StationNotFoundReturns404(t *testing.T) {
	srv := newTestServer(t, "direct")
	router := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/plan?from=Nowhere&to=Z%C3%BCrich+HB&date=2025-12-15&time=08:00", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Code)
}

func TestPlanHandler_BadDateReturns400(t *testing.T) {
	srv := newTestServer(t, "direct")
	router := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/plan?from=Basel+SBB&to=Z%C3%BCrich+HB&date=nope&time=08:00", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_KOverridesDefaultMaxRoutes(t *testing.T) {
	srv := newTestServer(t, "miss_first")
	router := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/plan?from=Basel+SBB&to=Z%C3%BCrich+HB&date=2025-12-15&time=00:00&k=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body planResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Journeys, 1)
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t, "direct")
	router := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
