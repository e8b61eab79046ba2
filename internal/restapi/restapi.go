// Package restapi exposes the journey planner over HTTP: a GET /plan
// endpoint wrapping query.Find in the JSON envelope the rest of this
// codebase's handlers use, plus a GET /healthz liveness check.
package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/journey"
	"pyroutech.ch/internal/logging"
	"pyroutech.ch/internal/query"
)

// Server holds the dependencies every handler needs.
type Server struct {
	FeedStore      *feedstore.FeedStore
	DefaultOptions query.Options
	Logger         *slog.Logger
}

// NewRouter builds the HTTP router exposing the planner's endpoints.
func NewRouter(srv *Server) http.Handler {
	router := httprouter.New()
	router.GET("/plan", srv.planHandler)
	router.GET("/healthz", srv.healthHandler)
	return router
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// segmentDTO is the wire shape of one journey.Segment.
type segmentDTO struct {
	TripID         string `json:"trip_id"`
	RouteShortName string `json:"route_short_name"`
	BoardStopID    string `json:"board_stop_id"`
	BoardStopName  string `json:"board_stop_name"`
	BoardSec       int    `json:"board_sec"`
	AlightStopID   string `json:"alight_stop_id"`
	AlightStopName string `json:"alight_stop_name"`
	AlightSec      int    `json:"alight_sec"`
	WaitBeforeSec  int    `json:"wait_before_sec"`
}

type journeyDTO struct {
	Segments []segmentDTO `json:"segments"`
}

type planResponse struct {
	Journeys []journeyDTO `json:"journeys"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) planHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	r = r.WithContext(logging.WithLogger(r.Context(), s.Logger))
	q := r.URL.Query()

	from := q.Get("from")
	to := q.Get("to")
	date := q.Get("date")
	clock := q.Get("time")

	opts := s.DefaultOptions
	if k := q.Get("k"); k != "" {
		if n, err := strconv.Atoi(k); err == nil {
			opts.MaxRoutes = n
		}
	}

	journeys, err := query.Find(r.Context(), s.FeedStore, from, to, date, clock, opts)
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		s.writeError(w, r, status, err, time.Since(start))
		return
	}

	s.writeJSON(w, status, toPlanResponse(journeys))
	s.logRequest(r, status, time.Since(start))
}

func toPlanResponse(journeys []journey.Journey) planResponse {
	out := planResponse{Journeys: make([]journeyDTO, 0, len(journeys))}
	for _, j := range journeys {
		segs := make([]segmentDTO, 0, len(j.Segments))
		for _, seg := range j.Segments {
			segs = append(segs, segmentDTO{
				TripID:         seg.TripID,
				RouteShortName: seg.RouteShortName,
				BoardStopID:    seg.BoardStopID,
				BoardStopName:  seg.BoardStopName,
				BoardSec:       seg.BoardSec,
				AlightStopID:   seg.AlightStopID,
				AlightStopName: seg.AlightStopName,
				AlightSec:      seg.AlightSec,
				WaitBeforeSec:  seg.WaitBeforeSec,
			})
		}
		out.Journeys = append(out.Journeys, journeyDTO{Segments: segs})
	}
	return out
}

// statusFor maps the query package's error taxonomy onto HTTP status codes:
// input errors are client mistakes, everything else is unexpected.
func statusFor(err error) int {
	var badDate *query.BadDateError
	var badTime *query.BadTimeError
	var notFound *feedstore.StationNotFoundError
	var ambiguous *feedstore.AmbiguousStationError

	switch {
	case errors.As(err, &badDate), errors.As(err, &badTime):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &ambiguous):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error, elapsed time.Duration) {
	s.writeJSON(w, status, errorResponse{Code: status, Message: err.Error()})
	logging.LogHTTPRequest(s.Logger, r.Method, r.URL.Path, status, float64(elapsed.Microseconds())/1000, slog.String("error", err.Error()))
}

func (s *Server) logRequest(r *http.Request, status int, elapsed time.Duration) {
	logging.LogHTTPRequest(s.Logger, r.Method, r.URL.Path, status, float64(elapsed.Microseconds())/1000)
}
