// Package api serves stored detection runs over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/banshee-data/sightline/internal/db"
	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/httputil"
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/report"
	"github.com/banshee-data/sightline/internal/timeutil"
	"github.com/banshee-data/sightline/internal/units"
)

// ANSI escape codes for status colouring in the request log.
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

// RunStore is the read side of db.DB.
type RunStore interface {
	ListRuns(ctx context.Context) ([]db.Run, error)
	GetRun(ctx context.Context, id string) (db.Run, error)
	ListDetections(ctx context.Context, runID string) ([]db.Detection, error)
}

type Server struct {
	store RunStore
	units string
	clock timeutil.Clock
}

// NewServer returns a server reporting speeds in unit (mph, kmph, mps,
// fps) unless a request overrides it with ?units=.
func NewServer(store RunStore, unit string) *Server {
	return &Server{store: store, units: unit, clock: timeutil.RealClock{}}
}

// Router returns the route table wrapped in request logging.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/runs", s.listRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}", s.getRun).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}/detections", s.listDetections).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}/timeline", s.timeline).Methods(http.MethodGet)
	// mux consults the subrouter's handlers for paths under its prefix.
	for _, router := range []*mux.Router{r, api} {
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
		router.NotFoundHandler = http.HandlerFunc(notFound)
	}
	return s.logging(r)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) { httputil.MethodNotAllowed(w) }
func notFound(w http.ResponseWriter, _ *http.Request)         { httputil.NotFound(w, "not found") }

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// logging logs method, path, status and duration of every request.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(s.clock.Since(start).Nanoseconds())/1e6,
		)
	})
}

// storeError maps a store error onto a response.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}

// detectionAPI adds the speed in the requested units.
type detectionAPI struct {
	db.Detection
	Speed float64 `json:"speed"`
	Units string  `json:"units"`
}

func (s *Server) listDetections(w http.ResponseWriter, r *http.Request) {
	unit := s.units
	if u := r.URL.Query().Get("units"); u != "" {
		if !units.IsValid(u) {
			httputil.BadRequest(w, fmt.Sprintf("Invalid 'units' parameter. Must be one of: %s", units.GetValidUnitsString()))
			return
		}
		unit = u
	}

	dets, err := s.store.ListDetections(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	out := make([]detectionAPI, len(dets))
	for i, d := range dets {
		out[i] = detectionAPI{Detection: d, Speed: units.ConvertSpeed(d.SpeedFPS, unit), Units: unit}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	dets, err := s.store.ListDetections(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	records := make([]detect.Record, len(dets))
	for i, d := range dets {
		records[i] = d.Record()
	}

	var buf bytes.Buffer
	if err := report.Timeline(&buf, fmt.Sprintf("%s (%s)", run.TrackName, run.ID), records); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	httputil.WriteHTML(w, buf.Bytes())
}
