package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sightline/internal/db"
	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/target"
	"github.com/banshee-data/sightline/internal/testutil"
	"github.com/banshee-data/sightline/internal/units"
)

func setupServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	run := &db.Run{TrackName: "evening", SampleCount: 40, TargetCount: 2}
	records := []detect.Record{
		{TargetKind: target.KindIntersection, TargetID: 1, Leg: target.East, Timestamp: testutil.Epoch + 12,
			Distance: 280, SightDistance: 270, Speed: 44, Key: "k1", Label: "EB approach"},
		{TargetKind: target.KindGeneric, TargetID: 4, Leg: target.NoLeg, Timestamp: testutil.Epoch + 30,
			Distance: 252, SightDistance: 250, Speed: 22, Key: "k2", Label: "NB approach"},
	}
	require.NoError(t, store.SaveRun(context.Background(), run, records))
	return NewServer(store, units.MPH).Router(), run.ID
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.NewTestRequest(method, path))
	return w
}

func TestListRuns(t *testing.T) {
	h, id := setupServer(t)
	w := serve(h, http.MethodGet, "/api/runs")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var runs []db.Run
	require.NoError(t, json.NewDecoder(w.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 2, runs[0].DetectionCount)
}

func TestGetRun(t *testing.T) {
	h, id := setupServer(t)

	w := serve(h, http.MethodGet, "/api/runs/"+id)
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	var run db.Run
	require.NoError(t, json.NewDecoder(w.Body).Decode(&run))
	assert.Equal(t, "evening", run.TrackName)

	w = serve(h, http.MethodGet, "/api/runs/missing")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
	assert.Contains(t, w.Body.String(), "run not found")
}

func TestListDetections(t *testing.T) {
	h, id := setupServer(t)

	w := serve(h, http.MethodGet, "/api/runs/"+id+"/detections")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var dets []struct {
		TargetKind string  `json:"target_kind"`
		Seq        int     `json:"seq"`
		SpeedFPS   float64 `json:"speed_fps"`
		Speed      float64 `json:"speed"`
		Units      string  `json:"units"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dets))
	require.Len(t, dets, 2)
	assert.Equal(t, "intersection", dets[0].TargetKind)
	assert.Equal(t, 1, dets[1].Seq)
	assert.Equal(t, "mph", dets[0].Units)
	assert.InDelta(t, 30.0, dets[0].Speed, 0.01)

	w = serve(h, http.MethodGet, "/api/runs/"+id+"/detections?units=mps")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dets))
	assert.InDelta(t, 44/units.FeetPerMeter, dets[0].Speed, 1e-9)

	w = serve(h, http.MethodGet, "/api/runs/"+id+"/detections?units=furlongs")
	testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
	assert.Contains(t, w.Body.String(), "mph")

	w = serve(h, http.MethodGet, "/api/runs/nope/detections")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestTimeline(t *testing.T) {
	h, id := setupServer(t)

	w := serve(h, http.MethodGet, "/api/runs/"+id+"/timeline")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "evening")
	assert.Contains(t, w.Body.String(), "generic 4")

	w = serve(h, http.MethodGet, "/api/runs/nope/timeline")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestRouting(t *testing.T) {
	h, id := setupServer(t)

	tests := []struct {
		method string
		path   string
		want   int
		msg    string
	}{
		{http.MethodPost, "/api/runs", http.StatusMethodNotAllowed, "method not allowed"},
		{http.MethodDelete, "/api/runs/" + id, http.StatusMethodNotAllowed, "method not allowed"},
		{http.MethodPut, "/api/runs/" + id + "/detections", http.StatusMethodNotAllowed, "method not allowed"},
		{http.MethodGet, "/api/unknown", http.StatusNotFound, "not found"},
		{http.MethodGet, "/elsewhere", http.StatusNotFound, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(h, tt.method, tt.path)
			testutil.AssertStatusCode(t, w.Code, tt.want)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

type failingStore struct{}

var errBroken = errors.New("disk on fire")

func (failingStore) ListRuns(context.Context) ([]db.Run, error) { return nil, errBroken }
func (failingStore) GetRun(context.Context, string) (db.Run, error) {
	return db.Run{}, errBroken
}
func (failingStore) ListDetections(context.Context, string) ([]db.Detection, error) {
	return nil, errBroken
}

func TestStoreFailure(t *testing.T) {
	h := NewServer(failingStore{}, units.MPH).Router()
	for _, path := range []string{"/api/runs", "/api/runs/x", "/api/runs/x/detections", "/api/runs/x/timeline"} {
		w := serve(h, http.MethodGet, path)
		testutil.AssertStatusCode(t, w.Code, http.StatusInternalServerError)
		assert.Contains(t, w.Body.String(), "disk on fire", path)
	}
}

func TestStatusCodeColor(t *testing.T) {
	assert.Equal(t, colorBoldGreen+"200"+colorReset, statusCodeColor(200))
	assert.Equal(t, colorYellow+"304"+colorReset, statusCodeColor(304))
	assert.Equal(t, colorBoldRed+"404"+colorReset, statusCodeColor(404))
	assert.Equal(t, "101", statusCodeColor(101))
}
