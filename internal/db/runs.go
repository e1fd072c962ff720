package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/target"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one detection pass of a track against a target set.
type Run struct {
	ID             string    `json:"run_id"`
	TrackName      string    `json:"track_name"`
	CreatedAt      time.Time `json:"created_at"`
	SampleCount    int       `json:"sample_count"`
	TargetCount    int       `json:"target_count"`
	DetectionCount int       `json:"detection_count"`
	ConfigJSON     string    `json:"config_json,omitempty"`
}

// Detection is a stored crossing record.
type Detection struct {
	RunID           string  `json:"run_id"`
	Seq             int     `json:"seq"`
	TargetKind      string  `json:"target_kind"`
	TargetID        int     `json:"target_id"`
	Leg             int     `json:"leg"`
	Timestamp       float64 `json:"timestamp"`
	DistanceFt      float64 `json:"distance_ft"`
	ErrorFt         float64 `json:"error_ft"`
	SightDistanceFt float64 `json:"sight_distance_ft"`
	OffsetS         float64 `json:"offset_s"`
	SpeedFPS        float64 `json:"speed_fps"`
	Key             string  `json:"record_key"`
	Label           string  `json:"label"`
}

func detectionFromRecord(runID string, seq int, r detect.Record) Detection {
	return Detection{
		RunID:           runID,
		Seq:             seq,
		TargetKind:      string(r.TargetKind),
		TargetID:        r.TargetID,
		Leg:             int(r.Leg),
		Timestamp:       r.Timestamp,
		DistanceFt:      r.Distance,
		ErrorFt:         r.Error,
		SightDistanceFt: r.SightDistance,
		OffsetS:         r.Offset,
		SpeedFPS:        r.Speed,
		Key:             r.Key,
		Label:           r.Label,
	}
}

// SaveRun stores run and its records in one transaction. An empty run.ID
// is filled with a new UUID and a zero CreatedAt with the current time;
// DetectionCount is always len(records).
func (db *DB) SaveRun(ctx context.Context, run *Run, records []detect.Record) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = db.clock.Now()
	}
	if run.ConfigJSON == "" {
		run.ConfigJSON = "{}"
	}
	run.DetectionCount = len(records)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, track_name, created_at, sample_count, target_count, detection_count, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TrackName, run.CreatedAt.UnixMilli(), run.SampleCount, run.TargetCount,
		run.DetectionCount, run.ConfigJSON)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO detections (run_id, seq, target_kind, target_id, leg, timestamp, distance_ft,
			error_ft, sight_distance_ft, offset_s, speed_fps, record_key, label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare detection insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		d := detectionFromRecord(run.ID, i, r)
		if _, err := stmt.ExecContext(ctx, d.RunID, d.Seq, d.TargetKind, d.TargetID, d.Leg, d.Timestamp,
			d.DistanceFt, d.ErrorFt, d.SightDistanceFt, d.OffsetS, d.SpeedFPS, d.Key, d.Label); err != nil {
			return fmt.Errorf("insert detection %d: %w", i, err)
		}
	}
	return tx.Commit()
}

const runColumns = `run_id, track_name, created_at, sample_count, target_count, detection_count, config_json`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r       Run
		created int64
	)
	if err := s.Scan(&r.ID, &r.TrackName, &created, &r.SampleCount, &r.TargetCount,
		&r.DetectionCount, &r.ConfigJSON); err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	return r, nil
}

// ListRuns returns every run, newest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with id, or ErrRunNotFound.
func (db *DB) GetRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// ListDetections returns a run's detections in stored order.
func (db *DB) ListDetections(ctx context.Context, runID string) ([]Detection, error) {
	if _, err := db.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, seq, target_kind, target_id, leg, timestamp, distance_ft, error_ft,
			sight_distance_ft, offset_s, speed_fps, record_key, label
		FROM detections WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	out := []Detection{}
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.RunID, &d.Seq, &d.TargetKind, &d.TargetID, &d.Leg, &d.Timestamp,
			&d.DistanceFt, &d.ErrorFt, &d.SightDistanceFt, &d.OffsetS, &d.SpeedFPS, &d.Key, &d.Label); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Record converts d back into a detection record.
func (d Detection) Record() detect.Record {
	return detect.Record{
		TargetKind:    target.Kind(d.TargetKind),
		TargetID:      d.TargetID,
		Leg:           target.Leg(d.Leg),
		Timestamp:     d.Timestamp,
		Distance:      d.DistanceFt,
		Error:         d.ErrorFt,
		SightDistance: d.SightDistanceFt,
		Offset:        d.OffsetS,
		Speed:         d.SpeedFPS,
		Key:           d.Key,
		Label:         d.Label,
	}
}
