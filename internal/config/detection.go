package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/sightline/internal/fsutil"
	"github.com/banshee-data/sightline/internal/units"
)

// DefaultConfigPath is the path to the canonical detection defaults file.
const DefaultConfigPath = "config/detection.defaults.json"

// Refinement modes.
const (
	RefineKinematic = "kinematic"
	RefineWeighted  = "weighted"
)

// DetectionConfig holds the tunables of the crossing pipeline. Every field
// is optional; the Get* methods supply defaults for anything unset, so
// partial files are safe.
type DetectionConfig struct {
	// Multiplier applied to the largest tabulated sight distance to form
	// the relevance envelope around each target.
	RelevanceMultiplier *float64 `json:"relevance_multiplier,omitempty" yaml:"relevance_multiplier,omitempty"`

	// Records with the same key closer together than this are merged.
	DedupWindow *string `json:"dedup_window,omitempty" yaml:"dedup_window,omitempty"` // duration string like "3s"

	// "kinematic" or "weighted"
	RefineMode  *string `json:"refine_mode,omitempty" yaml:"refine_mode,omitempty"`
	ClampOffset *bool   `json:"clamp_offset,omitempty" yaml:"clamp_offset,omitempty"`

	// Track construction
	FirstSampleDelta *string `json:"first_sample_delta,omitempty" yaml:"first_sample_delta,omitempty"`
	OrderTolerance   *string `json:"order_tolerance,omitempty" yaml:"order_tolerance,omitempty"`

	// Per-target fan-out of the candidate filter. 1 runs sequentially.
	Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Path interpolation moving-average width.
	SmoothingWindow *int `json:"smoothing_window,omitempty" yaml:"smoothing_window,omitempty"`

	// Labels
	Timezone *string `json:"timezone,omitempty" yaml:"timezone,omitempty"`

	// Derived GPX speeds at or above this are treated as GPS glitches.
	MaxGPSSpeedMPS *float64 `json:"max_gps_speed_mps,omitempty" yaml:"max_gps_speed_mps,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyDetectionConfig returns a DetectionConfig with all fields unset.
func EmptyDetectionConfig() *DetectionConfig {
	return &DetectionConfig{}
}

// DefaultDetectionConfig returns a config with every field populated.
func DefaultDetectionConfig() *DetectionConfig {
	return &DetectionConfig{
		RelevanceMultiplier: ptrFloat64(1.5),
		DedupWindow:         ptrString("3s"),
		RefineMode:          ptrString(RefineKinematic),
		ClampOffset:         ptrBool(true),
		FirstSampleDelta:    ptrString("10s"),
		OrderTolerance:      ptrString("0s"),
		Workers:             ptrInt(1),
		SmoothingWindow:     ptrInt(5),
		Timezone:            ptrString("UTC"),
		MaxGPSSpeedMPS:      ptrFloat64(50),
	}
}

// LoadDetectionConfig loads a DetectionConfig from a JSON or YAML file in
// fsys. The file must have a .json, .yaml or .yml extension and be under 1MB.
func LoadDetectionConfig(fsys fsutil.FileSystem, path string) (*DetectionConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", len(data), maxFileSize)
	}

	cfg := EmptyDetectionConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents. Panics if the file
// cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *DetectionConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadDetectionConfig(fsutil.OSFileSystem{}, path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *DetectionConfig) Validate() error {
	if c.RelevanceMultiplier != nil && *c.RelevanceMultiplier < 1 {
		return fmt.Errorf("relevance_multiplier must be at least 1, got %f", *c.RelevanceMultiplier)
	}

	durations := map[string]*string{
		"dedup_window":       c.DedupWindow,
		"first_sample_delta": c.FirstSampleDelta,
		"order_tolerance":    c.OrderTolerance,
	}
	for name, v := range durations {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, *v)
		}
	}

	if c.RefineMode != nil && *c.RefineMode != RefineKinematic && *c.RefineMode != RefineWeighted {
		return fmt.Errorf("refine_mode must be %q or %q, got %q", RefineKinematic, RefineWeighted, *c.RefineMode)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.SmoothingWindow != nil && *c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be at least 1, got %d", *c.SmoothingWindow)
	}
	if c.Timezone != nil && *c.Timezone != "" && !units.IsTimezoneValid(*c.Timezone) {
		return fmt.Errorf("invalid timezone %q", *c.Timezone)
	}
	if c.MaxGPSSpeedMPS != nil && *c.MaxGPSSpeedMPS <= 0 {
		return fmt.Errorf("max_gps_speed_mps must be positive, got %f", *c.MaxGPSSpeedMPS)
	}
	return nil
}

func parseDurationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}

// GetRelevanceMultiplier returns the relevance_multiplier value or the default.
func (c *DetectionConfig) GetRelevanceMultiplier() float64 {
	if c.RelevanceMultiplier == nil {
		return 1.5
	}
	return *c.RelevanceMultiplier
}

// GetDedupWindow parses and returns the DedupWindow as a time.Duration.
func (c *DetectionConfig) GetDedupWindow() time.Duration {
	return parseDurationOr(c.DedupWindow, 3*time.Second)
}

// GetRefineMode returns the refine_mode value or the default.
func (c *DetectionConfig) GetRefineMode() string {
	if c.RefineMode == nil || *c.RefineMode == "" {
		return RefineKinematic
	}
	return *c.RefineMode
}

// GetClampOffset returns the clamp_offset value or the default.
func (c *DetectionConfig) GetClampOffset() bool {
	if c.ClampOffset == nil {
		return true
	}
	return *c.ClampOffset
}

// GetFirstSampleDelta returns the time delta assumed before the first sample.
func (c *DetectionConfig) GetFirstSampleDelta() time.Duration {
	return parseDurationOr(c.FirstSampleDelta, 10*time.Second)
}

// GetOrderTolerance returns how far a timestamp may step backwards before
// a track is rejected.
func (c *DetectionConfig) GetOrderTolerance() time.Duration {
	return parseDurationOr(c.OrderTolerance, 0)
}

// GetWorkers returns the workers value or the default.
func (c *DetectionConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetSmoothingWindow returns the smoothing_window value or the default.
func (c *DetectionConfig) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return 5
	}
	return *c.SmoothingWindow
}

// GetTimezone returns the timezone value or the default.
func (c *DetectionConfig) GetTimezone() string {
	if c.Timezone == nil || *c.Timezone == "" {
		return "UTC"
	}
	return *c.Timezone
}

// GetMaxGPSSpeedMPS returns the max_gps_speed_mps value or the default.
func (c *DetectionConfig) GetMaxGPSSpeedMPS() float64 {
	if c.MaxGPSSpeedMPS == nil {
		return 50
	}
	return *c.MaxGPSSpeedMPS
}
