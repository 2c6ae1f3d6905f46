package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-tuner/tuner"
)

// Settings bundles tuner parameters with the capture-side options that
// live alongside them in a preset file.
type Settings struct {
	Params      *tuner.Params
	Sensitivity int

	// LowpassCutoff configures the optional input conditioning filter
	// in Hz; 0 disables it.
	LowpassCutoff float64
}

// NewDefaultSettings creates settings with default params, mid-range
// sensitivity, and no input conditioning.
func NewDefaultSettings() *Settings {
	return &Settings{
		Params:      tuner.NewDefaultParams(),
		Sensitivity: 50,
	}
}

// File is the JSON schema for tuner presets.
type File struct {
	Sensitivity      *int     `json:"sensitivity"`
	YinThreshold     *float64 `json:"yin_threshold"`
	GateMinThreshold *float64 `json:"gate_min_threshold"`
	GateMaxThreshold *float64 `json:"gate_max_threshold"`
	MinFrequency     *float64 `json:"min_frequency"`
	MaxFrequency     *float64 `json:"max_frequency"`
	LowpassCutoff    *float64 `json:"lowpass_cutoff"`
}

// LoadJSON loads a preset JSON file and applies it on top of default
// settings.
func LoadJSON(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	s := NewDefaultSettings()
	if err := ApplyFile(s, &f); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyFile applies a parsed preset file onto existing settings.
func ApplyFile(dst *Settings, f *File) error {
	if dst == nil || dst.Params == nil {
		return fmt.Errorf("nil destination settings")
	}
	if f == nil {
		return nil
	}

	if f.Sensitivity != nil {
		if *f.Sensitivity < tuner.SensitivityMin || *f.Sensitivity > tuner.SensitivityMax {
			return fmt.Errorf("sensitivity must be in [%d,%d]", tuner.SensitivityMin, tuner.SensitivityMax)
		}
		dst.Sensitivity = *f.Sensitivity
	}
	if f.YinThreshold != nil {
		dst.Params.YinThreshold = *f.YinThreshold
	}
	if f.GateMinThreshold != nil {
		dst.Params.GateMinThreshold = *f.GateMinThreshold
	}
	if f.GateMaxThreshold != nil {
		dst.Params.GateMaxThreshold = *f.GateMaxThreshold
	}
	if f.MinFrequency != nil {
		dst.Params.MinFrequency = *f.MinFrequency
	}
	if f.MaxFrequency != nil {
		dst.Params.MaxFrequency = *f.MaxFrequency
	}
	if f.LowpassCutoff != nil {
		if *f.LowpassCutoff < 0 {
			return fmt.Errorf("lowpass_cutoff must be >= 0")
		}
		dst.LowpassCutoff = *f.LowpassCutoff
	}

	return dst.Params.Validate()
}

// SaveJSON writes settings as a preset JSON file, creating parent
// directories as needed.
func SaveJSON(path string, s *Settings) error {
	if s == nil || s.Params == nil {
		return fmt.Errorf("nil settings")
	}
	if err := s.Params.Validate(); err != nil {
		return err
	}

	f := File{
		Sensitivity:      &s.Sensitivity,
		YinThreshold:     &s.Params.YinThreshold,
		GateMinThreshold: &s.Params.GateMinThreshold,
		GateMaxThreshold: &s.Params.GateMaxThreshold,
		MinFrequency:     &s.Params.MinFrequency,
		MaxFrequency:     &s.Params.MaxFrequency,
	}
	if s.LowpassCutoff > 0 {
		f.LowpassCutoff = &s.LowpassCutoff
	}

	b, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
