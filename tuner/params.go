package tuner

import "fmt"

// Params holds all detector parameters.
type Params struct {
	// YinThreshold is the absolute threshold applied to the cumulative
	// mean normalized difference; the first dip below it selects the
	// period candidate.
	YinThreshold float64

	// Gate thresholds span the RMS gate across the sensitivity range.
	// GateMaxThreshold applies at the least sensitive setting,
	// GateMinThreshold at the most sensitive.
	GateMinThreshold float64
	GateMaxThreshold float64

	// Accepted fundamental frequency range in Hz (A0..C8).
	MinFrequency float64
	MaxFrequency float64
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		YinThreshold:     0.15,
		GateMinThreshold: 0.0005,
		GateMaxThreshold: 0.01,
		MinFrequency:     27.5,
		MaxFrequency:     4186.0,
	}
}

// Validate reports the first invalid parameter, if any.
func (p *Params) Validate() error {
	if p.YinThreshold <= 0 || p.YinThreshold >= 1 {
		return fmt.Errorf("yin threshold must be in (0,1), got %g", p.YinThreshold)
	}
	if p.GateMinThreshold <= 0 {
		return fmt.Errorf("gate min threshold must be > 0, got %g", p.GateMinThreshold)
	}
	if p.GateMaxThreshold < p.GateMinThreshold {
		return fmt.Errorf("gate max threshold %g below min threshold %g", p.GateMaxThreshold, p.GateMinThreshold)
	}
	if p.MinFrequency <= 0 {
		return fmt.Errorf("min frequency must be > 0, got %g", p.MinFrequency)
	}
	if p.MaxFrequency <= p.MinFrequency {
		return fmt.Errorf("max frequency %g not above min frequency %g", p.MaxFrequency, p.MinFrequency)
	}
	return nil
}
