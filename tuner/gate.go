package tuner

import "github.com/cwbudde/algo-tuner/dsp"

// SensitivityMin and SensitivityMax bound the user-facing sensitivity
// setting mapped onto the gate threshold range.
const (
	SensitivityMin = 1
	SensitivityMax = 100
)

// GateThreshold maps a sensitivity setting onto an RMS threshold by
// linear interpolation between the gate bounds. Higher sensitivity
// yields a lower threshold.
func (p *Params) GateThreshold(sensitivity int) float64 {
	s := clampSensitivity(sensitivity)
	span := p.GateMaxThreshold - p.GateMinThreshold
	return p.GateMaxThreshold - float64(s)/float64(SensitivityMax)*span
}

// ShouldAnalyze reports whether a block carries enough energy for pitch
// estimation. The block RMS is returned alongside the decision so
// callers can display it regardless of the outcome.
func ShouldAnalyze(block []float32, threshold float64) (bool, float64) {
	rms := dsp.RMS(block)
	return rms > threshold, rms
}

func clampSensitivity(s int) int {
	if s < SensitivityMin {
		return SensitivityMin
	}
	if s > SensitivityMax {
		return SensitivityMax
	}
	return s
}
