package tuner

import (
	"math"
	"testing"
)

func TestGateThresholdBounds(t *testing.T) {
	p := NewDefaultParams()
	atMax := p.GateThreshold(SensitivityMax)
	if math.Abs(atMax-p.GateMinThreshold) > 1e-12 {
		t.Fatalf("sensitivity %d: threshold %.6f, want %.6f", SensitivityMax, atMax, p.GateMinThreshold)
	}
	atMin := p.GateThreshold(SensitivityMin)
	if atMin <= p.GateMinThreshold || atMin > p.GateMaxThreshold {
		t.Fatalf("sensitivity %d: threshold %.6f outside (%.6f, %.6f]",
			SensitivityMin, atMin, p.GateMinThreshold, p.GateMaxThreshold)
	}
}

func TestGateThresholdMonotone(t *testing.T) {
	p := NewDefaultParams()
	prev := p.GateThreshold(SensitivityMin)
	for s := SensitivityMin + 1; s <= SensitivityMax; s++ {
		cur := p.GateThreshold(s)
		if cur >= prev {
			t.Fatalf("threshold not strictly decreasing at sensitivity %d: %.8f >= %.8f", s, cur, prev)
		}
		prev = cur
	}
}

func TestGateThresholdClampsSensitivity(t *testing.T) {
	p := NewDefaultParams()
	if p.GateThreshold(-5) != p.GateThreshold(SensitivityMin) {
		t.Fatalf("sensitivity below range should clamp to %d", SensitivityMin)
	}
	if p.GateThreshold(1000) != p.GateThreshold(SensitivityMax) {
		t.Fatalf("sensitivity above range should clamp to %d", SensitivityMax)
	}
}

func TestShouldAnalyze(t *testing.T) {
	p := NewDefaultParams()
	threshold := p.GateThreshold(50)

	silent := make([]float32, 2048)
	if ok, rms := ShouldAnalyze(silent, threshold); ok || rms != 0 {
		t.Fatalf("silence: ok=%v rms=%.6f, want gated with zero RMS", ok, rms)
	}

	loud := makeSine(440, 44100, 2048, 0.5)
	ok, rms := ShouldAnalyze(loud, threshold)
	if !ok {
		t.Fatalf("0.5 amplitude sine should pass the gate (rms %.6f, threshold %.6f)", rms, threshold)
	}
	if want := 0.5 / math.Sqrt2; math.Abs(rms-want) > 0.01 {
		t.Fatalf("sine RMS %.6f, want near %.6f", rms, want)
	}
}
