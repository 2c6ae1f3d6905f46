package tuner

import (
	"math"
	"testing"
)

func TestAnalyzeSilence(t *testing.T) {
	a := NewAnalyzer(nil)
	res := a.Analyze(make([]float32, 2048), 44100)
	if res.Status != StatusNoSignal {
		t.Fatalf("status %v, want %v", res.Status, StatusNoSignal)
	}
	if res.RMS != 0 || res.Frequency != 0 {
		t.Fatalf("silence result carries data: rms=%.6f freq=%.3f", res.RMS, res.Frequency)
	}
}

func TestAnalyzeSineToNote(t *testing.T) {
	a := NewAnalyzer(nil)
	block := makeSine(440, 44100, 2048, 0.5)
	res := a.Analyze(block, 44100)
	if res.Status != StatusNote {
		t.Fatalf("status %v, want %v", res.Status, StatusNote)
	}
	if res.Note.Name != "A" || res.Note.Octave != 4 {
		t.Fatalf("note %s%d, want A4", res.Note.Name, res.Note.Octave)
	}
	if res.Note.PianoKey != 49 {
		t.Fatalf("piano key %d, want 49", res.Note.PianoKey)
	}
	if math.Abs(res.Note.Cents) > 3 {
		t.Fatalf("cents %.3f, want near 0", res.Note.Cents)
	}
}

func TestAnalyzeOutOfRange(t *testing.T) {
	a := NewAnalyzer(nil)
	block := makeSine(6000, 48000, 2048, 0.5)
	res := a.Analyze(block, 48000)
	if res.Status != StatusOutOfRange {
		t.Fatalf("status %v, want %v", res.Status, StatusOutOfRange)
	}
	if res.Frequency <= a.params.MaxFrequency {
		t.Fatalf("frequency %.1f should exceed %.1f", res.Frequency, a.params.MaxFrequency)
	}
	if res.Note != (NoteInfo{}) {
		t.Fatalf("out-of-range result should not carry a note: %+v", res.Note)
	}
}

func TestAnalyzeNoPitch(t *testing.T) {
	a := NewAnalyzer(nil)
	// DC offset passes the gate but has no periodicity.
	block := make([]float32, 2048)
	for i := range block {
		block[i] = 0.5
	}
	res := a.Analyze(block, 44100)
	if res.Status != StatusNoPitch {
		t.Fatalf("status %v, want %v", res.Status, StatusNoPitch)
	}
	if res.RMS == 0 {
		t.Fatalf("no-pitch result should still report RMS")
	}
}

func TestAnalyzeSensitivityGating(t *testing.T) {
	a := NewAnalyzer(nil)
	quiet := makeSine(440, 44100, 2048, 0.005)

	a.SetSensitivity(SensitivityMax)
	if res := a.Analyze(quiet, 44100); res.Status != StatusNote {
		t.Fatalf("at max sensitivity a quiet sine should resolve, got %v", res.Status)
	}

	a.SetSensitivity(SensitivityMin)
	if res := a.Analyze(quiet, 44100); res.Status != StatusNoSignal {
		t.Fatalf("at min sensitivity a quiet sine should be gated, got %v", res.Status)
	}
}

func TestSetSensitivityClamps(t *testing.T) {
	a := NewAnalyzer(nil)
	a.SetSensitivity(0)
	if got := a.Sensitivity(); got != SensitivityMin {
		t.Fatalf("sensitivity %d, want %d", got, SensitivityMin)
	}
	a.SetSensitivity(500)
	if got := a.Sensitivity(); got != SensitivityMax {
		t.Fatalf("sensitivity %d, want %d", got, SensitivityMax)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := NewAnalyzer(nil)
	block := makeSine(196, 44100, 2048, 0.4)
	r1 := a.Analyze(block, 44100)
	r2 := a.Analyze(block, 44100)
	if r1 != r2 {
		t.Fatalf("analyzer is not stateless across blocks: %+v vs %+v", r1, r2)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusNoSignal:   "no-signal",
		StatusNoPitch:    "no-pitch",
		StatusOutOfRange: "out-of-range",
		StatusNote:       "note",
		Status(99):       "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
