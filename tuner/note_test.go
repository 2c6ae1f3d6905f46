package tuner

import (
	"math"
	"testing"
)

func TestMapToNoteReferencePitches(t *testing.T) {
	cases := []struct {
		freq     float64
		name     string
		octave   int
		midi     int
		pianoKey int
	}{
		{440.0, "A", 4, 69, 49},
		{261.626, "C", 4, 60, 40},
		{27.5, "A", 0, 21, 1},
		{4186.009, "C", 8, 108, 88},
		{466.164, "A#", 4, 70, 50},
	}
	for _, tc := range cases {
		n := MapToNote(tc.freq)
		if n.Name != tc.name || n.Octave != tc.octave {
			t.Fatalf("%.3f Hz: got %s%d, want %s%d", tc.freq, n.Name, n.Octave, tc.name, tc.octave)
		}
		if n.MIDI != tc.midi {
			t.Fatalf("%.3f Hz: MIDI %d, want %d", tc.freq, n.MIDI, tc.midi)
		}
		if n.PianoKey != tc.pianoKey {
			t.Fatalf("%.3f Hz: piano key %d, want %d", tc.freq, n.PianoKey, tc.pianoKey)
		}
		if !n.HasPianoKey() {
			t.Fatalf("%.3f Hz: expected a piano key", tc.freq)
		}
		if math.Abs(n.Cents) > 0.5 {
			t.Fatalf("%.3f Hz: cents %.3f, want near 0", tc.freq, n.Cents)
		}
	}
}

func TestMapToNoteCentsSign(t *testing.T) {
	sharp := MapToNote(443.0)
	if sharp.MIDI != 69 || sharp.Cents <= 0 {
		t.Fatalf("443 Hz: got MIDI %d cents %.3f, want 69 and positive cents", sharp.MIDI, sharp.Cents)
	}
	flat := MapToNote(437.0)
	if flat.MIDI != 69 || flat.Cents >= 0 {
		t.Fatalf("437 Hz: got MIDI %d cents %.3f, want 69 and negative cents", flat.MIDI, flat.Cents)
	}
}

func TestMapToNoteTargetFrequency(t *testing.T) {
	n := MapToNote(442.0)
	if math.Abs(n.TargetFrequency-440.0) > 1e-9 {
		t.Fatalf("target for 442 Hz: %.6f, want 440", n.TargetFrequency)
	}
	// The measured frequency must be reconstructable from target and cents.
	back := n.TargetFrequency * math.Exp2(n.Cents/1200)
	if math.Abs(back-442.0) > 1e-6 {
		t.Fatalf("reconstructed %.6f, want 442", back)
	}
}

func TestMapToNoteOutsidePianoRange(t *testing.T) {
	low := MapToNote(20.0) // below A0
	if low.HasPianoKey() || low.PianoKey != 0 {
		t.Fatalf("20 Hz: expected no piano key, got %d", low.PianoKey)
	}
	high := MapToNote(8000.0) // above C8
	if high.HasPianoKey() || high.PianoKey != 0 {
		t.Fatalf("8 kHz: expected no piano key, got %d", high.PianoKey)
	}
	if high.Name == "" {
		t.Fatalf("8 kHz: note name should still be resolved")
	}
}

func TestMapToNoteCentsBounded(t *testing.T) {
	// Sweep in steps of a seventh of an octave so no frequency lands on
	// an exact half-semitone boundary.
	step := math.Exp2(1.0 / 7.0)
	for f := 30.0; f < 4000.0; f *= step {
		n := MapToNote(f)
		if n.Cents <= -50.0-1e-9 || n.Cents > 50.0+1e-9 {
			t.Fatalf("%.3f Hz: cents %.6f outside (-50, 50]", f, n.Cents)
		}
	}
}

func TestMapToNoteAllPianoKeys(t *testing.T) {
	for midi := 21; midi <= 108; midi++ {
		freq := 440.0 * math.Exp2(float64(midi-69)/12)
		n := MapToNote(freq)
		if n.MIDI != midi {
			t.Fatalf("midi %d: mapped to %d", midi, n.MIDI)
		}
		if want := midi - 20; n.PianoKey != want {
			t.Fatalf("midi %d: piano key %d, want %d", midi, n.PianoKey, want)
		}
	}
}
