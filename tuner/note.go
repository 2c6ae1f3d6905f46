package tuner

import "math"

const (
	a4Frequency = 440.0
	a4MIDI      = 69

	// 88-key piano range in MIDI note numbers (A0..C8).
	pianoMIDILow  = 21
	pianoMIDIHigh = 108
)

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteInfo describes the equal-tempered note nearest to a detected
// frequency.
type NoteInfo struct {
	// Name is the pitch class, e.g. "A" or "C#". Octave carries the
	// scientific octave number so "A4" renders as Name plus Octave.
	Name   string
	Octave int
	MIDI   int

	// TargetFrequency is the exact equal-tempered frequency of the
	// nearest note.
	TargetFrequency float64

	// Cents is the signed deviation of the detected frequency from the
	// target, always in (-50, 50].
	Cents float64

	// PianoKey is the 1..88 key index when the note lies on an 88-key
	// piano, 0 otherwise. A zero key with a valid note means the pitch
	// is real but outside the instrument range.
	PianoKey int
}

// HasPianoKey reports whether the note falls within the 88-key range.
func (n NoteInfo) HasPianoKey() bool {
	return n.PianoKey != 0
}

// MapToNote maps a frequency in Hz to the nearest equal-tempered note.
// Callers are expected to pass finite positive frequencies inside the
// configured detection range.
func MapToNote(freq float64) NoteInfo {
	noteNumber := float64(a4MIDI) + 12*math.Log2(freq/a4Frequency)
	midi := int(math.Round(noteNumber))

	target := a4Frequency * math.Exp2(float64(midi-a4MIDI)/12)
	cents := 1200 * math.Log2(freq/target)

	pc := midi % 12
	if pc < 0 {
		pc += 12
	}
	octave := int(math.Floor(float64(midi)/12)) - 1

	key := 0
	if midi >= pianoMIDILow && midi <= pianoMIDIHigh {
		key = midi - pianoMIDILow + 1
	}

	return NoteInfo{
		Name:            pitchClasses[pc],
		Octave:          octave,
		MIDI:            midi,
		TargetFrequency: target,
		Cents:           cents,
		PianoKey:        key,
	}
}
