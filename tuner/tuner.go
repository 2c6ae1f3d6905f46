package tuner

import "sync/atomic"

// Status tags the outcome of analyzing one audio block.
type Status int

const (
	// StatusNoSignal: block RMS below the gate threshold.
	StatusNoSignal Status = iota
	// StatusNoPitch: enough energy but no periodicity found.
	StatusNoPitch
	// StatusOutOfRange: a frequency was found outside the accepted range.
	StatusOutOfRange
	// StatusNote: a frequency was found and mapped to a note.
	StatusNote
)

func (s Status) String() string {
	switch s {
	case StatusNoSignal:
		return "no-signal"
	case StatusNoPitch:
		return "no-pitch"
	case StatusOutOfRange:
		return "out-of-range"
	case StatusNote:
		return "note"
	default:
		return "unknown"
	}
}

// Result is the immutable per-block outcome handed to presentation
// layers. RMS is always populated; Frequency is populated for
// StatusOutOfRange and StatusNote; Note only for StatusNote.
type Result struct {
	Status    Status
	RMS       float64
	Frequency float64
	Note      NoteInfo
}

// Analyzer runs the gate -> estimator -> note mapper pipeline on audio
// blocks. It keeps no per-block state; the only mutable field is the
// sensitivity setting, stored atomically so a UI thread may adjust it
// while the audio thread reads it.
type Analyzer struct {
	params      *Params
	sensitivity atomic.Int64
}

// NewAnalyzer creates an analyzer. A nil params uses defaults.
func NewAnalyzer(params *Params) *Analyzer {
	if params == nil {
		params = NewDefaultParams()
	}
	a := &Analyzer{params: params}
	a.sensitivity.Store(50)
	return a
}

// Params returns the analyzer's parameter set.
func (a *Analyzer) Params() *Params {
	return a.params
}

// SetSensitivity stores a new sensitivity setting, clamped to [1,100].
func (a *Analyzer) SetSensitivity(s int) {
	a.sensitivity.Store(int64(clampSensitivity(s)))
}

// Sensitivity returns the current sensitivity setting.
func (a *Analyzer) Sensitivity() int {
	return int(a.sensitivity.Load())
}

// Analyze processes one block of mono samples at the given sample rate
// and returns a tagged result. It never fails: degenerate input folds
// into StatusNoSignal or StatusNoPitch.
func (a *Analyzer) Analyze(block []float32, sampleRate int) Result {
	threshold := a.params.GateThreshold(a.Sensitivity())
	ok, rms := ShouldAnalyze(block, threshold)
	if !ok {
		return Result{Status: StatusNoSignal, RMS: rms}
	}

	freq, found := EstimatePitch(block, sampleRate, a.params.YinThreshold)
	if !found {
		return Result{Status: StatusNoPitch, RMS: rms}
	}

	if freq < a.params.MinFrequency || freq > a.params.MaxFrequency {
		return Result{Status: StatusOutOfRange, RMS: rms, Frequency: freq}
	}

	return Result{
		Status:    StatusNote,
		RMS:       rms,
		Frequency: freq,
		Note:      MapToNote(freq),
	}
}
