package main

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const toneLevel = 0.18

// refTone plays a continuous sine at the most recent target frequency
// so the player can tune against it by ear.
type refTone struct {
	ctrl *beep.Ctrl
	freq atomic.Uint64
}

func newRefTone(sampleRate int) (*refTone, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, err
	}

	t := &refTone{}
	t.freq.Store(math.Float64bits(440.0))
	t.ctrl = &beep.Ctrl{
		Streamer: &sineStreamer{tone: t, rate: float64(sampleRate)},
		Paused:   true,
	}
	speaker.Play(t.ctrl)
	return t, nil
}

func (t *refTone) setFrequency(freq float64) {
	if freq > 0 {
		t.freq.Store(math.Float64bits(freq))
	}
}

func (t *refTone) toggle() {
	speaker.Lock()
	t.ctrl.Paused = !t.ctrl.Paused
	speaker.Unlock()
}

func (t *refTone) playing() bool {
	speaker.Lock()
	p := !t.ctrl.Paused
	speaker.Unlock()
	return p
}

func (t *refTone) close() {
	speaker.Close()
}

// sineStreamer generates an endless sine wave whose frequency follows
// the owning refTone.
type sineStreamer struct {
	tone  *refTone
	rate  float64
	phase float64
}

func (s *sineStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	freq := math.Float64frombits(s.tone.freq.Load())
	step := freq / s.rate
	for i := range samples {
		val := toneLevel * math.Sin(2*math.Pi*s.phase)
		samples[i][0] = val
		samples[i][1] = val
		s.phase += step
		s.phase -= math.Floor(s.phase)
	}
	return len(samples), true
}

func (s *sineStreamer) Err() error { return nil }
