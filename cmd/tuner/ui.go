package main

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-tuner/dsp"
	"github.com/cwbudde/algo-tuner/internal/history"
	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/gdamore/tcell/v2"
)

const centsBarHalfWidth = 25

type ui struct {
	screen   tcell.Screen
	analyzer *tuner.Analyzer
	tone     *refTone
	started  time.Time
}

func newUI(analyzer *tuner.Analyzer, sampleRate int) (*ui, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	// Reference tone output is best-effort; the tuner works without it.
	tone, _ := newRefTone(sampleRate)

	return &ui{
		screen:   screen,
		analyzer: analyzer,
		tone:     tone,
		started:  time.Now(),
	}, nil
}

func (u *ui) close() {
	if u.tone != nil {
		u.tone.close()
	}
	u.screen.Fini()
}

// run drives the event loop until quit. Detections are recorded to the
// store when one is configured.
func (u *ui) run(results <-chan tuner.Result, store *history.Store, sessionID uint) {
	events := make(chan tcell.Event, 4)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var last tuner.Result
	redraw := time.NewTicker(33 * time.Millisecond)
	defer redraw.Stop()

	for {
		select {
		case ev := <-events:
			if !u.handleEvent(ev) {
				return
			}

		case res := <-results:
			last = res
			if res.Status == tuner.StatusNote {
				if u.tone != nil {
					u.tone.setFrequency(res.Note.TargetFrequency)
				}
				if store != nil {
					_ = store.RecordDetection(sessionID, history.Detection{
						AtMs:      time.Since(u.started).Milliseconds(),
						Frequency: res.Frequency,
						MIDI:      res.Note.MIDI,
						Cents:     res.Note.Cents,
						RMS:       res.RMS,
					})
				}
			}

		case <-redraw.C:
			u.draw(last)
		}
	}
}

func (u *ui) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Rune() == 'q':
			return false
		case ev.Rune() == '+' || ev.Rune() == '=':
			u.analyzer.SetSensitivity(u.analyzer.Sensitivity() + 5)
		case ev.Rune() == '-':
			u.analyzer.SetSensitivity(u.analyzer.Sensitivity() - 5)
		case ev.Rune() == 'r':
			if u.tone != nil {
				u.tone.toggle()
			}
		}
	}
	return true
}

func (u *ui) draw(res tuner.Result) {
	u.screen.Clear()

	style := tcell.StyleDefault
	bold := style.Bold(true)

	switch res.Status {
	case tuner.StatusNoSignal:
		u.drawCentered(2, "listening... (too quiet)", style)
	case tuner.StatusNoPitch:
		u.drawCentered(2, "listening...", style)
	case tuner.StatusOutOfRange:
		u.drawCentered(2, fmt.Sprintf("%.1f Hz - out of instrument range", res.Frequency), style)
	case tuner.StatusNote:
		note := res.Note
		u.drawCentered(2, fmt.Sprintf("%s%d", note.Name, note.Octave), bold)
		u.drawCentered(3, fmt.Sprintf("%.2f Hz (target %.2f Hz)", res.Frequency, note.TargetFrequency), style)
		u.drawCentsBar(5, note.Cents)
		if note.HasPianoKey() {
			u.drawCentered(7, fmt.Sprintf("piano key %d", note.PianoKey), style)
		} else {
			u.drawCentered(7, "outside 88-key range", style)
		}
	}

	db := dsp.LinToDB(res.RMS)
	u.drawText(1, 9, fmt.Sprintf("level %6.1f dBFS", db), style)
	u.drawText(1, 10, fmt.Sprintf("sensitivity %3d  [+/-]", u.analyzer.Sensitivity()), style)
	toneState := "off"
	if u.tone != nil && u.tone.playing() {
		toneState = "on"
	}
	u.drawText(1, 11, fmt.Sprintf("reference tone %-3s [r]   quit [q]", toneState), style)

	u.screen.Show()
}

// drawCentsBar renders a -50..+50 cent scale with a marker at the
// current deviation.
func (u *ui) drawCentsBar(y int, cents float64) {
	w, _ := u.screen.Size()
	cx := w / 2

	for dx := -centsBarHalfWidth; dx <= centsBarHalfWidth; dx++ {
		ch := '-'
		if dx == 0 {
			ch = '|'
		}
		u.screen.SetContent(cx+dx, y, ch, nil, tcell.StyleDefault)
	}

	pos := int(cents / 50.0 * centsBarHalfWidth)
	if pos < -centsBarHalfWidth {
		pos = -centsBarHalfWidth
	}
	if pos > centsBarHalfWidth {
		pos = centsBarHalfWidth
	}
	marker := tcell.StyleDefault.Bold(true)
	if cents > -5 && cents < 5 {
		marker = marker.Foreground(tcell.ColorGreen)
	} else {
		marker = marker.Foreground(tcell.ColorYellow)
	}
	u.screen.SetContent(cx+pos, y, '#', nil, marker)
	u.drawCentered(y+1, fmt.Sprintf("%+.1f cents", cents), tcell.StyleDefault)
}

func (u *ui) drawCentered(y int, text string, style tcell.Style) {
	w, _ := u.screen.Size()
	u.drawText((w-len(text))/2, y, text, style)
}

func (u *ui) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}
