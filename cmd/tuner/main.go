package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-tuner/dsp"
	"github.com/cwbudde/algo-tuner/internal/history"
	"github.com/cwbudde/algo-tuner/preset"
	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/gordonklaus/portaudio"
)

func main() {
	sampleRate := flag.Int("sample-rate", 44100, "Capture sample rate in Hz")
	blockSize := flag.Int("block-size", 2048, "Frames per analysis block")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	sensitivity := flag.Int("sensitivity", 0, "Initial sensitivity 1-100 (overrides preset)")
	lowpass := flag.Float64("lowpass", 0, "Input lowpass cutoff in Hz, 0 disables (overrides preset)")
	logPath := flag.String("log", "", "Optional sqlite session log path")
	flag.Parse()

	if *sampleRate < 8000 {
		die("sample-rate must be >= 8000")
	}
	if *blockSize < 256 {
		die("block-size must be >= 256")
	}

	settings := preset.NewDefaultSettings()
	if *presetPath != "" {
		loaded, err := preset.LoadJSON(*presetPath)
		if err != nil {
			die("loading preset %q: %v", *presetPath, err)
		}
		settings = loaded
	}
	if *sensitivity != 0 {
		settings.Sensitivity = *sensitivity
	}
	if *lowpass != 0 {
		settings.LowpassCutoff = *lowpass
	}

	analyzer := tuner.NewAnalyzer(settings.Params)
	analyzer.SetSensitivity(settings.Sensitivity)

	var filter *dsp.Biquad
	if settings.LowpassCutoff > 0 {
		filter = dsp.NewLowpass(float32(settings.LowpassCutoff), float32(*sampleRate), 0.707)
	}

	var store *history.Store
	var sessionID uint
	if *logPath != "" {
		var err error
		store, err = history.Open(*logPath)
		if err != nil {
			die("opening session log: %v", err)
		}
		defer store.Close()
		sessionID, err = store.BeginSession("mic", *sampleRate, *blockSize)
		if err != nil {
			die("starting session: %v", err)
		}
	}

	if err := portaudio.Initialize(); err != nil {
		die("initializing portaudio: %v", err)
	}
	defer portaudio.Terminate()

	results := make(chan tuner.Result, 8)
	scratch := make([]float32, *blockSize)
	callback := func(in []float32) {
		block := in
		if filter != nil {
			copy(scratch, in)
			block = filter.ProcessBlock(scratch[:len(in)])
		}
		res := analyzer.Analyze(block, *sampleRate)
		// Drop the result rather than stall the audio thread.
		select {
		case results <- res:
		default:
		}
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(*sampleRate), *blockSize, callback)
	if err != nil {
		die("opening input stream: %v", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		die("starting input stream: %v", err)
	}
	defer stream.Stop()

	ui, err := newUI(analyzer, *sampleRate)
	if err != nil {
		die("initializing display: %v", err)
	}
	defer ui.close()

	ui.run(results, store, sessionID)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
