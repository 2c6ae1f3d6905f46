package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-tuner/analysis"
	"github.com/cwbudde/algo-tuner/internal/history"
	"github.com/cwbudde/algo-tuner/internal/wavio"
	"github.com/cwbudde/algo-tuner/preset"
	"github.com/cwbudde/algo-tuner/tuner"
)

type blockResult struct {
	Index     int     `json:"index"`
	AtSeconds float64 `json:"at_seconds"`
	Status    string  `json:"status"`
	RMS       float64 `json:"rms"`
	Frequency float64 `json:"frequency,omitempty"`
	Note      string  `json:"note,omitempty"`
	Cents     float64 `json:"cents,omitempty"`
	PianoKey  int     `json:"piano_key,omitempty"`
}

type runReport struct {
	InputPath  string `json:"input_path"`
	SampleRate int    `json:"sample_rate"`
	BlockSize  int    `json:"block_size"`
	HopSize    int    `json:"hop_size"`
	Blocks     int    `json:"blocks"`

	NoSignal   int `json:"no_signal"`
	NoPitch    int `json:"no_pitch"`
	OutOfRange int `json:"out_of_range"`
	Notes      int `json:"notes"`

	DominantNote  string  `json:"dominant_note,omitempty"`
	DominantCount int     `json:"dominant_count,omitempty"`
	MeanAbsCents  float64 `json:"mean_abs_cents,omitempty"`

	StrongestBlock *analysis.SpectrumInfo `json:"strongest_block_spectrum,omitempty"`
	Results        []blockResult          `json:"results,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "Input WAV path")
	targetRate := flag.Int("target-rate", 0, "Resample to this rate before analysis (0 = keep native)")
	blockSize := flag.Int("block-size", 2048, "Frames per analysis block")
	hopSize := flag.Int("hop", 0, "Frames between block starts (default: block size)")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	jsonPath := flag.String("json", "", "Write a JSON report to this path")
	logPath := flag.String("log", "", "Optional sqlite session log path")
	printBlocks := flag.Bool("print-blocks", false, "Print one line per analyzed block")
	flag.Parse()

	if *inputPath == "" {
		die("input must not be empty")
	}
	if *blockSize < 256 {
		die("block-size must be >= 256")
	}
	if *hopSize <= 0 {
		*hopSize = *blockSize
	}

	settings := preset.NewDefaultSettings()
	if *presetPath != "" {
		loaded, err := preset.LoadJSON(*presetPath)
		if err != nil {
			die("loading preset %q: %v", *presetPath, err)
		}
		settings = loaded
	}

	samples, rate, err := wavio.ReadMono(*inputPath)
	if err != nil {
		die("reading %q: %v", *inputPath, err)
	}
	if *targetRate > 0 && *targetRate != rate {
		samples, err = wavio.ResampleIfNeeded(samples, rate, *targetRate)
		if err != nil {
			die("resampling: %v", err)
		}
		rate = *targetRate
	}
	fmt.Printf("Input: %d frames @ %d Hz (%.2fs)\n", len(samples), rate, float64(len(samples))/float64(rate))

	analyzer := tuner.NewAnalyzer(settings.Params)
	analyzer.SetSensitivity(settings.Sensitivity)

	var store *history.Store
	var sessionID uint
	if *logPath != "" {
		store, err = history.Open(*logPath)
		if err != nil {
			die("opening session log: %v", err)
		}
		defer store.Close()
		sessionID, err = store.BeginSession(*inputPath, rate, *blockSize)
		if err != nil {
			die("starting session: %v", err)
		}
	}

	report := runReport{
		InputPath:  *inputPath,
		SampleRate: rate,
		BlockSize:  *blockSize,
		HopSize:    *hopSize,
	}

	noteCounts := make(map[string]int)
	var absCents float64
	var strongestRMS float64
	var strongestStart int

	for start := 0; start+*blockSize <= len(samples); start += *hopSize {
		block := wavio.ToFloat32(samples[start : start+*blockSize])
		res := analyzer.Analyze(block, rate)
		atSec := float64(start) / float64(rate)

		br := blockResult{
			Index:     report.Blocks,
			AtSeconds: atSec,
			Status:    res.Status.String(),
			RMS:       res.RMS,
		}
		switch res.Status {
		case tuner.StatusNoSignal:
			report.NoSignal++
		case tuner.StatusNoPitch:
			report.NoPitch++
		case tuner.StatusOutOfRange:
			report.OutOfRange++
			br.Frequency = res.Frequency
		case tuner.StatusNote:
			report.Notes++
			noteName := fmt.Sprintf("%s%d", res.Note.Name, res.Note.Octave)
			br.Frequency = res.Frequency
			br.Note = noteName
			br.Cents = res.Note.Cents
			br.PianoKey = res.Note.PianoKey
			noteCounts[noteName]++
			if res.Note.Cents < 0 {
				absCents -= res.Note.Cents
			} else {
				absCents += res.Note.Cents
			}
			if store != nil {
				_ = store.RecordDetection(sessionID, history.Detection{
					AtMs:      int64(atSec * 1000),
					Frequency: res.Frequency,
					MIDI:      res.Note.MIDI,
					Cents:     res.Note.Cents,
					RMS:       res.RMS,
				})
			}
		}
		report.Results = append(report.Results, br)
		report.Blocks++

		if res.RMS > strongestRMS {
			strongestRMS = res.RMS
			strongestStart = start
		}

		if *printBlocks {
			switch res.Status {
			case tuner.StatusNote:
				fmt.Printf("%8.3fs  %-4s %8.2f Hz  %+6.1f cents\n",
					atSec, fmt.Sprintf("%s%d", res.Note.Name, res.Note.Octave), res.Frequency, res.Note.Cents)
			case tuner.StatusOutOfRange:
				fmt.Printf("%8.3fs  out of range (%.1f Hz)\n", atSec, res.Frequency)
			default:
				fmt.Printf("%8.3fs  %s\n", atSec, res.Status)
			}
		}
	}

	if report.Notes > 0 {
		report.MeanAbsCents = absCents / float64(report.Notes)
		for name, n := range noteCounts {
			if n > report.DominantCount {
				report.DominantCount = n
				report.DominantNote = name
			}
		}
	}

	if strongestRMS > 0 {
		spec, err := analysis.Spectrum(samples[strongestStart:strongestStart+*blockSize], rate)
		if err == nil {
			spec.Magnitudes = nil // keep reports compact
			report.StrongestBlock = &spec
		}
	}

	fmt.Printf("Blocks: %d  notes=%d no-signal=%d no-pitch=%d out-of-range=%d\n",
		report.Blocks, report.Notes, report.NoSignal, report.NoPitch, report.OutOfRange)
	if report.Notes > 0 {
		fmt.Printf("Dominant: %s (%d blocks), mean |cents| %.2f\n",
			report.DominantNote, report.DominantCount, report.MeanAbsCents)
	}

	if *jsonPath != "" {
		b, err := json.MarshalIndent(&report, "", "  ")
		if err != nil {
			die("encoding report: %v", err)
		}
		if err := os.WriteFile(*jsonPath, append(b, '\n'), 0o644); err != nil {
			die("writing report: %v", err)
		}
		fmt.Printf("Report written to %s\n", *jsonPath)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
