package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/algo-tuner/preset"
	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/mayfly"
)

type knobDef struct {
	Name string
	Min  float64
	Max  float64
}

var knobs = []knobDef{
	{Name: "yin_threshold", Min: 0.05, Max: 0.40},
	{Name: "gate_min_threshold", Min: 0.0001, Max: 0.002},
	{Name: "gate_max_threshold", Min: 0.002, Max: 0.05},
}

type fitReport struct {
	SampleRate    int                `json:"sample_rate"`
	BlockSize     int                `json:"block_size"`
	CorpusSize    int                `json:"corpus_size"`
	Evaluations   int                `json:"evaluations"`
	DurationSec   float64            `json:"elapsed_seconds"`
	MayflyVariant string             `json:"mayfly_variant"`
	BestScore     float64            `json:"best_score"`
	BestKnobs     map[string]float64 `json:"best_knobs"`
	MissRate      float64            `json:"miss_rate"`
	FalseRate     float64            `json:"false_rate"`
	MeanAbsCents  float64            `json:"mean_abs_cents"`
}

type evalMetrics struct {
	score        float64
	missRate     float64
	falseRate    float64
	meanAbsCents float64
}

func main() {
	outputPreset := flag.String("output-preset", "out/calibrated.json", "Path to write the fitted preset JSON")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output-preset>.report.json)")
	sampleRate := flag.Int("sample-rate", 44100, "Corpus sample rate")
	blockSize := flag.Int("block-size", 2048, "Corpus block size")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 4000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 50, "Print progress every N evaluations")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 8, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 200, "Target eval budget per Mayfly round")
	flag.Parse()

	if *outputPreset == "" {
		die("output-preset must not be empty")
	}
	if *reportPath == "" {
		*reportPath = *outputPreset + ".report.json"
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}

	corpus, err := buildCorpus(*seed, *sampleRate, *blockSize)
	if err != nil {
		die("building corpus: %v", err)
	}
	fmt.Printf("Corpus: %d blocks (%d Hz, %d frames)\n", len(corpus), *sampleRate, *blockSize)

	start := time.Now()
	deadline := start.Add(time.Duration(*timeBudget * float64(time.Second)))
	evals := 0

	best := []float64{0.15, 0.0005, 0.01}
	bestM := evaluate(best, corpus, *sampleRate)
	fmt.Printf("Baseline score=%.4f miss=%.3f false=%.3f cents=%.2f\n",
		bestM.score, bestM.missRate, bestM.falseRate, bestM.meanAbsCents)

	round := 0
	for evals < *maxEvals && time.Now().Before(deadline) {
		round++
		remaining := *maxEvals - evals
		budget := minInt(*mayflyRoundEvals, remaining)
		iters := maxInt(1, budget/(2*(*mayflyPop)))

		cfg, err := newMayflyConfig(strings.ToLower(*mayflyVariant), *mayflyPop, len(knobs), iters)
		if err != nil {
			die("invalid mayfly variant: %v", err)
		}
		cfg.Rand = rand.New(rand.NewSource(*seed + int64(round)*7919))

		cfg.ObjectiveFunc = func(pos []float64) float64 {
			if evals >= *maxEvals || time.Now().After(deadline) {
				return bestM.score + 1.0
			}
			cand := fromNormalized(pos)
			m := evaluate(cand, corpus, *sampleRate)
			evals++

			if m.score < bestM.score {
				best = cand
				bestM = m
				fmt.Printf("Improved eval=%d score=%.4f miss=%.3f false=%.3f cents=%.2f\n",
					evals, m.score, m.missRate, m.falseRate, m.meanAbsCents)
			}
			if evals%*reportEvery == 0 {
				fmt.Printf("Progress round=%d eval=%d elapsed=%.1fs best=%.4f\n",
					round, evals, time.Since(start).Seconds(), bestM.score)
			}
			return m.score
		}

		if _, err := runMayfly(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", round, err)
			continue
		}
	}

	settings := settingsFromKnobs(best)
	if err := preset.SaveJSON(*outputPreset, settings); err != nil {
		die("writing preset: %v", err)
	}

	rep := fitReport{
		SampleRate:    *sampleRate,
		BlockSize:     *blockSize,
		CorpusSize:    len(corpus),
		Evaluations:   evals,
		DurationSec:   time.Since(start).Seconds(),
		MayflyVariant: strings.ToLower(*mayflyVariant),
		BestScore:     bestM.score,
		MissRate:      bestM.missRate,
		FalseRate:     bestM.falseRate,
		MeanAbsCents:  bestM.meanAbsCents,
		BestKnobs:     map[string]float64{},
	}
	for i, d := range knobs {
		rep.BestKnobs[d.Name] = best[i]
	}
	b, err := json.MarshalIndent(&rep, "", "  ")
	if err != nil {
		die("encoding report: %v", err)
	}
	if err := os.WriteFile(*reportPath, append(b, '\n'), 0o644); err != nil {
		die("writing report: %v", err)
	}

	fmt.Printf("Done: %d evals in %.1fs, best score %.4f -> %s\n",
		evals, rep.DurationSec, bestM.score, *outputPreset)
}

// evaluate scores a candidate on the labeled corpus. Lower is better:
// miss rate plus false-positive rate plus a small tuning-accuracy term.
func evaluate(cand []float64, corpus []labeledBlock, sampleRate int) evalMetrics {
	params := tuner.NewDefaultParams()
	params.YinThreshold = cand[0]
	params.GateMinThreshold = cand[1]
	params.GateMaxThreshold = cand[2]
	if params.Validate() != nil {
		return evalMetrics{score: math.Inf(1)}
	}

	analyzer := tuner.NewAnalyzer(params)

	var positives, misses, negatives, falses, hits int
	var absCents float64
	for _, lb := range corpus {
		res := analyzer.Analyze(lb.block, sampleRate)
		if lb.freq > 0 {
			positives++
			if res.Status != tuner.StatusNote || math.Abs(res.Frequency-lb.freq)/lb.freq > 0.03 {
				misses++
				continue
			}
			hits++
			absCents += math.Abs(res.Note.Cents)
		} else {
			negatives++
			if res.Status == tuner.StatusNote {
				falses++
			}
		}
	}

	m := evalMetrics{}
	if positives > 0 {
		m.missRate = float64(misses) / float64(positives)
	}
	if negatives > 0 {
		m.falseRate = float64(falses) / float64(negatives)
	}
	if hits > 0 {
		m.meanAbsCents = absCents / float64(hits)
	}
	m.score = m.missRate + m.falseRate + 0.2*m.meanAbsCents/50.0
	return m
}

func settingsFromKnobs(cand []float64) *preset.Settings {
	s := preset.NewDefaultSettings()
	s.Params.YinThreshold = cand[0]
	s.Params.GateMinThreshold = cand[1]
	s.Params.GateMaxThreshold = cand[2]
	return s
}

func fromNormalized(pos []float64) []float64 {
	vals := make([]float64, len(knobs))
	for i, d := range knobs {
		x := pos[i]
		if x < 0 {
			x = 0
		}
		if x > 1 {
			x = 1
		}
		vals[i] = d.Min + x*(d.Max-d.Min)
	}
	return vals
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func pow2(x float64) float64 {
	return math.Exp2(x)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
