package main

import (
	"github.com/cwbudde/algo-tuner/siggen"
)

// labeledBlock pairs one synthetic block with its ground truth
// fundamental; zero frequency marks a negative (no tone present).
type labeledBlock struct {
	block []float32
	freq  float64
}

// buildCorpus synthesizes tones across the playable range at two
// levels and two noise floors, plus tone-free negatives. Low notes
// whose period exceeds half the block are excluded: no detector
// setting can see them, so they carry no calibration signal.
func buildCorpus(seed int64, sampleRate, blockSize int) ([]labeledBlock, error) {
	var corpus []labeledBlock

	amps := []float64{0.3, 0.04}
	noises := []float64{0, 0.008}

	for midi := 33; midi <= 105; midi += 3 {
		freq := midiToFreq(midi)
		if float64(sampleRate)/freq >= float64(blockSize/2) {
			continue
		}
		for _, amp := range amps {
			for _, noise := range noises {
				cfg := siggen.Config{
					SampleRate:      sampleRate,
					Seed:            seed + int64(midi),
					Frequency:       freq,
					Amplitude:       amp,
					Harmonics:       3,
					HarmonicRolloff: 1.2,
					NoiseLevel:      noise,
				}
				block, err := siggen.Block(cfg, blockSize)
				if err != nil {
					return nil, err
				}
				corpus = append(corpus, labeledBlock{block: block, freq: freq})
			}
		}
	}

	// Negatives: silence plus two noise floors.
	corpus = append(corpus, labeledBlock{block: make([]float32, blockSize)})
	for i, level := range []float64{0.02, 0.2} {
		cfg := siggen.Config{
			SampleRate:      sampleRate,
			Seed:            seed + 10000 + int64(i),
			NoiseLevel:      level,
			Harmonics:       1,
			HarmonicRolloff: 1.0,
		}
		block, err := siggen.Block(cfg, blockSize)
		if err != nil {
			return nil, err
		}
		corpus = append(corpus, labeledBlock{block: block})
	}

	return corpus, nil
}

func midiToFreq(midi int) float64 {
	return 440.0 * pow2(float64(midi-69)/12.0)
}
