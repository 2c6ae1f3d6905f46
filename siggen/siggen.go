package siggen

import (
	"fmt"
	"math"
	"math/rand"
)

// Config controls synthetic test-tone generation.
type Config struct {
	SampleRate int
	DurationS  float64
	Seed       int64

	// Frequency of the fundamental in Hz. Zero produces pure noise.
	Frequency float64
	Amplitude float64

	// Harmonics above the fundamental; 1 means a pure sine. Partial k
	// is scaled by 1/k^HarmonicRolloff.
	Harmonics       int
	HarmonicRolloff float64

	// NoiseLevel mixes in uniform white noise at the given peak level.
	NoiseLevel float64
}

// DefaultConfig returns a clean A4 sine at 44.1 kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		DurationS:       0.5,
		Seed:            1,
		Frequency:       440.0,
		Amplitude:       0.5,
		Harmonics:       1,
		HarmonicRolloff: 1.0,
	}
}

func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.Frequency < 0 {
		return fmt.Errorf("frequency must be >= 0")
	}
	if c.Frequency > 0 && c.Frequency >= float64(c.SampleRate)/2 {
		return fmt.Errorf("frequency %g above Nyquist for rate %d", c.Frequency, c.SampleRate)
	}
	if c.Amplitude < 0 {
		return fmt.Errorf("amplitude must be >= 0")
	}
	if c.Harmonics < 1 {
		return fmt.Errorf("harmonics must be >= 1")
	}
	if c.HarmonicRolloff <= 0 {
		return fmt.Errorf("harmonic rolloff must be > 0")
	}
	if c.NoiseLevel < 0 {
		return fmt.Errorf("noise level must be >= 0")
	}
	return nil
}

// Generate synthesizes a mono block according to cfg. Output is
// deterministic for a given seed.
func Generate(cfg Config) ([]float32, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := int(math.Round(cfg.DurationS * float64(cfg.SampleRate)))
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)

	if cfg.Frequency > 0 && cfg.Amplitude > 0 {
		nyquist := float64(cfg.SampleRate) / 2
		var gainSum float64
		for k := 1; k <= cfg.Harmonics; k++ {
			f := cfg.Frequency * float64(k)
			if f >= nyquist {
				break
			}
			gain := 1.0 / math.Pow(float64(k), cfg.HarmonicRolloff)
			gainSum += gain
			w := 2 * math.Pi * f / float64(cfg.SampleRate)
			for i := 0; i < n; i++ {
				out[i] += gain * math.Sin(w*float64(i))
			}
		}
		if gainSum > 0 {
			scale := cfg.Amplitude / gainSum
			for i := range out {
				out[i] *= scale
			}
		}
	}

	if cfg.NoiseLevel > 0 {
		rng := rand.New(rand.NewSource(cfg.Seed))
		for i := range out {
			out[i] += cfg.NoiseLevel * (rng.Float64()*2 - 1)
		}
	}

	block := make([]float32, n)
	for i, v := range out {
		block[i] = float32(v)
	}
	return block, nil
}

// Block is a convenience wrapper generating exactly blockSize samples.
func Block(cfg Config, blockSize int) ([]float32, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("block size must be >= 1")
	}
	cfg.DurationS = float64(blockSize) / float64(cfg.SampleRate)
	b, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	if len(b) > blockSize {
		b = b[:blockSize]
	}
	for len(b) < blockSize {
		b = append(b, 0)
	}
	return b, nil
}
