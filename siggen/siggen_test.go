package siggen

import (
	"math"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseLevel = 0.01

	a, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestGenerateLengthAndBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DurationS = 0.25
	cfg.Harmonics = 4
	cfg.HarmonicRolloff = 1.5
	cfg.NoiseLevel = 0.02

	out, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if want := int(0.25 * 44100); len(out) != want {
		t.Fatalf("length %d, want %d", len(out), want)
	}
	limit := cfg.Amplitude + cfg.NoiseLevel + 1e-6
	for i, s := range out {
		if math.Abs(float64(s)) > limit {
			t.Fatalf("sample %d = %g exceeds bound %g", i, s, limit)
		}
	}
}

func TestGeneratePureNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frequency = 0
	cfg.Amplitude = 0
	cfg.NoiseLevel = 0.1
	cfg.Seed = 7

	out, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	var nonZero bool
	for _, s := range out {
		if s != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("noise output is all zero")
	}
}

func TestGenerateValidation(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.SampleRate = 1000 },
		func(c *Config) { c.DurationS = 0 },
		func(c *Config) { c.Frequency = -1 },
		func(c *Config) { c.Frequency = float64(c.SampleRate) },
		func(c *Config) { c.Amplitude = -0.1 },
		func(c *Config) { c.Harmonics = 0 },
		func(c *Config) { c.HarmonicRolloff = 0 },
		func(c *Config) { c.NoiseLevel = -0.01 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		if _, err := Generate(cfg); err == nil {
			t.Fatalf("mutation %d: expected validation error", i)
		}
	}
}

func TestBlockExactSize(t *testing.T) {
	cfg := DefaultConfig()
	for _, size := range []int{512, 2048, 4097} {
		b, err := Block(cfg, size)
		if err != nil {
			t.Fatalf("Block(%d) failed: %v", size, err)
		}
		if len(b) != size {
			t.Fatalf("Block(%d) returned %d samples", size, len(b))
		}
	}
	if _, err := Block(cfg, 0); err == nil {
		t.Fatalf("expected error for zero block size")
	}
}
