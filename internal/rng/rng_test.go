package rng

import (
	"math"
	"testing"
)

func TestNewDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 50; i++ {
		ua := a.NextUniform()
		ub := b.NextUniform()
		if ua != ub {
			t.Fatalf("draw %d diverged: %v != %v", i, ua, ub)
		}
	}
}

func TestNextUniformRange(t *testing.T) {
	s := New(1)

	for i := 0; i < 1000; i++ {
		u := s.NextUniform()
		if u < 0 || u >= 1 {
			t.Fatalf("draw %d out of range [0,1): %v", i, u)
		}
	}
}

func TestDeriveIndependentButDeterministic(t *testing.T) {
	parent := New(7)
	a := parent.Derive("headers")

	parent2 := New(7)
	b := parent2.Derive("headers")

	if a.NextUniform() != b.NextUniform() {
		t.Error("same parent seed and salt should derive identical substreams")
	}

	parent3 := New(7)
	c := parent3.Derive("tls")
	if c == nil {
		t.Fatal("Derive returned nil")
	}
}

func TestDeriveDiffersBySalt(t *testing.T) {
	parent := New(7)
	headers := parent.Derive("headers")

	parent2 := New(7)
	tls := parent2.Derive("tls")

	if headers.NextUniform() == tls.NextUniform() {
		t.Error("different salts should not collide on the first draw")
	}
}

func TestNextIntRange(t *testing.T) {
	s := New(99)

	for i := 0; i < 200; i++ {
		v := s.NextIntRange(10, 15)
		if v < 10 || v > 15 {
			t.Errorf("NextIntRange out of bounds: %d", v)
		}
	}

	if v := s.NextIntRange(5, 5); v != 5 {
		t.Errorf("degenerate range should return min, got %d", v)
	}
}

func TestCategoricalSumsToKnownLabel(t *testing.T) {
	s := New(3)
	labels := []string{"a", "b", "c"}
	weights := []float64{0.2, 0.3, 0.5}

	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		label := s.Categorical(labels, weights)
		counts[label]++
	}

	for _, l := range labels {
		if counts[l] == 0 {
			t.Errorf("label %q was never drawn in 2000 samples", l)
		}
	}

	// "c" has the largest weight, so it should be drawn most often.
	if counts["c"] <= counts["a"] || counts["c"] <= counts["b"] {
		t.Errorf("expected %q (weight 0.5) to dominate, got counts=%v", "c", counts)
	}
}

func TestCategoricalEmptyLabels(t *testing.T) {
	s := New(1)
	if got := s.Categorical(nil, nil); got != "" {
		t.Errorf("empty label set should return empty string, got %q", got)
	}
}

func TestGaussianRoughlyCentered(t *testing.T) {
	s := New(55)
	mean := 8.0
	variance := 4.0

	var total float64
	const n = 5000
	for i := 0; i < n; i++ {
		total += s.Gaussian(mean, variance)
	}
	avg := total / n

	stddev := math.Sqrt(variance)
	if math.Abs(avg-mean) > 2*stddev {
		t.Errorf("average gaussian draw = %v, expected near %v (±%v)", avg, mean, 2*stddev)
	}
}

func TestBernoulliBounds(t *testing.T) {
	s := New(21)

	trueCount := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if s.Bernoulli(0.8) {
			trueCount++
		}
	}

	ratio := float64(trueCount) / n
	if ratio < 0.7 || ratio > 0.9 {
		t.Errorf("Bernoulli(0.8) true ratio = %v, want roughly 0.8", ratio)
	}
}
