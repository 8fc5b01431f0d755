package network

import (
	"errors"
	"strconv"
	"testing"

	"fpsynth/internal/rng"
)

func simpleNetwork(t *testing.T) *Network {
	nodes := []*Node{
		{
			Name: "browser",
			Kind: Categorical,
			Distribution: Distribution{
				Unconditional: &CategoricalRow{
					Labels:  []string{"chrome", "firefox", "safari"},
					Weights: []float64{0.5, 0.3, 0.2},
				},
			},
		},
		{
			Name:    "device",
			Kind:    Categorical,
			Parents: []string{"browser"},
			Distribution: Distribution{
				Conditional: []ConditionalCategorical{
					{Key: "chrome", Row: CategoricalRow{Labels: []string{"desktop", "mobile"}, Weights: []float64{0.7, 0.3}}},
					{Key: "firefox", Row: CategoricalRow{Labels: []string{"desktop"}, Weights: []float64{1.0}}},
				},
			},
		},
		{
			Name: "hardware_concurrency",
			Kind: Numerical,
			Distribution: Distribution{
				UnconditionalGaussian: &GaussianRow{Mean: 8, Variance: 4, Min: 1, Max: 32},
			},
		},
	}

	net, err := NewNetwork(nodes)
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	return net
}

func TestNewNetworkRejectsBadProbabilityMass(t *testing.T) {
	nodes := []*Node{
		{
			Name: "browser",
			Kind: Categorical,
			Distribution: Distribution{
				Unconditional: &CategoricalRow{
					Labels:  []string{"chrome", "firefox"},
					Weights: []float64{0.5, 0.6},
				},
			},
		},
	}

	_, err := NewNetwork(nodes)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewNetworkRejectsCycle(t *testing.T) {
	nodes := []*Node{
		{Name: "a", Kind: Categorical, Parents: []string{"b"}, Distribution: Distribution{Conditional: []ConditionalCategorical{{Key: "x", Row: CategoricalRow{Labels: []string{"y"}, Weights: []float64{1}}}}}},
		{Name: "b", Kind: Categorical, Parents: []string{"a"}, Distribution: Distribution{Conditional: []ConditionalCategorical{{Key: "y", Row: CategoricalRow{Labels: []string{"x"}, Weights: []float64{1}}}}}},
	}

	_, err := NewNetwork(nodes)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for cycle, got %v", err)
	}
}

func TestNewNetworkRejectsUnknownParent(t *testing.T) {
	nodes := []*Node{
		{Name: "a", Kind: Categorical, Parents: []string{"ghost"}, Distribution: Distribution{
			Conditional: []ConditionalCategorical{{Key: "x", Row: CategoricalRow{Labels: []string{"y"}, Weights: []float64{1}}}},
		}},
	}

	if _, err := NewNetwork(nodes); err == nil {
		t.Fatal("expected error for unknown parent")
	}
}

func TestSampleDeterministic(t *testing.T) {
	net := simpleNetwork(t)

	a1, _, err := net.Sample(rng.New(42), Assignment{})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	a2, _, err := net.Sample(rng.New(42), Assignment{})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	for k, v := range a1 {
		if a2[k] != v {
			t.Errorf("node %q diverged across identical seeds: %q vs %q", k, v, a2[k])
		}
	}
}

func TestSampleHonoursEvidence(t *testing.T) {
	net := simpleNetwork(t)

	a, _, err := net.Sample(rng.New(1), Assignment{"browser": "firefox"})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if a["browser"] != "firefox" {
		t.Errorf("browser = %q, want firefox", a["browser"])
	}
	if a["device"] != "desktop" {
		t.Errorf("device = %q, want desktop (firefox's only row)", a["device"])
	}
}

func TestSampleRejectsInvalidEvidence(t *testing.T) {
	net := simpleNetwork(t)

	_, _, err := net.Sample(rng.New(1), Assignment{"browser": "opera"})
	var invErr *InvalidEvidence
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidEvidence, got %v", err)
	}
}

func TestSampleRejectsUnknownNode(t *testing.T) {
	net := simpleNetwork(t)

	_, _, err := net.Sample(rng.New(1), Assignment{"nonexistent": "x"})
	var invErr *InvalidEvidence
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidEvidence for unknown node, got %v", err)
	}
}

func TestSampleGaussianClamped(t *testing.T) {
	net := simpleNetwork(t)

	for i := 0; i < 200; i++ {
		a, _, err := net.Sample(rng.New(uint64(i)), Assignment{})
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		hc := a["hardware_concurrency"]
		if hc == "" {
			t.Fatal("hardware_concurrency not assigned")
		}
		v, err := strconv.Atoi(hc)
		if err != nil || v < 1 || v > 32 {
			t.Errorf("seed %d: hardware_concurrency = %q, want an integer in [1, 32]", i, hc)
		}
	}
}

func TestTopologicalOrderRespectsParents(t *testing.T) {
	net := simpleNetwork(t)
	order := net.TopologicalOrder()

	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}

	if pos["browser"] >= pos["device"] {
		t.Errorf("browser should precede device in topological order, got %v", order)
	}
}

func TestMissingDistributionFallsBackToFirstRow(t *testing.T) {
	net := simpleNetwork(t)

	// "safari" has no explicit row in the device CPT, so the fallback
	// ("first declared row") should apply instead of failing.
	a, warnings, err := net.Sample(rng.New(5), Assignment{"browser": "safari"})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if a["device"] == "" {
		t.Error("device should still be assigned via fallback")
	}
	if len(warnings) == 0 {
		t.Error("expected a fallback warning")
	}
}
