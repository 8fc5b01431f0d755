package generator

import (
	"testing"

	"fpsynth/internal/model"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.CacheCapacity = 64
	cfg.BloomExpectedItems = 1000
	cfg.BloomFalsePositiveRate = 0.01
	return cfg
}

func TestGenerateProducesCompleteFingerprint(t *testing.T) {
	o, err := NewOrchestrator(testConfig())
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}

	result, err := o.Generate(model.GenerationOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	fp := result.Fingerprint
	if fp.UserAgent == "" {
		t.Error("expected non-empty user_agent")
	}
	if fp.TLS == nil {
		t.Error("expected TLS to be derived by default")
	}
	if fp.Canvas == nil || fp.WebGL == nil || fp.Audio == nil || fp.Fonts == nil {
		t.Error("expected canvas/webgl/audio/fonts to be derived by default")
	}
	if len(fp.Headers) == 0 {
		t.Error("expected headers to be derived by default")
	}
	if fp.GenerationTimeMs < 1 {
		t.Errorf("generation_time_ms = %d, want >= 1", fp.GenerationTimeMs)
	}
	if result.Metadata.QualityScore <= 0 {
		t.Error("expected a positive quality score")
	}
}

// TestGenerateDeterministicAcrossFreshOrchestrators is Testable Property 1:
// two freshly constructed orchestrators sharing a seed and a per-call
// random_seed override produce byte-identical fingerprint hashes.
func TestGenerateDeterministicAcrossFreshOrchestrators(t *testing.T) {
	seed := uint64(7)
	opts := model.GenerationOptions{RandomSeed: &seed}

	o1, _ := NewOrchestrator(testConfig())
	o2, _ := NewOrchestrator(testConfig())

	r1, err := o1.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	r2, err := o2.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if r1.Fingerprint.FingerprintHash != r2.Fingerprint.FingerprintHash {
		t.Errorf("expected identical fingerprint hashes for same seed, got %q vs %q",
			r1.Fingerprint.FingerprintHash, r2.Fingerprint.FingerprintHash)
	}
	if r1.Fingerprint.TLS.JA3Hash != r2.Fingerprint.TLS.JA3Hash {
		t.Error("expected identical JA3 hashes for same seed")
	}
}

// TestGenerateHonoursBrowserConstraint is part of Testable Property 2:
// evidence realized from FingerprintConstraints is never overridden by the
// sampler.
func TestGenerateHonoursBrowserConstraint(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	opts := model.GenerationOptions{
		Browsers: []model.BrowserConstraint{{Name: "firefox"}},
	}

	for i := 0; i < 10; i++ {
		result, err := o.Generate(opts)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if result.Fingerprint.Browser.Name != "firefox" {
			t.Fatalf("expected firefox, got %q", result.Fingerprint.Browser.Name)
		}
	}
}

// TestGenerateRejectsImpossibleConstraintCombination covers scenario S6:
// restricting to safari on windows is a contradiction the orchestrator
// catches before sampling.
func TestGenerateRejectsImpossibleConstraintCombination(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	opts := model.GenerationOptions{
		Browsers:         []model.BrowserConstraint{{Name: "safari"}},
		OperatingSystems: []model.OSConstraint{{Name: "windows"}},
	}

	_, err := o.Generate(opts)
	if err == nil {
		t.Fatal("expected an error for safari+windows constraint combination")
	}
	if _, ok := err.(*InvalidConstraint); !ok {
		t.Errorf("expected *InvalidConstraint, got %T: %v", err, err)
	}
}

// TestGenerateOverrideBypassesConstraintCheck demonstrates that an explicit
// override (applied after sampling) can still produce a physically
// inconsistent pairing — caught by scoring's consistency check rather than
// rejected outright, per Testable Property 7 / scenario S6's alternative
// resolution.
func TestGenerateOverrideBypassesConstraintCheck(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	opts := model.GenerationOptions{
		OperatingSystems: []model.OSConstraint{{Name: "windows"}},
		OverrideBrowser:  &model.Browser{Name: "safari", Version: "17", MajorVersion: 17},
	}

	result, err := o.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Fingerprint.Browser.Name != "safari" {
		t.Fatalf("expected override to win, got %q", result.Fingerprint.Browser.Name)
	}
	if result.Metadata.ConsistencyScore >= 1.0 {
		t.Errorf("expected consistency score below 1.0 for safari-on-windows, got %v", result.Metadata.ConsistencyScore)
	}
}

// TestGenerateCachesResult covers the cache round-trip (spec §4.7 step 2,
// Testable Property 5): a repeated call with identical options and no
// force_regenerate returns the exact same object.
func TestGenerateCachesResult(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	opts := model.GenerationOptions{Devices: []string{"desktop"}}

	first, err := o.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := o.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if first != second {
		t.Error("expected a cache hit to return the same GenerationResult object")
	}
}

// TestGenerateForceRegenerateBypassesCache covers force_regenerate (spec
// §6.1): repeated calls with force_regenerate never short-circuit on the
// cache, even though both calls may still land on the same RNG substream
// path across separately-seeded calls.
func TestGenerateForceRegenerateBypassesCache(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	seed := uint64(99)
	opts := model.GenerationOptions{ForceRegenerate: true, RandomSeed: &seed}

	first, err := o.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := o.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if first == second {
		t.Error("force_regenerate should never return the cached object pointer")
	}
	// Same seed still produces identical content even though it's a fresh object.
	if first.Fingerprint.FingerprintHash != second.Fingerprint.FingerprintHash {
		t.Error("same random_seed should still reproduce the same fingerprint hash")
	}
}

func TestGenerateBatchProducesNResults(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	batch, err := o.GenerateBatch(5, model.GenerationOptions{})
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if len(batch.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(batch.Results))
	}
	for i, r := range batch.Results {
		if r == nil {
			t.Errorf("result %d is nil", i)
		}
	}
	if batch.Summary.MeanQualityScore <= 0 {
		t.Error("expected a positive mean quality score")
	}
}

// TestGenerateBatchProducesDiverseFingerprints covers scenario S5: many
// fingerprints from a single unconstrained batch should not all collapse
// to the same browser/device pairing.
func TestGenerateBatchProducesDiverseFingerprints(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	batch, err := o.GenerateBatch(30, model.GenerationOptions{})
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}

	seen := map[string]bool{}
	for _, r := range batch.Results {
		seen[r.Fingerprint.Browser.Name+":"+r.Fingerprint.Device.Type] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected diversity across 30 unconstrained draws, got only %d distinct (browser,device) pairs", len(seen))
	}
}

func TestGenerateBatchZeroReturnsEmptyResult(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())

	batch, err := o.GenerateBatch(0, model.GenerationOptions{})
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if len(batch.Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(batch.Results))
	}
}

func TestUpdateProbabilitiesIsNoop(t *testing.T) {
	o, _ := NewOrchestrator(testConfig())
	if err := o.UpdateProbabilities([]*model.Fingerprint{{}}); err != nil {
		t.Errorf("expected UpdateProbabilities to always succeed, got %v", err)
	}
}
