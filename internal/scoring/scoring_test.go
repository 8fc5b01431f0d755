package scoring

import (
	"testing"

	"fpsynth/internal/model"
)

func goodFingerprint() *model.Fingerprint {
	return &model.Fingerprint{
		UserAgent:       "Mozilla/5.0 Chrome/120.0.0.0",
		FingerprintHash: "abcdef0123456789",
		QualityScore:    0.9,
		Browser:         model.Browser{Name: "chrome", MajorVersion: 120},
		Device: model.Device{
			Type:     "desktop",
			Platform: model.Platform{Name: "windows"},
			Screen:   model.Screen{ColorDepth: 24, PixelRatio: 1.0},
		},
		Headers: map[string]string{
			"user-agent":         "Mozilla/5.0 Chrome/120.0.0.0",
			"accept":             "text/html",
			"accept-language":    "en-US",
			"accept-encoding":    "gzip",
			"sec-ch-ua-platform": `"Windows"`,
		},
		TLS: &model.TLS{JA3Hash: "deadbeef", ALPN: []string{"h2", "http/1.1"}},
		Canvas: &model.Canvas{
			RenderingQuality: model.RenderingQuality{ColorDepth: 24, PixelRatio: 1.0},
		},
	}
}

func TestScoreAllInRange(t *testing.T) {
	scores, _ := Score(goodFingerprint(), nil, nil, false)

	for name, v := range map[string]float64{
		"quality":     scores.Quality,
		"uniqueness":  scores.Uniqueness,
		"consistency": scores.Consistency,
		"bypass":      scores.BypassConfidence,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s score out of [0,1]: %v", name, v)
		}
	}
}

func TestScoreGoodFingerprintIsHighQuality(t *testing.T) {
	scores, warnings := Score(goodFingerprint(), nil, nil, false)
	if scores.Quality < 0.85 {
		t.Errorf("quality score = %v, want >= 0.85 for a consistent fingerprint", scores.Quality)
	}
	if len(warnings) != 0 {
		t.Errorf("consistent fingerprint should have no warnings, got %v", warnings)
	}
}

func TestScoreDetectsSafariOnWindowsImpossibility(t *testing.T) {
	fp := goodFingerprint()
	fp.Browser.Name = "safari"
	fp.Device.Platform.Name = "windows"

	scores, warnings := Score(fp, nil, nil, false)

	if scores.Consistency >= 1.0 {
		t.Errorf("safari-on-windows should reduce consistency, got %v", scores.Consistency)
	}

	found := false
	for _, w := range warnings {
		if w == "safari browser reported on windows platform: physically inconsistent TLS/browser pairing" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected safari-on-windows warning, got %v", warnings)
	}
}

func TestScoreDetectsMismatchedCanvasColorDepth(t *testing.T) {
	fp := goodFingerprint()
	fp.Canvas.RenderingQuality.ColorDepth = 8

	scores, warnings := Score(fp, nil, nil, false)
	if scores.Consistency >= 1.0 {
		t.Errorf("mismatched canvas color depth should reduce consistency, got %v", scores.Consistency)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for mismatched canvas color depth")
	}
}

func TestScoreDetectsHardwareAccelerationMismatch(t *testing.T) {
	fp := goodFingerprint()
	fp.Device.Type = "mobile"
	fp.WebGL = &model.WebGL{GPUInfo: model.GPUInfo{MemoryMB: 2048}}
	fp.Canvas.RenderingQuality.HardwareAcceleration = true

	scores, warnings := Score(fp, nil, nil, false)
	if scores.Consistency >= 1.0 {
		t.Errorf("mismatched hardware_acceleration should reduce consistency, got %v", scores.Consistency)
	}

	found := false
	for _, w := range warnings {
		if w == "canvas hardware_acceleration is inconsistent with device class and GPU profile" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected hardware_acceleration mismatch warning, got %v", warnings)
	}
}

func TestScoreAcceptsConsistentHardwareAcceleration(t *testing.T) {
	fp := goodFingerprint()
	fp.WebGL = &model.WebGL{GPUInfo: model.GPUInfo{MemoryMB: 8192}}
	fp.Canvas.RenderingQuality.HardwareAcceleration = true

	_, warnings := Score(fp, nil, nil, false)
	if len(warnings) != 0 {
		t.Errorf("desktop fingerprint with hardware_acceleration=true should have no warnings, got %v", warnings)
	}
}

func TestScoreSeenBeforeReducesUniqueness(t *testing.T) {
	fresh, _ := Score(goodFingerprint(), nil, nil, false)
	repeat, _ := Score(goodFingerprint(), nil, nil, true)

	if repeat.Uniqueness >= fresh.Uniqueness {
		t.Errorf("seen-before fingerprint should score lower uniqueness: fresh=%v repeat=%v", fresh.Uniqueness, repeat.Uniqueness)
	}
}

func TestScoreMissingTLSLowersQuality(t *testing.T) {
	withTLS, _ := Score(goodFingerprint(), nil, nil, false)

	fp := goodFingerprint()
	fp.TLS = nil
	withoutTLS, _ := Score(fp, nil, nil, false)

	if withoutTLS.Quality >= withTLS.Quality {
		t.Errorf("missing TLS should reduce quality: with=%v without=%v", withTLS.Quality, withoutTLS.Quality)
	}
}
