// Package scoring implements quality/uniqueness/consistency/bypass-
// confidence scoring (spec §4.6), grounded on the teacher's indicator-list
// validators (core/internal/engine/google.go's IsBlocked/IsCaptcha),
// generalized from string-matching against HTML to field-consistency
// checks against a Fingerprint.
package scoring

import (
	"fmt"

	"fpsynth/internal/canvas"
	"fpsynth/internal/model"
)

// Scores is the four-score bundle attached to GenerationResult.Metadata.
type Scores struct {
	Quality         float64
	Uniqueness      float64
	Consistency     float64
	BypassConfidence float64
}

// Score computes all four scores and collects warnings from the three
// consistency sub-validators (spec §4.6). headerWarnings/tlsWarnings come
// from the derivation modules that already ran; seenBefore reports whether
// the cache's uniqueness gate has observed this fingerprint_hash before.
func Score(fp *model.Fingerprint, headerWarnings, tlsWarnings []string, seenBefore bool) (Scores, []string) {
	var warnings []string
	warnings = append(warnings, headerWarnings...)
	warnings = append(warnings, tlsWarnings...)

	headerScore, headerWarn := headerConsistency(fp)
	tlsScore, tlsWarn := tlsConsistency(fp)
	canvasScore, canvasWarn := canvasConsistency(fp)
	warnings = append(warnings, headerWarn...)
	warnings = append(warnings, tlsWarn...)
	warnings = append(warnings, canvasWarn...)

	consistency := (headerScore + tlsScore + canvasScore) / 3

	quality := qualityScore(fp, headerWarn)
	uniqueness := uniquenessScore(fp, seenBefore)
	bypass := 0.3*quality + 0.4*uniqueness + 0.3*consistency

	return Scores{
		Quality:          quality,
		Uniqueness:       uniqueness,
		Consistency:      consistency,
		BypassConfidence: bypass,
	}, warnings
}

func qualityScore(fp *model.Fingerprint, headerWarnings []string) float64 {
	base := fp.QualityScore
	if base == 0 {
		base = 0.9
	}

	headerConfidence := 1.0
	if len(headerWarnings) > 0 {
		headerConfidence = 0.6
	}

	tlsPresent := 0.6
	if fp.TLS != nil && fp.TLS.JA3Hash != "" {
		tlsPresent = 1.0
	}

	canvasConsistent := 0.6
	if fp.Canvas != nil {
		canvasConsistent = 1.0
	}

	return average(base, headerConfidence, tlsPresent, canvasConsistent)
}

func uniquenessScore(fp *model.Fingerprint, seenBefore bool) float64 {
	hashScore := 0.6
	if fp.FingerprintHash != "" {
		hashScore = 1.0
	}
	if seenBefore {
		hashScore = 0.6
	}

	headerUniqueness := 0.6
	if len(fp.Headers) > 0 {
		headerUniqueness = 1.0
	}

	ja3Score := 0.6
	if fp.TLS != nil && fp.TLS.JA3Hash != "" {
		ja3Score = 1.0
	}

	return average(hashScore, headerUniqueness, ja3Score)
}

// headerConsistency checks user-agent match, client-hint platform match,
// and presence of required headers (spec §4.6).
func headerConsistency(fp *model.Fingerprint) (float64, []string) {
	var warnings []string
	score := 1.0

	if ua, ok := fp.Headers["user-agent"]; ok && ua != fp.UserAgent {
		warnings = append(warnings, "user-agent header does not match fingerprint.user_agent")
		score -= 0.4
	}

	if chPlatform, ok := fp.Headers["sec-ch-ua-platform"]; ok {
		if chPlatform != "" && !platformTokenMatches(chPlatform, fp.Device.Platform.Name) {
			warnings = append(warnings, "sec-ch-ua-platform does not match device.platform.name")
			score -= 0.3
		}
	}

	for _, required := range []string{"user-agent", "accept", "accept-language", "accept-encoding"} {
		if fp.Headers[required] == "" {
			warnings = append(warnings, fmt.Sprintf("missing required header: %s", required))
			score -= 0.2
		}
	}

	return clamp(score), warnings
}

func platformTokenMatches(token, platformName string) bool {
	switch platformName {
	case "windows":
		return token == `"Windows"`
	case "macos":
		return token == `"macOS"`
	case "linux":
		return token == `"Linux"`
	case "android":
		return token == `"Android"`
	case "ios":
		return token == `"iOS"`
	default:
		return false
	}
}

// tlsConsistency checks for a safari-on-windows pairing and for H2 ALPN
// presence in modern browsers (spec §4.6). It does not compare the TLS
// version against the browser's major version.
func tlsConsistency(fp *model.Fingerprint) (float64, []string) {
	if fp.TLS == nil {
		return 0.6, nil
	}

	var warnings []string
	score := 1.0

	// The sampler normally cannot produce safari-on-windows; this check
	// exists so Testable Property 7 can force it via overrides.
	if fp.Browser.Name == "safari" && fp.Device.Platform.Name == "windows" {
		warnings = append(warnings, "safari browser reported on windows platform: physically inconsistent TLS/browser pairing")
		score -= 0.5
	}

	hasH2 := false
	for _, a := range fp.TLS.ALPN {
		if a == "h2" {
			hasH2 = true
		}
	}
	if !hasH2 && fp.Browser.MajorVersion >= 50 {
		warnings = append(warnings, "ALPN missing h2 for a browser where HTTP/2 is standard")
		score -= 0.3
	}

	return clamp(score), warnings
}

// canvasConsistency checks reported color-depth/pixel-ratio against the
// device screen and hardware_acceleration vs. device class (spec §4.6).
func canvasConsistency(fp *model.Fingerprint) (float64, []string) {
	if fp.Canvas == nil {
		return 0.6, nil
	}

	var warnings []string
	score := 1.0

	if fp.Canvas.RenderingQuality.ColorDepth != fp.Device.Screen.ColorDepth {
		warnings = append(warnings, "canvas color_depth does not match device.screen.color_depth")
		score -= 0.3
	}
	if fp.Canvas.RenderingQuality.PixelRatio != fp.Device.Screen.PixelRatio {
		warnings = append(warnings, "canvas pixel_ratio does not match device.screen.pixel_ratio")
		score -= 0.3
	}

	if fp.WebGL != nil {
		expected := canvas.HardwareAccelerationFor(fp.Device.Type, fp.WebGL.GPUInfo.MemoryMB)
		if fp.Canvas.RenderingQuality.HardwareAcceleration != expected {
			warnings = append(warnings, "canvas hardware_acceleration is inconsistent with device class and GPU profile")
			score -= 0.3
		}
	}

	return clamp(score), warnings
}

func average(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
