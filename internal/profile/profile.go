// Package profile implements the base-profile builder (spec §4.2): it
// turns a sampled network.Assignment into a populated model.Fingerprint.
package profile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"fpsynth/internal/model"
	"fpsynth/internal/network"
	"fpsynth/internal/tables"
)

const defaultResolution = "1920x1080"

// Build turns a sampled Assignment into a populated Fingerprint record,
// grounded on the teacher's FingerprintGenerator.Generate
// (core/internal/stealth/fingerprint.go).
func Build(assignment network.Assignment) *model.Fingerprint {
	browserName := assignment["browser"]
	versionLabel := assignment["browser_version"]
	majorVersion, _ := strconv.Atoi(versionLabel)
	deviceType := assignment["device"]
	platformName := assignment["platform"]
	resolution := assignment["screen_resolution"]
	if resolution == "" {
		resolution = defaultResolution
	}
	width, height := parseResolution(resolution)

	hardwareConcurrency := 4
	if hc, err := strconv.Atoi(assignment["hardware_concurrency"]); err == nil && hc > 0 {
		hardwareConcurrency = hc
	}

	def, ok := tables.PlatformDefaults[platformName]
	if !ok {
		def = tables.PlatformDefault{Version: "0", Architecture: "x64"}
	}

	platformToken := tables.PlatformToken(platformName, deviceType, def.Version, def.Architecture)
	userAgent := composeUserAgent(browserName, versionLabel, platformToken)

	fp := &model.Fingerprint{
		UserAgent: userAgent,
		Browser: model.Browser{
			Name:         browserName,
			Version:      versionLabel,
			MajorVersion: majorVersion,
		},
		Device: model.Device{
			Type: deviceType,
			Platform: model.Platform{
				Name:         platformName,
				Version:      def.Version,
				Architecture: def.Architecture,
			},
			Screen: model.Screen{
				Width:      width,
				Height:     height,
				ColorDepth: 24,
				PixelRatio: defaultPixelRatio(deviceType),
			},
			HardwareConcurrency: hardwareConcurrency,
			DeviceMemory:        tables.DeviceMemoryFor(hardwareConcurrency),
		},
		Locale: "en-US",
		Timezone: model.Timezone{
			Name:          "America/New_York",
			OffsetMinutes: -300,
			DSTObserved:   true,
		},
		Languages:         []string{"en-US", "en"},
		CookiesEnabled:    true,
		Plugins:           []model.Plugin{},
		MultimediaDevices: model.MultimediaDevices{Speakers: 2, Microphones: 1, Webcams: 0},
		Headers:           map[string]string{},
	}

	fp.FingerprintHash = fingerprintHash(fp, resolution)
	fp.QualityScore = 0.9

	return fp
}

func defaultPixelRatio(deviceType string) float64 {
	if deviceType == "mobile" || deviceType == "tablet" {
		return 3.0
	}
	return 1.0
}

// parseResolution parses the "WxH" label sampled by the network, defaulting
// to 1920x1080 when absent or malformed (spec §4.2).
func parseResolution(label string) (int, int) {
	parts := strings.SplitN(label, "x", 2)
	if len(parts) != 2 {
		return 1920, 1080
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 1920, 1080
	}
	return w, h
}

func composeUserAgent(browser, version, platformToken string) string {
	tmpl, ok := tables.UserAgentTemplates[browser]
	if !ok {
		tmpl = tables.UserAgentTemplates["chrome"]
	}
	return fmt.Sprintf(tmpl, platformToken, version)
}

// fingerprintHash computes the first 16 hex chars of SHA-256 over the
// canonical base-assignment string (spec §4.2).
func fingerprintHash(fp *model.Fingerprint, resolution string) string {
	raw := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		fp.Browser.Name, fp.Browser.Version, fp.Device.Type, fp.Device.Platform.Name, resolution, fp.Locale)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// Overrides is a partial Fingerprint applied after sampling (spec §6.1,
// §4.7 step 6). Only non-nil/non-empty fields are merged.
type Overrides struct {
	Browser   *model.Browser
	Locale    *string
	Languages []string
	Device    *model.Device
}

// Apply merges non-nil override fields onto fp. Browser and Device
// overrides replace the whole sub-record; their fields are not merged one
// by one. If Browser was overridden, user_agent is re-derived (spec §4.7
// step 6).
func Apply(fp *model.Fingerprint, overrides Overrides) {
	if overrides.Browser != nil {
		fp.Browser = *overrides.Browser
		def, ok := tables.PlatformDefaults[fp.Device.Platform.Name]
		if !ok {
			def = tables.PlatformDefault{Version: fp.Device.Platform.Version, Architecture: fp.Device.Platform.Architecture}
		}
		platformToken := tables.PlatformToken(fp.Device.Platform.Name, fp.Device.Type, def.Version, def.Architecture)
		fp.UserAgent = composeUserAgent(fp.Browser.Name, fp.Browser.Version, platformToken)
	}
	if overrides.Locale != nil {
		fp.Locale = *overrides.Locale
	}
	if len(overrides.Languages) > 0 {
		fp.Languages = overrides.Languages
	}
	if overrides.Device != nil {
		fp.Device = *overrides.Device
	}
}
