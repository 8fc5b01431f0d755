// Package canvas implements canvas/WebGL/audio/font derivation (spec
// §4.5), grounded on the teacher's generateCanvasHash/generateWebGLHash/
// generateAudioHash helpers (core/internal/stealth/fingerprint.go).
package canvas

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	groupcache "github.com/golang/groupcache/lru"

	"fpsynth/internal/model"
	"fpsynth/internal/rng"
	"fpsynth/internal/tables"
)

// gpuCacheCapacity bounds the LRU that caches the GPU profile chosen per
// {platform}:{device_type} key (spec §4.5).
const gpuCacheCapacity = 64

// Deriver owns the bounded GPU-profile cache built once at orchestrator
// construction and shared across calls under a mutex (spec §3.5,
// §5 "Shared resources").
type Deriver struct {
	mu       sync.Mutex
	gpuCache *groupcache.Cache
}

// NewDeriver constructs a Deriver with a fresh bounded GPU-profile cache.
func NewDeriver() *Deriver {
	return &Deriver{gpuCache: groupcache.New(gpuCacheCapacity)}
}

// Derive produces the canvas, webgl, audio, and fonts sub-records for a
// fingerprint, plus any validation warnings.
func (d *Deriver) Derive(fp *model.Fingerprint, source *rng.Source) (*model.Canvas, *model.WebGL, *model.Audio, *model.Fonts, []string) {
	var warnings []string

	platform := fp.Device.Platform.Name
	deviceType := fp.Device.Type
	baseKey := fmt.Sprintf("%s|%d|%s|%s", fp.Browser.Name, fp.Browser.MajorVersion, platform, deviceType)

	gpu := d.selectGPUProfile(platform, deviceType)

	canvasRecord := deriveCanvas(fp, baseKey, gpu)
	webglRecord := deriveWebGL(gpu, baseKey, platform)
	audioRecord, audioWarnings := deriveAudio(fp, baseKey)
	fontsRecord := deriveFonts(platform, source)

	warnings = append(warnings, audioWarnings...)

	return canvasRecord, webglRecord, audioRecord, fontsRecord, warnings
}

// selectGPUProfile filters the embedded GPU table by platform, then picks
// one profile via a deterministic SHA-256-modulo index, caching the result
// by "{platform}:{device_type}" (spec §4.5).
func (d *Deriver) selectGPUProfile(platform, deviceType string) tables.GPUProfile {
	cacheKey := platform + ":" + deviceType

	d.mu.Lock()
	defer d.mu.Unlock()

	if cached, ok := d.gpuCache.Get(cacheKey); ok {
		return cached.(tables.GPUProfile)
	}

	candidates := tables.GPUProfilesForPlatform(platform)
	idx := deterministicIndex(cacheKey, len(candidates))
	profile := candidates[idx]

	d.gpuCache.Add(cacheKey, profile)
	return profile
}

func deterministicIndex(key string, modulo int) int {
	if modulo <= 0 {
		return 0
	}
	sum := sha256.Sum256([]byte(key))
	v := binary.BigEndian.Uint32(sum[:4])
	return int(v % uint32(modulo))
}

func namespacedHash(namespace, key string) string {
	sum := sha256.Sum256([]byte(namespace + ":" + key))
	return hex.EncodeToString(sum[:])
}

// HardwareAccelerationFor reports whether canvas/WebGL rendering would be
// GPU-accelerated for a device class and the GPU profile backing it
// (spec §4.6 "hardware_acceleration consistent with device class"): always
// true on desktop, where a compositor-backed GPU path is the norm; on
// mobile/tablet it additionally requires the selected GPU profile to clear
// a modest memory floor, since low-end mobile GPUs commonly fall back to
// software compositing. Exported so scoring's canvas consistency check can
// recompute the same expectation without re-deriving canvas data.
func HardwareAccelerationFor(deviceType string, gpuMemoryMB int) bool {
	if deviceType == "desktop" {
		return true
	}
	return gpuMemoryMB >= 3072
}

func deriveCanvas(fp *model.Fingerprint, baseKey string, gpu tables.GPUProfile) *model.Canvas {
	root := namespacedHash("canvas", baseKey)
	rootBytes, _ := hex.DecodeString(root)

	return &model.Canvas{
		DataURL:       "data:image/png;base64," + base64.StdEncoding.EncodeToString(rootBytes),
		TextHash:      namespacedHash("canvas:text", baseKey),
		ShapesHash:    namespacedHash("canvas:shapes", baseKey),
		ImageHash:     namespacedHash("canvas:image", baseKey),
		GradientHash:  namespacedHash("canvas:gradient", baseKey),
		CompositeHash: namespacedHash("canvas:composite", baseKey),
		RenderingQuality: model.RenderingQuality{
			ColorDepth:           fp.Device.Screen.ColorDepth,
			PixelRatio:           fp.Device.Screen.PixelRatio,
			HardwareAcceleration: HardwareAccelerationFor(fp.Device.Type, gpu.MemoryMB),
		},
		TextRendering: model.TextRendering{
			Font:         "Arial",
			Baseline:     "alphabetic",
			Align:        "start",
			Antialiasing: true,
		},
		ShapeRendering: model.ShapeRendering{
			LineJoin:   "miter",
			LineCap:    "butt",
			MiterLimit: 10,
		},
	}
}

func deriveWebGL(gpu tables.GPUProfile, baseKey, platform string) *model.WebGL {
	vertexHash := namespacedHash("webgl:vertex", baseKey)
	fragmentHash := namespacedHash("webgl:fragment", baseKey)

	params := map[string]int{
		"MAX_TEXTURE_SIZE":                 rangedFromHash(baseKey, "max_texture_size", 4096, 16384),
		"MAX_VIEWPORT_DIMS":                rangedFromHash(baseKey, "max_viewport_dims", 8192, 32768),
		"MAX_VERTEX_ATTRIBS":               rangedFromHash(baseKey, "max_vertex_attribs", 16, 32),
		"MAX_COMBINED_TEXTURE_IMAGE_UNITS": rangedFromHash(baseKey, "max_combined_texture_image_units", 32, 192),
	}

	extensions := make([]string, len(gpu.Extensions))
	copy(extensions, gpu.Extensions)

	return &model.WebGL{
		Vendor:                 gpu.Vendor,
		Renderer:               gpu.Renderer,
		Version:                gpu.Version,
		ShadingLanguageVersion: gpu.ShadingLanguageVersion,
		Extensions:             extensions,
		Parameters:             params,
		VertexShaderHash:       vertexHash,
		FragmentShaderHash:     fragmentHash,
		GPUInfo: model.GPUInfo{
			Vendor:   gpu.Vendor,
			Renderer: gpu.Renderer,
			Platform: platform,
			MemoryMB: gpu.MemoryMB,
		},
	}
}

func rangedFromHash(key, component string, min, max int) int {
	sum := sha256.Sum256([]byte(component + ":" + key))
	v := binary.BigEndian.Uint32(sum[:4])
	span := uint32(max - min + 1)
	return min + int(v%span)
}

func deriveAudio(fp *model.Fingerprint, baseKey string) (*model.Audio, []string) {
	var warnings []string

	rates := []int{44100, 48000}
	if fp.Device.Type != "mobile" {
		rates = append(rates, 96000)
	}
	idx := fp.Browser.MajorVersion % len(rates)
	sampleRate := rates[idx]

	disabled := fp.Browser.MajorVersion > 0 && fp.Browser.MajorVersion < 60
	if disabled {
		warnings = append(warnings, fmt.Sprintf("%s major version %d is legacy: audio context disabled", fp.Browser.Name, fp.Browser.MajorVersion))
	}

	maxIn, maxOut := 2, 2
	if fp.Device.Type == "mobile" {
		maxIn = 1
	}

	return &model.Audio{
		SampleRate:     sampleRate,
		OscillatorHash: namespacedHash("audio:oscillator", baseKey),
		NoiseHash:      namespacedHash("audio:noise", baseKey),
		CompressorHash: namespacedHash("audio:compressor", baseKey),
		ContextFeatures: model.ContextFeatures{
			MaxChannelsInput:  maxIn,
			MaxChannelsOutput: maxOut,
			LatencyHint:       "interactive",
			Disabled:          disabled,
		},
	}, warnings
}

// deriveFonts samples a font subset independently per font: system fonts
// at probability 0.8, web fonts at 0.5, always keeping at least one font
// per category (spec §4.5).
func deriveFonts(platform string, source *rng.Source) *model.Fonts {
	catalog := tables.FontCatalogFor(platform)

	system := sampleSubset(catalog.SystemFonts, 0.8, source)
	web := sampleSubset(catalog.WebFonts, 0.5, source)

	detected := append(append([]string{}, system...), web...)
	support := map[string]bool{}
	for _, f := range catalog.SystemFonts {
		support[f] = false
	}
	for _, f := range catalog.WebFonts {
		support[f] = false
	}
	for _, f := range detected {
		support[f] = true
	}

	sortedDetected := append([]string{}, detected...)
	sort.Strings(sortedDetected)
	signature := namespacedHash("fonts:signature", strings.Join(sortedDetected, "|"))

	return &model.Fonts{
		SystemFonts:   catalog.SystemFonts,
		WebFonts:      catalog.WebFonts,
		Detected:      detected,
		Total:         len(detected),
		FontSignature: signature,
		FontSupport:   support,
	}
}

func sampleSubset(fonts []string, probability float64, source *rng.Source) []string {
	if len(fonts) == 0 {
		return nil
	}
	var chosen []string
	for _, f := range fonts {
		if source.Bernoulli(probability) {
			chosen = append(chosen, f)
		}
	}
	if len(chosen) == 0 {
		chosen = append(chosen, fonts[0])
	}
	return chosen
}
