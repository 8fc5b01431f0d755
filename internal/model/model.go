// Package model defines the shared data records described in the data
// model (Fingerprint, TLS, canvas/WebGL/audio/fonts) so that the base
// profile builder and the three derivation modules can populate one record
// without importing each other.
package model

// Browser is the `browser` sub-record of a Fingerprint (spec §3.2).
type Browser struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	MajorVersion int    `json:"major_version"`
}

// Platform is the device's `platform` sub-record.
type Platform struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Architecture string `json:"architecture"`
}

// Screen is the device's `screen` sub-record.
type Screen struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ColorDepth  int     `json:"color_depth"`
	PixelRatio  float64 `json:"pixel_ratio"`
}

// Device is the `device` sub-record (spec §3.2).
type Device struct {
	Type                string   `json:"type"`
	Platform            Platform `json:"platform"`
	Screen              Screen   `json:"screen"`
	HardwareConcurrency int      `json:"hardware_concurrency"`
	DeviceMemory        int      `json:"device_memory"`
}

// Timezone is the `timezone` sub-record.
type Timezone struct {
	Name          string `json:"name"`
	OffsetMinutes int    `json:"offset_minutes"`
	DSTObserved   bool   `json:"dst_observed"`
}

// Plugin is one entry of the `plugins` list.
type Plugin struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Version     string `json:"version"`
}

// MultimediaDevices is the `multimedia_devices` sub-record.
type MultimediaDevices struct {
	Speakers    int `json:"speakers"`
	Microphones int `json:"microphones"`
	Webcams     int `json:"webcams"`
}

// Http2Settings mirrors the TLS record's http2_settings sub-record
// (spec §3.3).
type Http2Settings struct {
	HeaderTableSize      uint32 `json:"header_table_size"`
	EnablePush           bool   `json:"enable_push"`
	MaxConcurrentStreams uint32 `json:"max_concurrent_streams"`
	InitialWindowSize    uint32 `json:"initial_window_size"`
	MaxFrameSize         uint32 `json:"max_frame_size"`
	MaxHeaderListSize    uint32 `json:"max_header_list_size"`
}

// TLS is the TLS record (spec §3.3).
type TLS struct {
	Version             string        `json:"version"`
	Ciphers             []string      `json:"ciphers"`
	Extensions          []string      `json:"extensions"`
	SupportedVersions   []string      `json:"supported_versions"`
	SignatureAlgorithms []string      `json:"signature_algorithms"`
	KeyShares           []string      `json:"key_shares"`
	ALPN                []string      `json:"alpn"`
	JA3Hash             string        `json:"ja3_hash"`
	JA4Hash             string        `json:"ja4_hash"`
	SSLVersion          string        `json:"ssl_version"`
	CipherSuite         string        `json:"cipher_suite"`
	Http2Settings       Http2Settings `json:"http2_settings"`
}

// RenderingQuality is canvas's `renderingQuality` sub-record.
type RenderingQuality struct {
	ColorDepth          int     `json:"color_depth"`
	PixelRatio          float64 `json:"pixel_ratio"`
	HardwareAcceleration bool   `json:"hardware_acceleration"`
}

// TextRendering is canvas's `textRendering` sub-record.
type TextRendering struct {
	Font         string `json:"font"`
	Baseline     string `json:"baseline"`
	Align        string `json:"align"`
	Antialiasing bool   `json:"antialiasing"`
}

// ShapeRendering is canvas's `shapeRendering` sub-record.
type ShapeRendering struct {
	LineJoin   string  `json:"line_join"`
	LineCap    string  `json:"line_cap"`
	MiterLimit float64 `json:"miter_limit"`
}

// Canvas is the `canvas` sub-record (spec §3.4).
type Canvas struct {
	DataURL          string           `json:"data_url"`
	TextHash         string           `json:"text_hash"`
	ShapesHash       string           `json:"shapes_hash"`
	ImageHash        string           `json:"image_hash"`
	GradientHash     string           `json:"gradient_hash"`
	CompositeHash    string           `json:"composite_hash"`
	RenderingQuality RenderingQuality `json:"rendering_quality"`
	TextRendering    TextRendering    `json:"text_rendering"`
	ShapeRendering   ShapeRendering   `json:"shape_rendering"`
}

// GPUInfo is WebGL's `gpu_info` sub-record.
type GPUInfo struct {
	Vendor   string `json:"vendor"`
	Renderer string `json:"renderer"`
	Platform string `json:"platform"`
	MemoryMB int    `json:"memory_mb"`
}

// WebGL is the `webgl` sub-record (spec §3.4).
type WebGL struct {
	Vendor                 string            `json:"vendor"`
	Renderer               string            `json:"renderer"`
	Version                string            `json:"version"`
	ShadingLanguageVersion string            `json:"shading_language_version"`
	Extensions             []string          `json:"extensions"`
	Parameters             map[string]int    `json:"parameters"`
	VertexShaderHash       string            `json:"vertex_shader_hash"`
	FragmentShaderHash     string            `json:"fragment_shader_hash"`
	GPUInfo                GPUInfo           `json:"gpu_info"`
}

// ContextFeatures is audio's `context_features` sub-record.
type ContextFeatures struct {
	MaxChannelsInput  int    `json:"max_channels_input"`
	MaxChannelsOutput int    `json:"max_channels_output"`
	LatencyHint       string `json:"latency_hint"`
	Disabled          bool   `json:"disabled"`
}

// Audio is the `audio` sub-record (spec §3.4).
type Audio struct {
	SampleRate      int             `json:"sample_rate"`
	OscillatorHash  string          `json:"oscillator_hash"`
	NoiseHash       string          `json:"noise_hash"`
	CompressorHash  string          `json:"compressor_hash"`
	ContextFeatures ContextFeatures `json:"context_features"`
}

// Fonts is the `fonts` sub-record (spec §3.4).
type Fonts struct {
	SystemFonts   []string        `json:"system_fonts"`
	WebFonts      []string        `json:"web_fonts"`
	Detected      []string        `json:"detected"`
	Total         int             `json:"total"`
	FontSignature string          `json:"font_signature"`
	FontSupport   map[string]bool `json:"font_support"`
}

// Fingerprint is the full output record (spec §3.2), progressively
// enriched by the base-profile builder and the three derivation modules.
type Fingerprint struct {
	UserAgent          string            `json:"user_agent"`
	Browser            Browser           `json:"browser"`
	Device             Device            `json:"device"`
	Locale             string            `json:"locale"`
	Timezone           Timezone          `json:"timezone"`
	Languages          []string          `json:"languages"`
	CookiesEnabled     bool              `json:"cookies_enabled"`
	Plugins            []Plugin          `json:"plugins"`
	MultimediaDevices  MultimediaDevices `json:"multimedia_devices"`
	Headers            map[string]string `json:"headers"`
	TLS                *TLS              `json:"tls,omitempty"`
	Canvas             *Canvas           `json:"canvas,omitempty"`
	WebGL              *WebGL            `json:"webgl,omitempty"`
	Audio              *Audio            `json:"audio,omitempty"`
	Fonts              *Fonts            `json:"fonts,omitempty"`
	FingerprintHash    string            `json:"fingerprint_hash"`
	QualityScore       float64           `json:"quality_score"`
	GenerationTimeMs   int64             `json:"generation_time_ms"`
	Timestamp          string            `json:"timestamp"`
}

// HeaderOptions configures headers derivation (spec §4.3).
type HeaderOptions struct {
	RequestType         string `json:"request_type"`
	ResourceType        string `json:"resource_type"`
	IncludeClientHints   bool   `json:"include_client_hints"`
	IncludeDNT          bool   `json:"include_dnt"`
	HTTPVersion         string `json:"http_version"`
}

// DefaultHeaderOptions returns the "sensible defaults" spec §6.1 specifies.
func DefaultHeaderOptions() HeaderOptions {
	return HeaderOptions{
		RequestType:        "navigate",
		ResourceType:       "document",
		IncludeClientHints:  true,
		IncludeDNT:         false,
		HTTPVersion:        "2",
	}
}
