package model

// BrowserConstraint restricts the browser node, optionally with a version
// range that resolves to a uniform integer in [min,max] (spec §4.1, §6.1).
type BrowserConstraint struct {
	Name       string `json:"name"`
	MinVersion int    `json:"min_version,omitempty"`
	MaxVersion int    `json:"max_version,omitempty"`
}

// OSConstraint restricts the platform node and carries the OS
// version/architecture the profile builder should attach (spec §6.1).
type OSConstraint struct {
	Name         string `json:"name"`
	Version      string `json:"version,omitempty"`
	Architecture string `json:"architecture,omitempty"`
}

// ScreenConstraint restricts the screen_resolution node (spec §6.1).
type ScreenConstraint struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	ColorDepth int `json:"color_depth,omitempty"`
}

// GenerationOptions is the library contract's input record (spec §6.1).
type GenerationOptions struct {
	Browsers          []BrowserConstraint `json:"browsers,omitempty"`
	Devices           []string            `json:"devices,omitempty"`
	OperatingSystems  []OSConstraint      `json:"operating_systems,omitempty"`
	ScreenResolutions []ScreenConstraint  `json:"screen_resolutions,omitempty"`
	Locales           []string            `json:"locales,omitempty"`
	HTTPVersion       string              `json:"http_version,omitempty"`
	IncludeHeaders    *bool               `json:"include_headers,omitempty"`
	IncludeTLS        *bool               `json:"include_tls,omitempty"`
	IncludeCanvas     *bool               `json:"include_canvas,omitempty"`
	HeaderOptions     *HeaderOptions      `json:"header_options,omitempty"`

	OverrideBrowser   *Browser `json:"override_browser,omitempty"`
	OverrideLocale    *string  `json:"override_locale,omitempty"`
	OverrideLanguages []string `json:"override_languages,omitempty"`
	OverrideDevice    *Device  `json:"override_device,omitempty"`

	ForceRegenerate bool    `json:"force_regenerate,omitempty"`
	RandomSeed      *uint64 `json:"random_seed,omitempty"`
}

func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// IncludeHeadersOrDefault reports whether headers derivation should run
// (default true, spec §6.1).
func (o GenerationOptions) IncludeHeadersOrDefault() bool { return boolOrDefault(o.IncludeHeaders, true) }

// IncludeTLSOrDefault reports whether TLS derivation should run (default
// true, spec §6.1).
func (o GenerationOptions) IncludeTLSOrDefault() bool { return boolOrDefault(o.IncludeTLS, true) }

// IncludeCanvasOrDefault reports whether canvas derivation should run
// (default true, spec §6.1).
func (o GenerationOptions) IncludeCanvasOrDefault() bool { return boolOrDefault(o.IncludeCanvas, true) }

// Metadata carries scores, warnings, and timing attached to a
// GenerationResult (spec §3.2, §4.6).
type Metadata struct {
	QualityScore         float64  `json:"quality_score"`
	UniquenessScore      float64  `json:"uniqueness_score"`
	ConsistencyScore     float64  `json:"consistency_score"`
	BypassConfidenceScore float64 `json:"bypass_confidence_score"`
	Warnings             []string `json:"warnings"`
	GenerationTimeMs     int64    `json:"generation_time_ms"`
	Timestamp            string   `json:"timestamp"`
	CacheHit             bool     `json:"cache_hit"`
}

// GenerationResult is the orchestrator's returned bundle (spec glossary).
type GenerationResult struct {
	Fingerprint *Fingerprint `json:"fingerprint"`
	Metadata    Metadata     `json:"metadata"`
}

// BatchSummary carries aggregate statistics for a GenerateBatch call
// (spec §4.7).
type BatchSummary struct {
	MeanQualityScore     float64 `json:"mean_quality_score"`
	MeanUniquenessScore  float64 `json:"mean_uniqueness_score"`
	MeanGenerationTimeMs float64 `json:"mean_generation_time_ms"`
	Timestamp            string  `json:"timestamp"`
	BatchID              string  `json:"batch_id"`
}

// BatchResult is generate_batch's return value (spec §6.1).
type BatchResult struct {
	Results []*GenerationResult `json:"results"`
	Summary BatchSummary        `json:"summary"`
}
