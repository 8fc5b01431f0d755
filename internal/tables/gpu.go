package tables

// GPUProfile is one candidate WebGL vendor/renderer pairing, grounded on
// the teacher's webGLConfigs literal table (core/internal/stealth/fingerprint.go).
type GPUProfile struct {
	Platform               string
	Vendor                 string
	Renderer               string
	Version                string
	ShadingLanguageVersion string
	MemoryMB               int
	Extensions             []string
}

var webglExtensionSet = []string{
	"EXT_color_buffer_float",
	"EXT_texture_filter_anisotropic",
	"OES_texture_float",
	"OES_texture_float_linear",
	"WEBGL_compressed_texture_s3tc",
	"WEBGL_debug_renderer_info",
	"WEBGL_lose_context",
}

// GPUProfiles is the embedded table of GPU profiles filtered by platform
// during canvas/WebGL derivation (spec §4.5).
var GPUProfiles = []GPUProfile{
	{Platform: "windows", Vendor: "Google Inc. (NVIDIA)", Renderer: "ANGLE (NVIDIA, NVIDIA GeForce GTX 1660 SUPER Direct3D11 vs_5_0 ps_5_0, D3D11)", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 6144, Extensions: webglExtensionSet},
	{Platform: "windows", Vendor: "Google Inc. (Intel)", Renderer: "ANGLE (Intel, Intel(R) UHD Graphics 630 Direct3D11 vs_5_0 ps_5_0, D3D11)", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 2048, Extensions: webglExtensionSet},
	{Platform: "windows", Vendor: "Google Inc. (AMD)", Renderer: "ANGLE (AMD, AMD Radeon RX 6600 Direct3D11 vs_5_0 ps_5_0, D3D11)", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 8192, Extensions: webglExtensionSet},
	{Platform: "macos", Vendor: "Apple Inc.", Renderer: "Apple M1", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 8192, Extensions: webglExtensionSet},
	{Platform: "macos", Vendor: "Apple Inc.", Renderer: "Apple M2 Pro", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 16384, Extensions: webglExtensionSet},
	{Platform: "linux", Vendor: "Mesa/X.org", Renderer: "Mesa Intel(R) UHD Graphics 620 (KBL GT2)", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 1536, Extensions: webglExtensionSet},
	{Platform: "android", Vendor: "Qualcomm", Renderer: "Adreno (TM) 730", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 4096, Extensions: webglExtensionSet},
	{Platform: "android", Vendor: "ARM", Renderer: "Mali-G78 MP14", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 3072, Extensions: webglExtensionSet},
	{Platform: "android", Vendor: "Qualcomm", Renderer: "Adreno (TM) 610", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 2048, Extensions: webglExtensionSet},
	{Platform: "ios", Vendor: "Apple Inc.", Renderer: "Apple GPU", Version: "WebGL 2.0", ShadingLanguageVersion: "WebGL GLSL ES 3.00", MemoryMB: 4096, Extensions: webglExtensionSet},
}

// GPUProfilesForPlatform filters the embedded table to a platform, falling
// back to the entire table if no match exists (spec §4.5).
func GPUProfilesForPlatform(platform string) []GPUProfile {
	var out []GPUProfile
	for _, p := range GPUProfiles {
		if p.Platform == platform {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return GPUProfiles
	}
	return out
}
