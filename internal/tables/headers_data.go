package tables

import "fmt"

// ChromiumFamily reports whether a browser belongs to the Chromium family,
// gating both Client Hints and brotli support (spec §4.3).
var ChromiumFamily = map[string]bool{
	"chrome":  true,
	"edge":    true,
	"opera":   true,
	"firefox": false,
	"safari":  false,
}

// FirefoxBrotliMinVersion is the declared Firefox version threshold at or
// above which Accept-Encoding may include "br" (spec §4.3: "Firefox ≥ a declared
// threshold"). Safari never advertises brotli in this table.
const FirefoxBrotliMinVersion = 65

// SupportsBrotli implements the per-browser brotli-in-Accept-Encoding rule
// (spec §4.3).
func SupportsBrotli(browser string, majorVersion int) bool {
	switch browser {
	case "safari":
		return false
	case "firefox":
		return majorVersion >= FirefoxBrotliMinVersion
	default:
		return ChromiumFamily[browser]
	}
}

// SecChUaBrand renders the sec-ch-ua brand list for a Chromium-family
// browser and major version, matching the "brand list with a GREASE entry"
// shape real Chromium browsers send.
func SecChUaBrand(browser string, majorVersion int) string {
	switch browser {
	case "chrome":
		return fmt.Sprintf(`"Not_A Brand";v="8", "Chromium";v="%d", "Google Chrome";v="%d"`, majorVersion, majorVersion)
	case "edge":
		return fmt.Sprintf(`"Not_A Brand";v="8", "Chromium";v="%d", "Microsoft Edge";v="%d"`, majorVersion, majorVersion)
	case "opera":
		return fmt.Sprintf(`"Not_A Brand";v="8", "Chromium";v="%d", "Opera";v="%d"`, majorVersion, majorVersion)
	default:
		return ""
	}
}

// SecChUaPlatform maps an internal platform name to the token Client Hints
// advertises.
func SecChUaPlatform(platform string) string {
	switch platform {
	case "windows":
		return `"Windows"`
	case "macos":
		return `"macOS"`
	case "linux":
		return `"Linux"`
	case "android":
		return `"Android"`
	case "ios":
		return `"iOS"`
	default:
		return `""`
	}
}

// AcceptByResourceType implements the resource_type → Accept header table
// (spec §4.3).
var AcceptByResourceType = map[string]string{
	"document":   "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"stylesheet": "text/css,*/*;q=0.1",
	"script":     "*/*",
	"image":      "image/webp,image/apng,image/*,*/*;q=0.8",
	"font":       "*/*",
}
