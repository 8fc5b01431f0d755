// Package headers implements headers derivation (spec §4.3), grounded on
// the teacher's HeaderGenerator (core/internal/stealth/headers.go).
package headers

import (
	"fmt"
	"strings"

	"fpsynth/internal/model"
	"fpsynth/internal/tables"
)

// Derive produces a per-browser-realistic header map from the fingerprint
// and options, along with consistency warnings (spec §4.3).
func Derive(fp *model.Fingerprint, opts model.HeaderOptions) (map[string]string, []string) {
	var warnings []string
	h := map[string]string{}

	if fp.UserAgent == "" {
		warnings = append(warnings, "empty user-agent")
	}
	h["user-agent"] = fp.UserAgent

	resourceType := opts.ResourceType
	if resourceType == "" {
		resourceType = "document"
	}
	accept, ok := tables.AcceptByResourceType[resourceType]
	if !ok {
		accept = tables.AcceptByResourceType["document"]
	}
	h["accept"] = accept

	h["accept-language"], warnings = acceptLanguage(fp.Languages, warnings)
	h["accept-encoding"] = acceptEncoding(fp.Browser.Name, fp.Browser.MajorVersion)

	isChromium := tables.ChromiumFamily[fp.Browser.Name]
	if isChromium && opts.IncludeClientHints {
		h["sec-ch-ua"] = tables.SecChUaBrand(fp.Browser.Name, fp.Browser.MajorVersion)
		h["sec-ch-ua-mobile"] = mobileToken(fp.Device.Type)
		h["sec-ch-ua-platform"] = tables.SecChUaPlatform(fp.Device.Platform.Name)
	}
	if h["sec-ch-ua"] != "" && h["sec-ch-ua-mobile"] == "" {
		warnings = append(warnings, "sec-ch-ua present without sec-ch-ua-mobile")
	}

	requestType := opts.RequestType
	if requestType == "" {
		requestType = "navigate"
	}
	applySecFetch(h, requestType, resourceType)

	if opts.IncludeDNT {
		h["dnt"] = "1"
	}

	return h, warnings
}

func mobileToken(deviceType string) string {
	if deviceType == "mobile" {
		return "?1"
	}
	return "?0"
}

// acceptLanguage builds the Accept-Language header: first entry unquoted,
// remainder with q-values decreasing by 0.1 from 0.9, floored at 0.1
// (spec §4.3).
func acceptLanguage(languages []string, warnings []string) (string, []string) {
	if len(languages) == 0 {
		warnings = append(warnings, "malformed q-values in accept-language: no languages set")
		return "en-US,en;q=0.9", warnings
	}

	parts := []string{languages[0]}
	q := 0.9
	for _, lang := range languages[1:] {
		if q < 0.1 {
			q = 0.1
		}
		parts = append(parts, fmt.Sprintf("%s;q=%.1f", lang, q))
		q -= 0.1
	}
	return strings.Join(parts, ","), warnings
}

// acceptEncoding includes "br" only for browsers known to support it
// (spec §4.3).
func acceptEncoding(browser string, majorVersion int) string {
	base := "gzip, deflate"
	if tables.SupportsBrotli(browser, majorVersion) {
		return base + ", br"
	}
	return base
}

// applySecFetch sets sec-fetch-* from request_type (spec §4.3). For
// navigate: dest=document, mode=navigate, site=none, user=?1.
func applySecFetch(h map[string]string, requestType, resourceType string) {
	if requestType == "navigate" {
		h["sec-fetch-dest"] = "document"
		h["sec-fetch-mode"] = "navigate"
		h["sec-fetch-site"] = "none"
		h["sec-fetch-user"] = "?1"
		return
	}

	h["sec-fetch-dest"] = resourceType
	h["sec-fetch-mode"] = "no-cors"
	h["sec-fetch-site"] = "same-origin"
}
