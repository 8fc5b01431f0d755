// Package tlsfp implements TLS derivation (spec §4.4): template lookup,
// bounded cipher shuffling, and JA3/JA4 hash computation. Grounded on the
// teacher's literal JA3 strings (worker/internal/stealth/stealth.go),
// generalized into structured templates.
package tlsfp

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"fpsynth/internal/model"
	"fpsynth/internal/rng"
	"fpsynth/internal/tables"
)

// Derive produces a populated model.TLS record for the given browser and
// major version, optionally applying bounded cipher-suite shuffling from
// the supplied RNG substream, plus any validation warnings (spec §4.4).
func Derive(browser string, majorVersion int, source *rng.Source) (*model.TLS, []string) {
	var warnings []string

	tmpl, exact := tables.TLSTemplateFor(browser, majorVersion)
	if !exact {
		warnings = append(warnings, fmt.Sprintf("no TLS template for %s major version %d, fell back to %s", browser, majorVersion, tmpl.Name))
	}

	ciphers := shuffleCiphers(tmpl.Ciphers, source)

	ja3 := computeJA3(tmpl.Version, ciphers, tmpl.Extensions, tmpl.EllipticCurves, tmpl.ECPointFormats)
	ja4 := computeJA4(tmpl, ciphers)

	warnings = append(warnings, validateTemplate(browser, majorVersion, tmpl)...)

	record := &model.TLS{
		Version:             tmpl.Version,
		Ciphers:             ciphers,
		Extensions:          tmpl.Extensions,
		SupportedVersions:   tmpl.SupportedVersions,
		SignatureAlgorithms: tmpl.SignatureAlgorithms,
		KeyShares:           tmpl.KeyShares,
		ALPN:                tmpl.ALPN,
		JA3Hash:             ja3,
		JA4Hash:             ja4,
		SSLVersion:          sslVersionLabel(tmpl.SupportedVersions),
		CipherSuite:         firstOr(ciphers, ""),
		Http2Settings: model.Http2Settings{
			HeaderTableSize:      tmpl.Http2.HeaderTableSize,
			EnablePush:           tmpl.Http2.EnablePush,
			MaxConcurrentStreams: tmpl.Http2.MaxConcurrentStreams,
			InitialWindowSize:    tmpl.Http2.InitialWindowSize,
			MaxFrameSize:         tmpl.Http2.MaxFrameSize,
			MaxHeaderListSize:    tmpl.Http2.MaxHeaderListSize,
		},
	}

	return record, warnings
}

// shuffleCiphers applies bounded randomization: up to 2-3 cipher-suite
// positions are swapped within the list, but the first cipher (the GREASE
// slot) is never touched (spec §4.4).
func shuffleCiphers(ciphers []string, source *rng.Source) []string {
	if len(ciphers) < 3 {
		out := make([]string, len(ciphers))
		copy(out, ciphers)
		return out
	}

	out := make([]string, len(ciphers))
	copy(out, ciphers)

	swaps := 2 + source.NextIntRange(0, 1) // 2 or 3 swaps
	for i := 0; i < swaps; i++ {
		a := 1 + source.NextIntRange(0, len(out)-2)
		b := 1 + source.NextIntRange(0, len(out)-2)
		out[a], out[b] = out[b], out[a]
	}
	return out
}

// computeJA3 is MD5 of "version,ciphers,extensions,elliptic_curves,ec_point_formats"
// with each list hyphen-joined (spec §4.4).
func computeJA3(version string, ciphers, extensions, curves, pointFormats []string) string {
	raw := strings.Join([]string{
		version,
		strings.Join(ciphers, "-"),
		strings.Join(extensions, "-"),
		strings.Join(curves, "-"),
		strings.Join(pointFormats, "-"),
	}, ",")
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// computeJA4 follows the published JA4 shape: protocol byte + SNI marker +
// cipher count + extension count + ALPN summary + truncated SHA-256 of the
// sorted cipher list + truncated SHA-256 of the sorted extension list
// (spec §4.4, §9 "Hashing").
func computeJA4(tmpl tables.TLSTemplate, ciphers []string) string {
	protocol := "t" // TCP; fpsynth never derives QUIC/UDP signatures
	sni := "d"      // domain SNI is always present for these templates

	alpnSummary := "00"
	if len(tmpl.ALPN) > 0 {
		a := tmpl.ALPN[0]
		if len(a) >= 2 {
			alpnSummary = string(a[0]) + string(a[len(a)-1])
		} else {
			alpnSummary = a
		}
	}

	cipherHash := truncatedSHA256(strings.Join(sortedCopy(ciphers), ","))
	extHash := truncatedSHA256(strings.Join(sortedCopy(tmpl.Extensions), ","))

	return fmt.Sprintf("%s%s%02d%02d%s_%s_%s",
		protocol, sni, len(ciphers), len(tmpl.Extensions), alpnSummary, cipherHash, extHash)
}

func truncatedSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func sslVersionLabel(supported []string) string {
	for _, v := range supported {
		if v == "772" {
			return "TLS 1.3"
		}
	}
	return "TLS 1.2"
}

func firstOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[0]
}

// validateTemplate rejects (as warnings, not errors) templates advertising
// TLS 1.3 for a browser too old to support it, or missing h2 ALPN where H2
// is standard (spec §4.4 Validation).
func validateTemplate(browser string, majorVersion int, tmpl tables.TLSTemplate) []string {
	var warnings []string

	supportsTLS13 := func() bool {
		switch browser {
		case "chrome", "edge":
			return majorVersion >= 70
		case "firefox":
			return majorVersion >= 63
		case "safari":
			return majorVersion >= 11
		default:
			return true
		}
	}()

	hasTLS13Template := false
	for _, v := range tmpl.SupportedVersions {
		if v == "772" {
			hasTLS13Template = true
		}
	}
	if hasTLS13Template && !supportsTLS13 {
		warnings = append(warnings, fmt.Sprintf("%s major version %d predates TLS 1.3 but template advertises it", browser, majorVersion))
	}

	hasH2 := false
	for _, a := range tmpl.ALPN {
		if a == "h2" {
			hasH2 = true
		}
	}
	modernH2Browser := majorVersion >= 50
	if !hasH2 && modernH2Browser {
		warnings = append(warnings, fmt.Sprintf("%s major version %d should advertise h2 in ALPN", browser, majorVersion))
	}

	return warnings
}
