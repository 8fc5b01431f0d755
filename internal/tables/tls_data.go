package tables

import (
	"strconv"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Http2Settings mirrors spec §3.3's http2_settings sub-record.
type Http2Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32
}

// AsFrame renders the settings using golang.org/x/net/http2's typed
// Setting/SettingID constants instead of bare integers, the shape a real
// HTTP/2 SETTINGS frame takes on the wire.
func (s Http2Settings) AsFrame() []http2.Setting {
	push := uint32(0)
	if s.EnablePush {
		push = 1
	}
	return []http2.Setting{
		{ID: http2.SettingHeaderTableSize, Val: s.HeaderTableSize},
		{ID: http2.SettingEnablePush, Val: push},
		{ID: http2.SettingMaxConcurrentStreams, Val: s.MaxConcurrentStreams},
		{ID: http2.SettingInitialWindowSize, Val: s.InitialWindowSize},
		{ID: http2.SettingMaxFrameSize, Val: s.MaxFrameSize},
		{ID: http2.SettingMaxHeaderListSize, Val: s.MaxHeaderListSize},
	}
}

// TLSTemplate is a named ClientHello signature keyed by browser and major
// version (spec §4.4), generalized from the teacher's literal JA3 strings
// (worker/internal/stealth/stealth.go) into structured fields.
type TLSTemplate struct {
	Name                string
	Version             string
	Ciphers             []string
	Extensions          []string
	EllipticCurves      []string
	ECPointFormats      []string
	SupportedVersions   []string
	SignatureAlgorithms []string
	KeyShares           []string
	ALPN                []string
	Http2               Http2Settings
	// ClientHelloID identifies which uTLS preset a caller would load to
	// actually present this signature on the wire. It is inert metadata
	// here: fpsynth never performs a handshake.
	ClientHelloID utls.ClientHelloID
}

var chromeCiphers = []string{"4865", "4866", "4867", "49195", "49199", "49196", "49200", "52393", "52392", "49171", "49172", "156", "157", "47", "53"}
var chromeExtensions = []string{"0", "23", "65281", "10", "11", "35", "16", "5", "13", "18", "51", "45", "43", "21"}

var firefoxCiphers = []string{"4865", "4867", "4866", "49195", "49199", "52393", "52392", "49196", "49200", "49162", "49161", "49171", "49172", "156", "157", "47", "53"}
var firefoxExtensions = []string{"0", "23", "65281", "10", "11", "35", "16", "5", "34", "51", "43", "13", "45", "28", "41"}

var safariCiphers = []string{"4865", "4866", "4867", "49196", "49195", "52393", "49200", "49199", "52392", "49162", "49161", "49172", "49171", "157", "156", "61", "60", "53", "47"}
var safariExtensions = []string{"0", "23", "65281", "10", "11", "16", "5", "13", "18", "51", "45", "43", "21"}

// TLSTemplates is keyed by "{browser}_{major_version}" (e.g. "chrome_120").
var TLSTemplates = map[string]TLSTemplate{
	"chrome_120": {
		Name: "chrome_120", Version: "771",
		Ciphers: chromeCiphers, Extensions: chromeExtensions,
		EllipticCurves: []string{"29", "23", "24"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "rsa_pss_rsae_sha256", "rsa_pkcs1_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 65536, EnablePush: false, MaxConcurrentStreams: 1000, InitialWindowSize: 6291456, MaxFrameSize: 16384, MaxHeaderListSize: 262144},
		ClientHelloID:       utls.HelloChrome_Auto,
	},
	"chrome_119": {
		Name: "chrome_119", Version: "771",
		Ciphers: chromeCiphers, Extensions: chromeExtensions,
		EllipticCurves: []string{"29", "23", "24"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "rsa_pss_rsae_sha256", "rsa_pkcs1_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 65536, EnablePush: false, MaxConcurrentStreams: 1000, InitialWindowSize: 6291456, MaxFrameSize: 16384, MaxHeaderListSize: 262144},
		ClientHelloID:       utls.HelloChrome_Auto,
	},
	"firefox_121": {
		Name: "firefox_121", Version: "771",
		Ciphers: firefoxCiphers, Extensions: firefoxExtensions,
		EllipticCurves: []string{"29", "23", "24", "25"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "ecdsa_secp384r1_sha384", "rsa_pss_rsae_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 65536, EnablePush: false, MaxConcurrentStreams: 128, InitialWindowSize: 131072, MaxFrameSize: 16384, MaxHeaderListSize: 393216},
		ClientHelloID:       utls.HelloFirefox_Auto,
	},
	"firefox_120": {
		Name: "firefox_120", Version: "771",
		Ciphers: firefoxCiphers, Extensions: firefoxExtensions,
		EllipticCurves: []string{"29", "23", "24", "25"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "ecdsa_secp384r1_sha384", "rsa_pss_rsae_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 65536, EnablePush: false, MaxConcurrentStreams: 128, InitialWindowSize: 131072, MaxFrameSize: 16384, MaxHeaderListSize: 393216},
		ClientHelloID:       utls.HelloFirefox_Auto,
	},
	"safari_17": {
		Name: "safari_17", Version: "771",
		Ciphers: safariCiphers, Extensions: safariExtensions,
		EllipticCurves: []string{"29", "23", "24"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "rsa_pss_rsae_sha256", "rsa_pkcs1_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 4096, EnablePush: false, MaxConcurrentStreams: 100, InitialWindowSize: 2097152, MaxFrameSize: 16384, MaxHeaderListSize: 0},
		ClientHelloID:       utls.HelloSafari_Auto,
	},
	"safari_16": {
		Name: "safari_16", Version: "771",
		Ciphers: safariCiphers, Extensions: safariExtensions,
		EllipticCurves: []string{"29", "23", "24"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "rsa_pss_rsae_sha256", "rsa_pkcs1_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 4096, EnablePush: false, MaxConcurrentStreams: 100, InitialWindowSize: 2097152, MaxFrameSize: 16384, MaxHeaderListSize: 0},
		ClientHelloID:       utls.HelloSafari_Auto,
	},
	"edge_120": {
		Name: "edge_120", Version: "771",
		Ciphers: chromeCiphers, Extensions: chromeExtensions,
		EllipticCurves: []string{"29", "23", "24"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "rsa_pss_rsae_sha256", "rsa_pkcs1_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 65536, EnablePush: false, MaxConcurrentStreams: 1000, InitialWindowSize: 6291456, MaxFrameSize: 16384, MaxHeaderListSize: 262144},
		ClientHelloID:       utls.HelloEdge_Auto,
	},
	"edge_119": {
		Name: "edge_119", Version: "771",
		Ciphers: chromeCiphers, Extensions: chromeExtensions,
		EllipticCurves: []string{"29", "23", "24"}, ECPointFormats: []string{"0"},
		SupportedVersions:   []string{"772", "771"},
		SignatureAlgorithms: []string{"ecdsa_secp256r1_sha256", "rsa_pss_rsae_sha256", "rsa_pkcs1_sha256"},
		KeyShares:           []string{"x25519"},
		ALPN:                []string{"h2", "http/1.1"},
		Http2:               Http2Settings{HeaderTableSize: 65536, EnablePush: false, MaxConcurrentStreams: 1000, InitialWindowSize: 6291456, MaxFrameSize: 16384, MaxHeaderListSize: 262144},
		ClientHelloID:       utls.HelloEdge_Auto,
	},
}

// TLSTemplateFor looks up {browser, major_version}, falling back to the
// most recent Chrome template if absent (spec §4.4).
func TLSTemplateFor(browser string, majorVersion int) (TLSTemplate, bool) {
	key := templateKey(browser, majorVersion)
	if t, ok := TLSTemplates[key]; ok {
		return t, true
	}
	return TLSTemplates["chrome_120"], false
}

func templateKey(browser string, majorVersion int) string {
	return browser + "_" + strconv.Itoa(majorVersion)
}
