package tables

import (
	"testing"

	"fpsynth/internal/network"
	"fpsynth/internal/rng"
)

func TestBuildNetworkSucceeds(t *testing.T) {
	net, err := BuildNetwork()
	if err != nil {
		t.Fatalf("BuildNetwork failed: %v", err)
	}
	if net == nil {
		t.Fatal("BuildNetwork returned nil network")
	}
}

func TestDeviceMemoryForIsMonotonic(t *testing.T) {
	prev := DeviceMemoryFor(1)
	for hc := 2; hc <= 20; hc++ {
		cur := DeviceMemoryFor(hc)
		if cur < prev {
			t.Errorf("DeviceMemoryFor(%d) = %d, should not decrease from %d", hc, cur, prev)
		}
		prev = cur
	}
}

func TestDeviceMemoryForKnownPoints(t *testing.T) {
	cases := map[int]int{2: 4, 4: 8, 6: 12, 8: 16, 12: 24, 16: 32}
	for hc, want := range cases {
		if got := DeviceMemoryFor(hc); got != want {
			t.Errorf("DeviceMemoryFor(%d) = %d, want %d", hc, got, want)
		}
	}
}

func TestGPUProfilesForPlatformFallsBackToFullTable(t *testing.T) {
	profiles := GPUProfilesForPlatform("plan9")
	if len(profiles) != len(GPUProfiles) {
		t.Errorf("unknown platform should fall back to the full table, got %d profiles", len(profiles))
	}

	windows := GPUProfilesForPlatform("windows")
	if len(windows) == 0 {
		t.Error("windows should have at least one GPU profile")
	}
	for _, p := range windows {
		if p.Platform != "windows" {
			t.Errorf("GPUProfilesForPlatform(windows) returned a %q profile", p.Platform)
		}
	}
}

func TestTLSTemplateForFallsBackToChrome(t *testing.T) {
	tmpl, exact := TLSTemplateFor("netscape", 4)
	if exact {
		t.Error("unknown browser should not report an exact match")
	}
	if tmpl.Name != "chrome_120" {
		t.Errorf("fallback template = %q, want chrome_120", tmpl.Name)
	}
}

func TestTLSTemplateForExactMatch(t *testing.T) {
	tmpl, exact := TLSTemplateFor("firefox", 121)
	if !exact {
		t.Error("firefox_121 should be an exact match")
	}
	if tmpl.Name != "firefox_121" {
		t.Errorf("template = %q, want firefox_121", tmpl.Name)
	}
}

func TestSupportsBrotli(t *testing.T) {
	if !SupportsBrotli("chrome", 120) {
		t.Error("chrome should always support brotli")
	}
	if SupportsBrotli("safari", 17) {
		t.Error("safari should never support brotli")
	}
	if SupportsBrotli("firefox", 40) {
		t.Error("firefox below threshold should not support brotli")
	}
	if !SupportsBrotli("firefox", 120) {
		t.Error("firefox above threshold should support brotli")
	}
}

// TestSampleNeverProducesImpossibleBrowserPlatformPairing asserts the core
// invariant spec.md §1 requires of the sampler itself: unconstrained
// draws must never pair safari with a platform it doesn't ship on, since
// platform is conditioned on browser (not device alone).
func TestSampleNeverProducesImpossibleBrowserPlatformPairing(t *testing.T) {
	net, err := BuildNetwork()
	if err != nil {
		t.Fatalf("BuildNetwork failed: %v", err)
	}

	for seed := uint64(0); seed < 500; seed++ {
		assignment, _, err := net.Sample(rng.New(seed), network.Assignment{})
		if err != nil {
			t.Fatalf("seed %d: Sample failed: %v", seed, err)
		}
		if assignment["browser"] == "safari" {
			switch assignment["platform"] {
			case "macos", "ios":
			default:
				t.Errorf("seed %d: safari sampled on platform %q, which is physically impossible", seed, assignment["platform"])
			}
		}
	}
}

func TestHttp2SettingsAsFrame(t *testing.T) {
	tmpl, _ := TLSTemplateFor("chrome", 120)
	frame := tmpl.Http2.AsFrame()
	if len(frame) != 6 {
		t.Fatalf("AsFrame() returned %d settings, want 6", len(frame))
	}
}
