// Package tables holds the immutable, process-lifetime data the rest of
// fpsynth samples from and looks up: the probabilistic network's CPTs, GPU
// profiles, font catalogs, header profile literals, and TLS templates.
// Nothing here is mutated after package initialization (spec §3.5).
package tables

import "fpsynth/internal/network"

// BuildNetwork constructs the declared six-node network (browser,
// browser_version, device, platform, screen_resolution,
// hardware_concurrency). The larger "47 nodes, 312 edges" figure some
// fingerprint generators advertise is aspirational; this spec targets only
// the declared set (spec §9 Open Questions).
func BuildNetwork() (*network.Network, error) {
	nodes := []*network.Node{
		browserNode(),
		deviceNode(),
		platformNode(),
		browserVersionNode(),
		screenResolutionNode(),
		hardwareConcurrencyNode(),
	}
	return network.NewNetwork(nodes)
}

func browserNode() *network.Node {
	return &network.Node{
		Name: "browser",
		Kind: network.Categorical,
		Distribution: network.Distribution{
			Unconditional: &network.CategoricalRow{
				Labels:  []string{"chrome", "firefox", "safari", "edge", "opera"},
				Weights: []float64{0.45, 0.18, 0.15, 0.14, 0.08},
			},
		},
	}
}

func deviceNode() *network.Node {
	return &network.Node{
		Name: "device",
		Kind: network.Categorical,
		Distribution: network.Distribution{
			Unconditional: &network.CategoricalRow{
				Labels:  []string{"desktop", "mobile", "tablet"},
				Weights: []float64{0.60, 0.32, 0.08},
			},
		},
	}
}

// platformNode conditions platform on BOTH device and browser (not device
// alone) so that browser/platform compatibility is baked into the CPT
// itself: safari rows only ever put weight on macos/ios, so the sampler
// can never emit a physically impossible pairing like desktop Safari on
// Windows (spec.md §1 "no physically impossible combination ... can
// emerge from the sampler"). This mirrors, inside the network, the same
// compatibility rule internal/generator/constraints.go enforces against
// caller-supplied evidence.
func platformNode() *network.Node {
	return &network.Node{
		Name:    "platform",
		Kind:    network.Categorical,
		Parents: []string{"device", "browser"},
		Distribution: network.Distribution{
			Conditional: []network.ConditionalCategorical{
				{Key: "desktop|chrome", Row: network.CategoricalRow{
					Labels:  []string{"windows", "macos", "linux"},
					Weights: []float64{0.55, 0.30, 0.15},
				}},
				{Key: "desktop|firefox", Row: network.CategoricalRow{
					Labels:  []string{"windows", "macos", "linux"},
					Weights: []float64{0.50, 0.20, 0.30},
				}},
				{Key: "desktop|safari", Row: network.CategoricalRow{
					Labels:  []string{"macos"},
					Weights: []float64{1.0},
				}},
				{Key: "desktop|edge", Row: network.CategoricalRow{
					Labels:  []string{"windows", "macos"},
					Weights: []float64{0.85, 0.15},
				}},
				{Key: "desktop|opera", Row: network.CategoricalRow{
					Labels:  []string{"windows", "macos", "linux"},
					Weights: []float64{0.65, 0.20, 0.15},
				}},
				{Key: "mobile|chrome", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.75, 0.25},
				}},
				{Key: "mobile|firefox", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.85, 0.15},
				}},
				{Key: "mobile|safari", Row: network.CategoricalRow{
					Labels:  []string{"ios"},
					Weights: []float64{1.0},
				}},
				{Key: "mobile|edge", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.50, 0.50},
				}},
				{Key: "mobile|opera", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.80, 0.20},
				}},
				{Key: "tablet|chrome", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.45, 0.55},
				}},
				{Key: "tablet|firefox", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.60, 0.40},
				}},
				{Key: "tablet|safari", Row: network.CategoricalRow{
					Labels:  []string{"ios"},
					Weights: []float64{1.0},
				}},
				{Key: "tablet|edge", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.50, 0.50},
				}},
				{Key: "tablet|opera", Row: network.CategoricalRow{
					Labels:  []string{"android", "ios"},
					Weights: []float64{0.60, 0.40},
				}},
			},
		},
	}
}

func browserVersionNode() *network.Node {
	return &network.Node{
		Name:    "browser_version",
		Kind:    network.Categorical,
		Parents: []string{"browser"},
		Distribution: network.Distribution{
			Conditional: []network.ConditionalCategorical{
				{Key: "chrome", Row: network.CategoricalRow{
					Labels:  []string{"120", "119", "118"},
					Weights: []float64{0.45, 0.35, 0.20},
				}},
				{Key: "firefox", Row: network.CategoricalRow{
					Labels:  []string{"121", "120", "115"},
					Weights: []float64{0.50, 0.35, 0.15},
				}},
				{Key: "safari", Row: network.CategoricalRow{
					Labels:  []string{"17", "16"},
					Weights: []float64{0.60, 0.40},
				}},
				{Key: "edge", Row: network.CategoricalRow{
					Labels:  []string{"120", "119"},
					Weights: []float64{0.65, 0.35},
				}},
				{Key: "opera", Row: network.CategoricalRow{
					Labels:  []string{"106", "105"},
					Weights: []float64{0.70, 0.30},
				}},
			},
		},
	}
}

func screenResolutionNode() *network.Node {
	return &network.Node{
		Name:    "screen_resolution",
		Kind:    network.Categorical,
		Parents: []string{"device", "platform"},
		Distribution: network.Distribution{
			ScreenResolutionFallback: true,
			Conditional: []network.ConditionalCategorical{
				{Key: "desktop|windows", Row: network.CategoricalRow{
					Labels:  []string{"1920x1080", "2560x1440", "1366x768"},
					Weights: []float64{0.55, 0.25, 0.20},
				}},
				{Key: "desktop|macos", Row: network.CategoricalRow{
					Labels:  []string{"2560x1600", "1440x900", "1920x1080"},
					Weights: []float64{0.45, 0.30, 0.25},
				}},
				{Key: "desktop|linux", Row: network.CategoricalRow{
					Labels:  []string{"1920x1080", "1366x768"},
					Weights: []float64{0.70, 0.30},
				}},
				{Key: "mobile|android", Row: network.CategoricalRow{
					Labels:  []string{"412x915", "393x851", "360x800"},
					Weights: []float64{0.40, 0.35, 0.25},
				}},
				{Key: "mobile|ios", Row: network.CategoricalRow{
					Labels:  []string{"390x844", "414x896", "375x812"},
					Weights: []float64{0.45, 0.30, 0.25},
				}},
				{Key: "tablet|ios", Row: network.CategoricalRow{
					Labels:  []string{"1024x1366", "810x1080"},
					Weights: []float64{0.55, 0.45},
				}},
				{Key: "tablet|android", Row: network.CategoricalRow{
					Labels:  []string{"800x1280", "1200x1920"},
					Weights: []float64{0.60, 0.40},
				}},
			},
		},
	}
}

func hardwareConcurrencyNode() *network.Node {
	return &network.Node{
		Name:    "hardware_concurrency",
		Kind:    network.Numerical,
		Parents: []string{"device"},
		Distribution: network.Distribution{
			ConditionalGaussian: []network.ConditionalGaussian{
				{Key: "desktop", Row: network.GaussianRow{Mean: 8, Variance: 4, Min: 2, Max: 32}},
				{Key: "mobile", Row: network.GaussianRow{Mean: 6, Variance: 2, Min: 2, Max: 8}},
				{Key: "tablet", Row: network.GaussianRow{Mean: 6, Variance: 2, Min: 2, Max: 12}},
			},
		},
	}
}
