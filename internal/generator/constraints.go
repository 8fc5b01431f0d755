package generator

import (
	"fmt"
	"strconv"

	"fpsynth/internal/model"
	"fpsynth/internal/network"
	"fpsynth/internal/rng"
)

// browserPlatformCompat lists, for browsers that physically cannot run on
// certain platforms, the platforms they ARE compatible with. Browsers
// absent from this map are treated as compatible with every platform.
var browserPlatformCompat = map[string][]string{
	"safari": {"macos", "ios"},
}

func platformCompatible(browser, platform string) bool {
	allowed, restricted := browserPlatformCompat[browser]
	if !restricted {
		return true
	}
	for _, p := range allowed {
		if p == platform {
			return true
		}
	}
	return false
}

// realized is the outcome of resolving a GenerationOptions' constraint
// lists into sampler evidence, plus any out-of-band picks (locale, an
// explicit OS version/architecture, an explicit screen color depth) the
// base-profile builder needs that aren't network nodes themselves.
type realized struct {
	evidence         network.Assignment
	osChoice         *model.OSConstraint
	screenColorDepth *int
	locale           *string
}

// realizeConstraints resolves FingerprintConstraints into sampler evidence
// (spec §4.7 step 1, §6.1). Each constraint list is resolved by drawing one
// member uniformly via source, in this fixed field order, so that two
// orchestrators sharing a seed and options resolve constraints identically
// (spec §5 "RNG is advanced sequentially... first constraint realization").
// A known-impossible browser/platform pairing is rejected outright rather
// than handed to the sampler as contradictory evidence.
func realizeConstraints(source *rng.Source, opts model.GenerationOptions) (*realized, error) {
	r := &realized{evidence: network.Assignment{}}

	var chosenBrowser string
	if len(opts.Browsers) > 0 {
		bc := opts.Browsers[source.NextIntRange(0, len(opts.Browsers)-1)]
		chosenBrowser = bc.Name
		r.evidence["browser"] = bc.Name
		if bc.MaxVersion >= bc.MinVersion && bc.MinVersion > 0 {
			v := source.NextIntRange(bc.MinVersion, bc.MaxVersion)
			r.evidence["browser_version"] = strconv.Itoa(v)
		}
	}

	if len(opts.Devices) > 0 {
		r.evidence["device"] = opts.Devices[source.NextIntRange(0, len(opts.Devices)-1)]
	}

	if len(opts.OperatingSystems) > 0 {
		osc := opts.OperatingSystems[source.NextIntRange(0, len(opts.OperatingSystems)-1)]
		r.evidence["platform"] = osc.Name
		r.osChoice = &osc

		if chosenBrowser != "" && !platformCompatible(chosenBrowser, osc.Name) {
			return nil, &InvalidConstraint{
				Fields:  []string{"browsers", "operating_systems"},
				Message: fmt.Sprintf("%s is never distributed on %s", chosenBrowser, osc.Name),
			}
		}
	}

	if len(opts.ScreenResolutions) > 0 {
		sc := opts.ScreenResolutions[source.NextIntRange(0, len(opts.ScreenResolutions)-1)]
		r.evidence["screen_resolution"] = fmt.Sprintf("%dx%d", sc.Width, sc.Height)
		if sc.ColorDepth > 0 {
			cd := sc.ColorDepth
			r.screenColorDepth = &cd
		}
	}

	if len(opts.Locales) > 0 {
		locale := opts.Locales[source.NextIntRange(0, len(opts.Locales)-1)]
		r.locale = &locale
	}

	return r, nil
}
