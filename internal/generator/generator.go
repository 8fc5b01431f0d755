package generator

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"fpsynth/internal/cache"
	"fpsynth/internal/canvas"
	"fpsynth/internal/headers"
	"fpsynth/internal/model"
	"fpsynth/internal/network"
	"fpsynth/internal/profile"
	"fpsynth/internal/rng"
	"fpsynth/internal/scoring"
	"fpsynth/internal/tables"
	"fpsynth/internal/tlsfp"
)

// Orchestrator is the single entry point (spec §4.7): it owns the network,
// the GPU-profile cache, the result cache, and the persistent RNG state,
// and ties the sampler, base-profile builder, the three derivation
// modules, and scoring together into one Generate call. Grounded on the
// teacher's Worker — a long-lived struct owning its dependencies,
// constructed once via New (worker/internal/worker/worker.go) — generalized
// from a task-queue consumer into a synchronous request/response call.
type Orchestrator struct {
	cfg *Config
	net *network.Network

	mu        sync.Mutex
	rngSource *rng.Source

	deriver *canvas.Deriver
	results *cache.Cache
	log     zerolog.Logger
}

// NewOrchestrator builds the network once and wires the shared caches. A
// malformed network (cyclic graph, probabilities that don't sum to 1)
// surfaces as network.ConfigurationError and is fatal at construction,
// never at generation time (spec §3.5, §7).
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	net, err := tables.BuildNetwork()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "generator").Logger()

	return &Orchestrator{
		cfg:       cfg,
		net:       net,
		rngSource: rng.New(seed),
		deriver:   canvas.NewDeriver(),
		results:   cache.New(cfg.CacheCapacity, cfg.BloomExpectedItems, cfg.BloomFalsePositiveRate),
		log:       logger,
	}, nil
}

// Generate runs the full pipeline for one set of options and returns the
// resulting fingerprint plus its metadata (spec §4.7).
func (o *Orchestrator) Generate(options model.GenerationOptions) (*model.GenerationResult, error) {
	cacheKey, err := cache.CanonicalKey(options)
	if err != nil {
		return nil, fmt.Errorf("computing cache key: %w", err)
	}

	if !options.ForceRegenerate {
		if cached, ok := o.results.Get(cacheKey); ok {
			o.log.Debug().Str("cache_key", cacheKey).Msg("cache hit")
			return cached, nil
		}
	}

	var source *rng.Source
	if options.RandomSeed != nil {
		source = rng.New(*options.RandomSeed)
	} else {
		o.mu.Lock()
		source = o.rngSource
	}

	result, err := o.generateWithSource(source, options, cacheKey)

	if options.RandomSeed == nil {
		o.mu.Unlock()
	}

	if err != nil {
		o.log.Warn().Err(err).Msg("generation failed")
		return nil, err
	}

	return result, nil
}

// generateWithSource runs steps 1-12 of the pipeline against a caller-owned
// RNG source. The source must not be shared with any concurrently running
// call: Generate serializes access to the orchestrator's persistent
// source, and GenerateBatch instead hands each worker its own derived
// substream up front.
func (o *Orchestrator) generateWithSource(source *rng.Source, options model.GenerationOptions, cacheKey string) (*model.GenerationResult, error) {
	start := time.Now()

	rc, err := realizeConstraints(source, options)
	if err != nil {
		return nil, err
	}

	assignment, sampleWarnings, err := o.net.Sample(source, rc.evidence)
	if err != nil {
		return nil, err
	}

	fp := profile.Build(assignment)

	if rc.osChoice != nil {
		if rc.osChoice.Version != "" {
			fp.Device.Platform.Version = rc.osChoice.Version
		}
		if rc.osChoice.Architecture != "" {
			fp.Device.Platform.Architecture = rc.osChoice.Architecture
		}
	}
	if rc.screenColorDepth != nil {
		fp.Device.Screen.ColorDepth = *rc.screenColorDepth
	}
	if rc.locale != nil {
		fp.Locale = *rc.locale
	}

	profile.Apply(fp, profile.Overrides{
		Browser:   options.OverrideBrowser,
		Locale:    options.OverrideLocale,
		Languages: options.OverrideLanguages,
		Device:    options.OverrideDevice,
	})

	headerOpts := model.DefaultHeaderOptions()
	if options.HeaderOptions != nil {
		headerOpts = *options.HeaderOptions
	}
	if options.HTTPVersion != "" {
		headerOpts.HTTPVersion = options.HTTPVersion
	}

	tlsSource := source.Derive("tls")
	canvasSource := source.Derive("canvas")

	var wg sync.WaitGroup
	var headerWarnings, tlsWarnings, canvasWarnings []string

	if options.IncludeHeadersOrDefault() {
		fp.Headers, headerWarnings = headers.Derive(fp, headerOpts)
	}

	if options.IncludeTLSOrDefault() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fp.TLS, tlsWarnings = tlsfp.Derive(fp.Browser.Name, fp.Browser.MajorVersion, tlsSource)
		}()
	}

	if options.IncludeCanvasOrDefault() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fp.Canvas, fp.WebGL, fp.Audio, fp.Fonts, canvasWarnings = o.deriver.Derive(fp, canvasSource)
		}()
	}

	wg.Wait()

	fp.GenerationTimeMs = generationTimeMs(start)
	fp.Timestamp = start.UTC().Format(time.RFC3339)

	seenBefore := o.results.HasSeen(fp.FingerprintHash)
	scores, consistencyWarnings := scoring.Score(fp, headerWarnings, tlsWarnings, seenBefore)
	fp.QualityScore = scores.Quality
	o.results.RecordSeen(fp.FingerprintHash)

	warnings := make([]string, 0, len(sampleWarnings)+len(headerWarnings)+len(tlsWarnings)+len(canvasWarnings)+len(consistencyWarnings))
	warnings = append(warnings, sampleWarnings...)
	warnings = append(warnings, headerWarnings...)
	warnings = append(warnings, tlsWarnings...)
	warnings = append(warnings, canvasWarnings...)
	warnings = append(warnings, consistencyWarnings...)

	for _, w := range warnings {
		o.log.Warn().Str("fingerprint_hash", fp.FingerprintHash).Msg(w)
	}

	result := &model.GenerationResult{
		Fingerprint: fp,
		Metadata: model.Metadata{
			QualityScore:          scores.Quality,
			UniquenessScore:       scores.Uniqueness,
			ConsistencyScore:      scores.Consistency,
			BypassConfidenceScore: scores.BypassConfidence,
			Warnings:              warnings,
			GenerationTimeMs:      fp.GenerationTimeMs,
			Timestamp:             fp.Timestamp,
			CacheHit:              false,
		},
	}

	o.results.Put(cacheKey, result)
	return result, nil
}

// generationTimeMs rounds up to at least 1ms so a sub-millisecond call
// never reports a zero duration (spec §4.7 step 10).
func generationTimeMs(start time.Time) int64 {
	ms := time.Since(start).Milliseconds()
	if ms < 1 {
		return 1
	}
	return ms
}

// GenerateBatch runs n independent generations concurrently through a
// bounded goroutine pool (SPEC_FULL §15), then summarizes the batch. The
// result cache is not consulted; each item is stored under its own key. Each
// item gets its own RNG substream derived up front (serially, under the
// orchestrator's lock) so the concurrent workers never touch shared
// mutable RNG state (spec §5).
func (o *Orchestrator) GenerateBatch(n int, options model.GenerationOptions) (*model.BatchResult, error) {
	if n <= 0 {
		return &model.BatchResult{}, nil
	}

	sources := make([]*rng.Source, n)
	o.mu.Lock()
	for i := 0; i < n; i++ {
		if options.RandomSeed != nil {
			sources[i] = rng.New(*options.RandomSeed).Derive("batch:" + strconv.Itoa(i))
		} else {
			sources[i] = o.rngSource.Derive("batch:" + strconv.Itoa(i))
		}
	}
	o.mu.Unlock()

	poolSize := o.cfg.BatchPoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating batch pool: %w", err)
	}
	defer pool.Release()

	results := make([]*model.GenerationResult, n)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			cacheKey, err := cache.CanonicalKey(options)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			result, err := o.generateWithSource(sources[i], options, cacheKey+fmt.Sprintf("#%d", i))
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = result
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return &model.BatchResult{
		Results: results,
		Summary: summarize(results),
	}, nil
}

func summarize(results []*model.GenerationResult) model.BatchSummary {
	var qualitySum, uniquenessSum, timeSum float64
	count := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		qualitySum += r.Metadata.QualityScore
		uniquenessSum += r.Metadata.UniquenessScore
		timeSum += float64(r.Metadata.GenerationTimeMs)
		count++
	}

	summary := model.BatchSummary{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		BatchID:   fmt.Sprintf("batch-%d", time.Now().UnixNano()),
	}
	if count > 0 {
		summary.MeanQualityScore = qualitySum / float64(count)
		summary.MeanUniquenessScore = uniquenessSum / float64(count)
		summary.MeanGenerationTimeMs = timeSum / float64(count)
	}
	return summary
}

// UpdateProbabilities is a documented no-op (spec §6.1, §9 Open
// Questions): online CPT relearning is out of scope for this core, but
// the method exists so callers who feed generated fingerprints back for
// learning don't need a version-gated code path.
func (o *Orchestrator) UpdateProbabilities(fingerprints []*model.Fingerprint) error {
	o.log.Debug().Int("count", len(fingerprints)).Msg("update_probabilities called (no-op)")
	return nil
}
