// Package generator implements the orchestrator (spec §4.7): the single
// entry point that runs the sampler, base-profile builder, the three
// derivation modules, and scoring, then optionally caches the result.
// Grounded on the teacher's Config/DefaultConfig/Worker lifecycle shape
// (worker/internal/worker/worker.go).
package generator

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds orchestrator-level defaults, loadable from an optional
// YAML file via viper (SPEC_FULL §11), falling back to built-in
// defaults the way the teacher's DefaultConfig()/DefaultPoolConfig() do.
type Config struct {
	// Seed seeds the orchestrator's persistent RNG state. Zero means
	// "use time.Now().UnixNano() at construction" (spec §6.1 random_seed
	// default "now()").
	Seed uint64
	// CacheCapacity bounds the result LRU (spec §3.5).
	CacheCapacity int
	// BloomExpectedItems / BloomFalsePositiveRate size the Bloom filter
	// backing the uniqueness gate (SPEC_FULL §13).
	BloomExpectedItems     uint
	BloomFalsePositiveRate float64
	// BatchPoolSize bounds the goroutine pool used by GenerateBatch
	// (SPEC_FULL §15). Zero means "runtime.NumCPU()".
	BatchPoolSize int
}

// DefaultConfig returns the built-in defaults used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{
		Seed:                   0,
		CacheCapacity:          1024,
		BloomExpectedItems:     100000,
		BloomFalsePositiveRate: 0.01,
		BatchPoolSize:          0,
	}
}

// LoadConfig reads optional overrides from a YAML file at path via viper,
// falling back to DefaultConfig for anything unset. A missing file is not
// an error — it just means built-in defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("cache_capacity", cfg.CacheCapacity)
	v.SetDefault("bloom_expected_items", cfg.BloomExpectedItems)
	v.SetDefault("bloom_false_positive_rate", cfg.BloomFalsePositiveRate)
	v.SetDefault("batch_pool_size", cfg.BatchPoolSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config from %q: %w", path, err)
	}

	cfg.Seed = v.GetUint64("seed")
	cfg.CacheCapacity = v.GetInt("cache_capacity")
	cfg.BloomExpectedItems = uint(v.GetUint64("bloom_expected_items"))
	cfg.BloomFalsePositiveRate = v.GetFloat64("bloom_false_positive_rate")
	cfg.BatchPoolSize = v.GetInt("batch_pool_size")

	return cfg, nil
}
