package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/cache/replacement"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/hierarchy"
	"github.com/muditbhargava66/CacheSimulator-sub000/mem/prefetch"
)

// Config is the on-disk configuration of a simulation. All sizes are in
// bytes. A zero L2Size means the hierarchy has no L2.
type Config struct {
	L1Size  uint64 `json:"l1_size"`
	L1Assoc int    `json:"l1_assoc"`
	L2Size  uint64 `json:"l2_size"`
	L2Assoc int    `json:"l2_assoc"`

	BlockSize uint64 `json:"block_size"`

	PrefetchEnabled        bool `json:"prefetch_enabled"`
	PrefetchDistance       int  `json:"prefetch_distance"`
	UseStridePrediction    bool `json:"use_stride_prediction"`
	UseAdaptivePrefetching bool `json:"use_adaptive_prefetching"`
	StrideTableSize        int  `json:"stride_table_size"`

	ReplacementPolicy string `json:"replacement_policy"`
	WritePolicy       string `json:"write_policy"`
}

// DefaultConfig returns the configuration used when nothing is specified:
// a 32 KB 4-way L1 over a 256 KB 8-way L2 with 64-byte blocks.
func DefaultConfig() Config {
	return Config{
		L1Size:              32 * 1024,
		L1Assoc:             4,
		L2Size:              256 * 1024,
		L2Assoc:             8,
		BlockSize:           64,
		PrefetchDistance:    4,
		UseStridePrediction: true,
		StrideTableSize:     64,
		ReplacementPolicy:   "lru",
		WritePolicy:         "writeBack",
	}
}

// LoadConfig reads a JSON configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// applyEnv overlays CACHESIM_* environment variables onto the config. A
// .env file in the working directory is loaded first, when present.
func (c *Config) applyEnv() {
	// Missing .env files are fine; explicit variables still apply.
	_ = godotenv.Load()

	envUint64(&c.L1Size, "CACHESIM_L1_SIZE")
	envInt(&c.L1Assoc, "CACHESIM_L1_ASSOC")
	envUint64(&c.L2Size, "CACHESIM_L2_SIZE")
	envInt(&c.L2Assoc, "CACHESIM_L2_ASSOC")
	envUint64(&c.BlockSize, "CACHESIM_BLOCK_SIZE")
	envBool(&c.PrefetchEnabled, "CACHESIM_PREFETCH_ENABLED")
	envInt(&c.PrefetchDistance, "CACHESIM_PREFETCH_DISTANCE")
	envBool(&c.UseStridePrediction, "CACHESIM_USE_STRIDE_PREDICTION")
	envBool(&c.UseAdaptivePrefetching, "CACHESIM_USE_ADAPTIVE_PREFETCHING")
	envInt(&c.StrideTableSize, "CACHESIM_STRIDE_TABLE_SIZE")
	envString(&c.ReplacementPolicy, "CACHESIM_REPLACEMENT_POLICY")
	envString(&c.WritePolicy, "CACHESIM_WRITE_POLICY")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			*dst = parsed
		}
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(v)
		if err == nil {
			*dst = parsed
		}
	}
}

func envUint64(dst *uint64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			*dst = parsed
		}
	}
}

// buildHierarchy turns a Config into a memory hierarchy.
func buildHierarchy(cfg Config, seed int64, seedSet bool) (
	*hierarchy.Hierarchy, error,
) {
	policy, err := replacement.ParseKind(cfg.ReplacementPolicy)
	if err != nil {
		return nil, err
	}

	writePolicy, err := cache.ParseWritePolicy(cfg.WritePolicy)
	if err != nil {
		return nil, err
	}

	builder := hierarchy.MakeBuilder().
		WithL1(cfg.L1Size, cfg.L1Assoc).
		WithL2(cfg.L2Size, cfg.L2Assoc).
		WithBlockSize(cfg.BlockSize).
		WithReplacementPolicy(policy).
		WithWritePolicy(writePolicy).
		WithPrefetchEnabled(cfg.PrefetchEnabled).
		WithPrefetchDistance(cfg.PrefetchDistance).
		WithStridePrediction(cfg.UseStridePrediction, cfg.StrideTableSize)

	if cfg.UseAdaptivePrefetching {
		builder = builder.WithAdaptivePrefetching(prefetch.Adaptive, 0)
	}

	if seedSet {
		builder = builder.WithRandomSeed(seed)
	}

	return builder.Build()
}
