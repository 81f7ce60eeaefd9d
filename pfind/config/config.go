package config

import (
	"fmt"
	"runtime"
	"strings"

	internal "github.com/ZanzyTHEbar/projfind/pfind"
	"github.com/ZanzyTHEbar/projfind/pfind/common"
	"github.com/ZanzyTHEbar/projfind/pfind/search"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Search SearchConfig `mapstructure:"search"`
}

// SearchConfig stores the settings consumed by the search engine.
//
// Exactly one of Target and Pattern must be set: Target is compared for
// string equality against entry names, Pattern is an implicitly anchored
// regular expression over the full entry name.
type SearchConfig struct {
	Target         string   `mapstructure:"target"`
	Pattern        string   `mapstructure:"pattern"`
	Roots          []string `mapstructure:"roots"`
	MaxDepth       int      `mapstructure:"maxDepth"`
	Workers        int      `mapstructure:"workers"`
	Backend        string   `mapstructure:"backend"`
	IgnorePatterns []string `mapstructure:"ignorePatterns"`
	FollowSymlinks bool     `mapstructure:"followSymlinks"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("search.roots", []string{"."})
	viper.SetDefault("search.maxDepth", internal.DefaultMaxDepth)
	viper.SetDefault("search.workers", 0) // 0 = available CPU cores
	viper.SetDefault("search.backend", internal.DefaultBackend)
	viper.SetDefault("search.followSymlinks", internal.DefaultFollowSymlinks)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. search.maxDepth becomes SEARCH_MAXDEPTH

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := AppConfig.Search.Validate(); err != nil {
		return nil, err
	}

	return &AppConfig, nil
}

// Validate checks the search configuration for the fatal configuration
// errors that must be reported before any worker starts.
func (sc *SearchConfig) Validate() error {
	if sc.Target == "" && sc.Pattern == "" {
		return common.ErrTargetEmpty
	}
	if sc.Target != "" && sc.Pattern != "" {
		return common.ErrTargetConflict
	}
	if len(sc.Roots) == 0 {
		return common.ErrNoRoots
	}
	if sc.Workers < 0 {
		return common.ErrWorkerCount
	}
	switch search.Backend(sc.Backend) {
	case search.BackendQueue, search.BackendPool:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownBackend, sc.Backend)
	}
	return nil
}

// ToOptions bridges the decoded configuration into search options,
// compiling nothing: pattern compilation happens in search.New so that
// invalid patterns surface as its fatal startup error.
func (sc *SearchConfig) ToOptions() search.Options {
	workers := sc.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// A negative configured depth means unlimited; only a non-negative
	// value becomes an explicit cutoff.
	var maxDepth *int
	if sc.MaxDepth >= 0 {
		depth := sc.MaxDepth
		maxDepth = &depth
	}

	return search.Options{
		Target:         sc.Target,
		Pattern:        sc.Pattern,
		Roots:          sc.Roots,
		MaxDepth:       maxDepth,
		Workers:        workers,
		Backend:        search.Backend(sc.Backend),
		IgnorePatterns: sc.IgnorePatterns,
		IgnoreSymlinks: !sc.FollowSymlinks,
	}
}
