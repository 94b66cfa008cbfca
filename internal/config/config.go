// Package config loads redisx's startup configuration: a listen address,
// a shard count, a sweep interval and logging verbosity. Values come
// from (lowest to highest precedence) built-in defaults, an optional
// config.yaml in the working directory, and REDISX_-prefixed environment
// variables; cmd/server layers command-line flags on top of the result.
package config

import (
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Sweep   SweepConfig   `mapstructure:"sweep"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds the TCP listen address.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// StorageConfig controls the sharded keyspace.
type StorageConfig struct {
	Shards int `mapstructure:"shards"`
}

// SweepConfig controls the periodic active-expiration pass.
type SweepConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LogConfig controls logging verbosity and output encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Load reads configuration from an optional config.yaml under path,
// falling back to built-in defaults, and applies REDISX_-prefixed
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("REDISX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultShardCount mirrors hardware concurrency, clamped to a sane
// floor, matching the original reference's "0 means auto" rule.
func DefaultShardCount() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "6379")

	v.SetDefault("storage.shards", DefaultShardCount())

	v.SetDefault("sweep.interval", "200ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
