// Package config holds the engine's immutable configuration and the
// layered loading (defaults -> config file -> environment) used by the CLI,
// mirroring the config-over-viper pattern direktiv-vorteil's CLI uses.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrConfigInvalid is the sentinel for every configuration validation
// failure.
var ErrConfigInvalid = errors.New("config: invalid")

// Config is the engine's immutable configuration.
type Config struct {
	DataPath    string `mapstructure:"data_path"`
	DataDisks   int    `mapstructure:"data_disks"`
	ParityDisks int    `mapstructure:"parity_disks"`
	BlockSize   int    `mapstructure:"block_size"`
	DiskSize    int64  `mapstructure:"disk_size"`

	LogLevel    string `mapstructure:"log_level"`
	LogFilePath string `mapstructure:"log_file_path"`
}

// Defaults returns the built-in baseline configuration before any config
// file or flag overrides are applied.
func Defaults() Config {
	return Config{
		DataPath:    "./data",
		DataDisks:   6,
		ParityDisks: ParityDisks,
		BlockSize:   4096,
		DiskSize:    4096 * 1024,
		LogLevel:    LogLevelInfo,
		LogFilePath: LogFilePath,
	}
}

// Load layers defaults, an optional raid6store config file (searched via
// viper along configPath), and environment variables, returning the
// resulting Config. It does not validate — call Validate separately so CLI
// callers can report validation errors distinctly from load errors.
func Load(configPath string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigName("raid6store")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("RAID6STORE")
	v.AutomaticEnv()

	v.SetDefault("data_path", cfg.DataPath)
	v.SetDefault("data_disks", cfg.DataDisks)
	v.SetDefault("parity_disks", cfg.ParityDisks)
	v.SetDefault("block_size", cfg.BlockSize)
	v.SetDefault("disk_size", cfg.DiskSize)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file_path", cfg.LogFilePath)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, errors.Wrap(err, "config: read config file")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "config: unmarshal")
	}
	return cfg, nil
}

// Validate enforces the engine's configuration invariants: exactly two
// parity disks, and disk_size must be an exact multiple of block_size.
func (c Config) Validate() error {
	if c.ParityDisks != ParityDisks {
		return errors.Wrapf(ErrConfigInvalid, "parity_disks must be %d, got %d", ParityDisks, c.ParityDisks)
	}
	if c.DataDisks < 2 {
		return errors.Wrapf(ErrConfigInvalid, "data_disks must be >= 2, got %d", c.DataDisks)
	}
	if c.BlockSize <= 0 {
		return errors.Wrapf(ErrConfigInvalid, "block_size must be positive, got %d", c.BlockSize)
	}
	if c.DiskSize%int64(c.BlockSize) != 0 {
		return errors.Wrapf(ErrConfigInvalid, "disk_size (%d) must be a multiple of block_size (%d)", c.DiskSize, c.BlockSize)
	}
	return nil
}

// StripeCount returns K = disk_size / block_size.
func (c Config) StripeCount() int {
	return int(c.DiskSize / int64(c.BlockSize))
}

// StripeSize returns Z = data_disks * block_size, the usable bytes per
// stripe.
func (c Config) StripeSize() int {
	return c.DataDisks * c.BlockSize
}

// Width returns W = data_disks + parity_disks.
func (c Config) Width() int {
	return c.DataDisks + c.ParityDisks
}
