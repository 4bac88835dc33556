// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// Config is the top-level MediaVault configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Vision  VisionConfig  `mapstructure:"vision"`
	Backup  BackupConfig  `mapstructure:"backup"`
}

// ServerConfig controls how the API server listens for connections.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// StorageConfig locates the asset store on disk.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// VisionConfig points at the embedding sidecar and the video tooling.
type VisionConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Dimensions int    `mapstructure:"dimensions"`
	FFmpegBin  string `mapstructure:"ffmpeg_bin"`
	FFprobeBin string `mapstructure:"ffprobe_bin"`
}

// BackupConfig sets the default backup destination.
type BackupConfig struct {
	Destination string `mapstructure:"destination"`
}

// SetDefaults installs the default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "127.0.0.1:8791")
	v.SetDefault("storage.dir", "mediavault-data")
	v.SetDefault("vision.endpoint", "http://127.0.0.1:8766")
	v.SetDefault("vision.dimensions", 512)
	v.SetDefault("vision.ffmpeg_bin", "ffmpeg")
	v.SetDefault("vision.ffprobe_bin", "ffprobe")
}

// SetupEnv binds MEDIAVAULT_-prefixed environment variables, with dots in
// config keys mapped to underscores.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("MEDIAVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper unmarshals and validates a Config from a prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, mverr.Errorf(mverr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, mverr.Errorf(mverr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix MEDIAVAULT_).
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, mverr.Errorf(mverr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// Validate checks the configuration for logical errors. It returns a slice
// of all validation errors found, collecting all issues rather than
// stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateVision()...)

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	host, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}
	_ = host // host can be empty (e.g., ":8791"), which is valid

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q",
			portStr,
		))
	} else if port < 1 || port > 65535 {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 1 and 65535, got %d",
			port,
		))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	if c.Storage.Dir == "" {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue, "config: storage.dir must not be empty"))
	}

	return errs
}

func (c *Config) validateVision() []error {
	var errs []error

	if c.Vision.Endpoint == "" {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue, "config: vision.endpoint must not be empty"))
	} else if !strings.HasPrefix(c.Vision.Endpoint, "http://") && !strings.HasPrefix(c.Vision.Endpoint, "https://") {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue,
			"config: vision.endpoint must be an http(s) URL, got %q",
			c.Vision.Endpoint,
		))
	}

	if c.Vision.Dimensions <= 0 {
		errs = append(errs, mverr.Errorf(mverr.CodeConfigValidateInvalidValue,
			"config: vision.dimensions must be greater than 0, got %d",
			c.Vision.Dimensions,
		))
	}

	return errs
}
