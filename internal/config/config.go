// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/spyral-ai/ignite/internal/core"
	"github.com/spyral-ai/ignite/pkg/cuda"
	"github.com/spyral-ai/ignite/pkg/kernel"
	"github.com/spyral-ai/ignite/pkg/software"
)

const EnvPrefix = "IGNITE"

const (
	CandidateSourceApt    = "apt"
	CandidateSourceSyspkg = "syspkg"

	RebootMethodCommand = "command"
	RebootMethodSystemd = "systemd"
)

// Config holds the global configuration for the application.
type Config struct {
	Log           logx.LoggingConfig `yaml:"log" json:"log"`
	CloudProvider string             `yaml:"cloudProvider" json:"cloudProvider" mapstructure:"cloudProvider"`
	Cuda          CudaConfig         `yaml:"cuda" json:"cuda"`
	Paths         PathsConfig        `yaml:"paths" json:"paths"`
	Fetch         FetchConfig        `yaml:"fetch" json:"fetch"`
	Kernel        KernelConfig       `yaml:"kernel" json:"kernel"`
	Runner        RunnerConfig       `yaml:"runner" json:"runner"`
	Reboot        RebootConfig       `yaml:"reboot" json:"reboot"`
}

// CudaConfig represents the `cuda` configuration block.
type CudaConfig struct {
	Version     string `yaml:"version" json:"version"`
	ProfileFile string `yaml:"profileFile" json:"profileFile" mapstructure:"profileFile"`
}

// PathsConfig overrides the directories in core.Paths(); empty values keep the defaults.
type PathsConfig struct {
	CacheDir string `yaml:"cacheDir" json:"cacheDir" mapstructure:"cacheDir"`
	LogsDir  string `yaml:"logsDir" json:"logsDir" mapstructure:"logsDir"`
	TempDir  string `yaml:"tempDir" json:"tempDir" mapstructure:"tempDir"`
}

type FetchConfig struct {
	Transport string        `yaml:"transport" json:"transport"` // curl or http
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`     // only used by the http transport
	Retries   int           `yaml:"retries" json:"retries"`     // only used by the curl transport
}

type KernelConfig struct {
	CandidateSource string `yaml:"candidateSource" json:"candidateSource" mapstructure:"candidateSource"` // apt or syspkg
}

type RunnerConfig struct {
	RetryDelay time.Duration `yaml:"retryDelay" json:"retryDelay" mapstructure:"retryDelay"`
}

type RebootConfig struct {
	Method string `yaml:"method" json:"method"` // command or systemd
}

// Validate checks every enumerated or parsed value and returns errorx.IllegalArgument on the first bad one.
func (c Config) Validate() error {
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid log level: %s", c.Log.Level)
		}
	}

	if _, err := kernel.ParsePlatform(c.CloudProvider); err != nil {
		return err
	}

	if _, err := cuda.Lookup(c.Cuda.Version); err != nil {
		return err
	}

	switch c.Fetch.Transport {
	case "", software.TransportCommand, software.TransportHTTP:
	default:
		return errorx.IllegalArgument.New("invalid fetch transport %q, expected %q or %q",
			c.Fetch.Transport, software.TransportCommand, software.TransportHTTP)
	}

	if c.Fetch.Timeout < 0 {
		return errorx.IllegalArgument.New("fetch timeout must not be negative: %s", c.Fetch.Timeout)
	}

	if c.Fetch.Retries < 0 {
		return errorx.IllegalArgument.New("fetch retries must not be negative: %d", c.Fetch.Retries)
	}

	switch c.Kernel.CandidateSource {
	case "", CandidateSourceApt, CandidateSourceSyspkg:
	default:
		return errorx.IllegalArgument.New("invalid kernel candidate source %q, expected %q or %q",
			c.Kernel.CandidateSource, CandidateSourceApt, CandidateSourceSyspkg)
	}

	if c.Runner.RetryDelay < 0 {
		return errorx.IllegalArgument.New("runner retry delay must not be negative: %s", c.Runner.RetryDelay)
	}

	switch c.Reboot.Method {
	case "", RebootMethodCommand, RebootMethodSystemd:
	default:
		return errorx.IllegalArgument.New("invalid reboot method %q, expected %q or %q",
			c.Reboot.Method, RebootMethodCommand, RebootMethodSystemd)
	}

	return nil
}

// AppPaths merges the configured directories into the defaults
func (c Config) AppPaths() core.AppPaths {
	p := core.Paths()
	if c.Paths.CacheDir != "" {
		p.CacheDir = c.Paths.CacheDir
	}
	if c.Paths.LogsDir != "" {
		p.LogsDir = c.Paths.LogsDir
	}
	if c.Paths.TempDir != "" {
		p.TempDir = c.Paths.TempDir
	}
	return p
}

func defaultConfig() Config {
	return Config{
		Log: logx.LoggingConfig{
			Level:          "Debug",
			ConsoleLogging: true,
			FileLogging:    false,
		},
		CloudProvider: string(kernel.DefaultPlatform),
		Cuda: CudaConfig{
			Version:     cuda.DefaultVersion,
			ProfileFile: cuda.DefaultProfileFile,
		},
		Fetch: FetchConfig{
			Transport: software.TransportCommand,
			Timeout:   30 * time.Minute,
		},
		Kernel: KernelConfig{
			CandidateSource: CandidateSourceApt,
		},
		Runner: RunnerConfig{
			RetryDelay: time.Second,
		},
		Reboot: RebootConfig{
			Method: RebootMethodCommand,
		},
	}
}

var globalConfig = defaultConfig()

// Initialize loads the configuration from the specified file on top of the defaults.
//
// Every key can be overridden through the environment with the IGNITE_ prefix,
// e.g. IGNITE_CUDA_VERSION for cuda.version. Environment overrides are only read
// together with a config file: with an empty path the defaults are kept as they are.
//
// Parameters:
//   - path: The path to the configuration file.
//
// Returns:
//   - An error if the configuration cannot be loaded or is invalid.
func Initialize(path string) error {
	if path == "" {
		return nil
	}

	cfg := defaultConfig()
	viper.Reset()
	viper.SetConfigFile(path)
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viper.ReadInConfig()
	if err != nil {
		return NotFoundError.Wrap(err, "failed to read config file: %s", path).
			WithProperty(errorx.PropertyPayload(), path)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return errorx.IllegalFormat.Wrap(err, "failed to parse configuration").
			WithProperty(errorx.PropertyPayload(), path)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	globalConfig = cfg
	return nil
}

// Get returns the loaded configuration.
func Get() Config {
	return globalConfig
}

func Set(c *Config) error {
	if c == nil {
		return errorx.IllegalArgument.New("config must not be nil")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	globalConfig = *c
	return nil
}

// Reset restores the defaults
func Reset() {
	globalConfig = defaultConfig()
}

// OverrideCloudProvider sets the cloud provider from a flag; an empty value is ignored.
func OverrideCloudProvider(name string) error {
	if name == "" {
		return nil
	}
	p, err := kernel.ParsePlatform(name)
	if err != nil {
		return err
	}
	globalConfig.CloudProvider = string(p)
	return nil
}

// OverrideCudaVersion sets the CUDA release from a flag; an empty value is ignored.
func OverrideCudaVersion(version string) error {
	if version == "" {
		return nil
	}
	if _, err := cuda.Lookup(version); err != nil {
		return err
	}
	globalConfig.Cuda.Version = version
	return nil
}
