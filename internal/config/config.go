// Package config loads the sigc configuration from sigc.yaml, SIGC_
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the base name of the configuration file looked up in the
// working directory.
const FileName = "sigc"

const EnvPrefix = "SIGC"

type Config struct {
	Compiler CompilerConfig `mapstructure:"compiler" yaml:"compiler"`
	Build    BuildConfig    `mapstructure:"build" yaml:"build"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type CompilerConfig struct {
	RuntimePath string `mapstructure:"runtime_path" yaml:"runtime_path"`
	Prefix      string `mapstructure:"prefix" yaml:"prefix"`
}

type BuildConfig struct {
	OutDir  string   `mapstructure:"out_dir" yaml:"out_dir"`
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			RuntimePath: "sig/runtime",
			Prefix:      "x",
		},
		Build: BuildConfig{
			OutDir:  "dist",
			Include: []string{"**/*.sig"},
			Exclude: []string{"node_modules/**", ".git/**"},
		},
		Watch: WatchConfig{Debounce: 100 * time.Millisecond},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// New returns a viper instance with defaults and environment overrides set
// up. file is an explicit configuration file; when empty sigc.yaml is looked
// up in the working directory.
func New(file string) *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("compiler.runtime_path", d.Compiler.RuntimePath)
	v.SetDefault("compiler.prefix", d.Compiler.Prefix)
	v.SetDefault("build.out_dir", d.Build.OutDir)
	v.SetDefault("build.include", d.Build.Include)
	v.SetDefault("build.exclude", d.Build.Exclude)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file of v, if any, and decodes the result.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	// Slices set through the environment arrive as a single string.
	cfg.Build.Include = v.GetStringSlice("build.include")
	cfg.Build.Exclude = v.GetStringSlice("build.exclude")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	ErrInvalidPrefix  = errors.New("compiler prefix must be a lowercase name without hyphens")
	ErrInvalidLevel   = errors.New("log level must be debug, info, warn or error")
	ErrInvalidFormat  = errors.New("log format must be text or json")
	ErrInvalidPattern = errors.New("invalid include pattern")
)

func (c *Config) Validate() error {
	var errs []error

	if !validPrefix(c.Compiler.Prefix) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPrefix, c.Compiler.Prefix))
	}
	if c.Compiler.RuntimePath == "" {
		errs = append(errs, errors.New("compiler runtime path is empty"))
	}
	if c.Build.OutDir == "" {
		errs = append(errs, errors.New("build output directory is empty"))
	}
	for _, pattern := range append(append([]string{}, c.Build.Include...), c.Build.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
		}
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch debounce must not be negative, got %s", c.Watch.Debounce))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLevel, c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFormat, c.Log.Format))
	}

	return errors.Join(errs...)
}

func validPrefix(p string) bool {
	if p == "" {
		return false
	}
	for i, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
