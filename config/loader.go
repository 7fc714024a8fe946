// Package config loads client configuration from YAML files and the
// environment.
//
// Loading is opt-in: the client itself only ever reads its Config struct.
// Callers that keep connection settings in files use this package to fill
// that struct:
//
//	var cfg cloudshell.Config
//	err := config.Load("cloudshell", &cfg, config.WithConfigFile("cloudshell.yml"))
//
// Precedence, lowest to highest: YAML file, .env file, process environment.
// Environment variables are matched by prefix: CLOUDSHELL_HOST fills the
// "host" key when loading with name "cloudshell".
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit YAML file path. When empty, Load tries
	// ./{name}.yml and ./config.yml.
	ConfigFile string
	// EnvFile is an explicit .env file path. When empty, Load tries ./.env.
	EnvFile string
	// EnvPrefix overrides the environment variable prefix. Defaults to the
	// uppercased name.
	EnvPrefix string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithConfigFile sets an explicit YAML config file path.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

// Load fills cfg from YAML, .env and environment variables.
func Load(name string, cfg any, opts ...Option) error {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.EnvPrefix == "" {
		o.EnvPrefix = strings.ToUpper(name)
	}

	v := viper.New()

	if path := resolveConfigFile(name, o.ConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if path := resolveEnvFile(o.EnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	bindPrefixedEnv(v, o.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	return nil
}

func resolveConfigFile(name, explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, path := range []string{name + ".yml", name + ".yaml", "config.yml"} {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func resolveEnvFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fileExists(".env") {
		return ".env"
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// bindPrefixedEnv maps PREFIX_SOME_KEY environment variables onto viper keys.
// Underscores after the prefix become nesting dots, and the flat form is set
// too, so PREFIX_RETRY_MAX matches both "retry.max" and "retry_max".
func bindPrefixedEnv(v *viper.Viper, prefix string) {
	p := prefix + "_"
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, p) {
			continue
		}
		rest := strings.ToLower(strings.TrimPrefix(key, p))
		v.Set(rest, value)
		if strings.Contains(rest, "_") {
			v.Set(strings.ReplaceAll(rest, "_", "."), value)
		}
	}
}
