package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvPrefix     = "SACKIGAMI_"
	EnvConfigFile = EnvPrefix + "CONFIG"
	DefaultDotEnv = ".env"
)

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file         string
	dotEnv       string
	dotEnvStrict bool
}

// WithFile loads a YAML file, taking precedence over SACKIGAMI_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
		}
	}
}

// WithDotEnv reads path into the environment before env vars are applied.
// Unlike the default .env, an explicit file must exist.
func WithDotEnv(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.dotEnv = path
			o.dotEnvStrict = true
		}
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from WithFile or SACKIGAMI_CONFIG
//  3. .env file, never overriding variables already set
//  4. env (prefix SACKIGAMI_)
func Load(_ context.Context, opts ...LoadOption) (*Config, error) {
	o := loadOptions{dotEnv: DefaultDotEnv}
	for _, opt := range opts {
		opt(&o)
	}

	base := New()
	k := koanf.New(".")

	path := o.file
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := godotenv.Load(o.dotEnv); err != nil {
		if o.dotEnvStrict || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.dotEnv, err)
		}
	}

	// SACKIGAMI_LEDGER_PATH -> ledger_path. Underscores are kept to match
	// the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return &cfg, nil
}
