package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Option tweaks a single Load call.
type Option func(*options)

type options struct {
	prefix     string
	files      []string
	environ    map[string]string
	skipDotenv bool
}

// WithPrefix prepends prefix to every env tag, e.g. "STOCKALERT_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles loads the given dotenv files before parsing.
// Unlike the default .env lookup, a missing file is an error.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithEnvironment parses from the given map instead of the process
// environment. No dotenv file is read in that mode.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
		o.skipDotenv = true
	}
}

// Load parses environment variables into v based on its `env` and
// `envDefault` struct tags.
//
// The default .env file in the working directory is read once per process
// if present; its absence is not an error.
//
// Example:
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg, config.WithPrefix("STOCKALERT_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if !o.skipDotenv {
		defaultEnvLoaded.Do(func() {
			_ = godotenv.Load()
		})
	}
	if len(o.files) > 0 {
		if err := godotenv.Load(o.files...); err != nil {
			return errors.Join(ErrEnvFile, err)
		}
	}

	parseOpts := env.Options{Prefix: o.prefix}
	if o.environ != nil {
		parseOpts.Environment = o.environ
	}

	if err := env.ParseWithOptions(v, parseOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
