// Package config loads typed configuration from environment variables.
//
// It is a thin layer over github.com/caarlos0/env/v11 that also reads an
// optional .env file through github.com/joho/godotenv. Prefixes let several
// components share one struct layout (for example Redis settings used by both
// the key-value store and the dedup cache), and WithEnvironment makes loading
// deterministic in tests.
package config
