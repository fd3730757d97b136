package main

import (
	"time"

	"github.com/dmitrymomot/stockalert/pkg/email"
	"github.com/dmitrymomot/stockalert/pkg/httpserver"
	"github.com/dmitrymomot/stockalert/pkg/mongo"
	"github.com/dmitrymomot/stockalert/pkg/pg"
	"github.com/dmitrymomot/stockalert/pkg/push"
	"github.com/dmitrymomot/stockalert/pkg/redis"
)

// Backend selectors.
const (
	kvSQLite = "sqlite"
	kvRedis  = "redis"
	kvMongo  = "mongo"
	kvMemory = "memory"

	sourceHTTP     = "http"
	sourcePostgres = "postgres"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"stockalertd"`
	LogLevel    string `env:"LOG_LEVEL"` // overrides the environment preset

	KVBackend  string `env:"KV_BACKEND" envDefault:"sqlite"` // sqlite | redis | mongo | memory
	SQLitePath string `env:"SQLITE_PATH" envDefault:"stockalert.db"`

	DedupBackend string        `env:"DEDUP_BACKEND" envDefault:"memory"` // memory | redis
	DedupTTL     time.Duration `env:"DEDUP_TTL" envDefault:"24h"`

	InventorySource string `env:"INVENTORY_SOURCE" envDefault:"http"` // http | postgres
	InventoryURL    string `env:"INVENTORY_URL" envDefault:"http://localhost:3000/api"`
	InventoryToken  string `env:"INVENTORY_TOKEN"`

	CheckInterval time.Duration `env:"CHECK_INTERVAL"` // zero uses the stored preferences

	BackendURL     string        `env:"BACKEND_URL"` // empty disables remote sync
	BackendToken   string        `env:"BACKEND_TOKEN"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	SyncInterval   time.Duration `env:"SYNC_INTERVAL" envDefault:"5m"`

	HTTP     httpserver.Config
	Redis    redis.Config
	Mongo    mongo.Config
	Postgres pg.Config
	Push     push.Config
	Email    email.Config
}

func (c appConfig) needsRedis() bool {
	return c.KVBackend == kvRedis || c.DedupBackend == kvRedis
}
