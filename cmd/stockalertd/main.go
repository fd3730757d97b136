package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/stockalert/pkg/api"
	"github.com/dmitrymomot/stockalert/pkg/backend"
	"github.com/dmitrymomot/stockalert/pkg/config"
	"github.com/dmitrymomot/stockalert/pkg/dedup"
	"github.com/dmitrymomot/stockalert/pkg/email"
	"github.com/dmitrymomot/stockalert/pkg/httpserver"
	"github.com/dmitrymomot/stockalert/pkg/inventory"
	"github.com/dmitrymomot/stockalert/pkg/kvstore"
	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/mongo"
	"github.com/dmitrymomot/stockalert/pkg/monitor"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
	"github.com/dmitrymomot/stockalert/pkg/pg"
	"github.com/dmitrymomot/stockalert/pkg/push"
	"github.com/dmitrymomot/stockalert/pkg/redis"
	"github.com/dmitrymomot/stockalert/pkg/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("stockalertd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Environment, cfg.ServiceName),
		logger.WithContextExtractors(logger.PassIDExtractor, requestid.Extractor),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	var rdb *goredis.Client
	if cfg.needsRedis() {
		var err error
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	w := &wiring{apiOpts: []api.Option{api.WithLogger(log)}}
	defer w.close()

	kv, err := w.openKV(ctx, cfg, rdb)
	if err != nil {
		return err
	}

	source, err := w.openSource(ctx, cfg, log)
	if err != nil {
		return err
	}

	storeOpts := []notifications.StoreOption{
		notifications.WithStoreLogger(log),
		notifications.WithBackendTimeout(cfg.BackendTimeout),
	}
	prefs := notifications.NewPreferencesStore(kv)
	routerOpts := []notifications.RouterOption{
		notifications.WithRouterLogger(log),
		notifications.WithRouterPreferences(prefs),
		notifications.WithRouterBackendTimeout(cfg.BackendTimeout),
	}
	if cfg.BackendURL != "" {
		client := backend.New(cfg.BackendURL,
			backend.WithBearerToken(cfg.BackendToken),
			backend.WithLogger(log),
		)
		storeOpts = append(storeOpts, notifications.WithBackend(client))
		routerOpts = append(routerOpts, notifications.WithRouterBackend(client))
	}

	store := notifications.NewStore(kv, storeOpts...)
	if err := store.Load(ctx); err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "starting with an empty notification ledger", logger.Error(err))
	}

	subs := push.NewSubscriptionStore(kv)
	channels, err := w.buildChannels(cfg, log, subs)
	if err != nil {
		return err
	}
	router := notifications.NewRouter(store,
		notifications.NewMultiChannel(channels, notifications.WithMultiChannelLogger(log)),
		routerOpts...,
	)

	var dd monitor.Deduplicator = dedup.NewMemory()
	if cfg.DedupBackend == kvRedis {
		dd = dedup.NewRedis(rdb, cfg.Redis.KeyPrefix+dedup.DefaultRedisPrefix)
	}

	mon := monitor.New(source, router, dd, prefs,
		monitor.WithLogger(log),
		monitor.WithDedupTTL(cfg.DedupTTL),
		monitor.WithInterval(cfg.CheckInterval),
	)

	w.apiOpts = append(w.apiOpts,
		api.WithChecker(mon),
		api.WithPreferences(prefs),
	)
	handler := api.New(store, w.apiOpts...)
	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(mon.Run(gctx))
	g.Go(func() error { return srv.Run(gctx, handler.Router()) })
	if cfg.BackendURL != "" && cfg.SyncInterval > 0 {
		g.Go(func() error {
			_ = store.Sync(gctx)
			if err := store.RunSync(gctx, cfg.SyncInterval); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	log.LogAttrs(ctx, slog.LevelInfo, "stockalertd started",
		slog.String("kv_backend", cfg.KVBackend),
		slog.String("dedup_backend", cfg.DedupBackend),
		slog.String("inventory_source", cfg.InventorySource),
		logger.Count("channel_count", len(channels)),
	)

	err = g.Wait()

	// Background backend writes run detached from ctx; give them a moment.
	drained := make(chan struct{})
	go func() {
		router.Wait()
		store.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(cfg.BackendTimeout):
		log.LogAttrs(context.Background(), slog.LevelWarn, "gave up waiting for backend writes")
	}

	log.LogAttrs(context.Background(), slog.LevelInfo, "stockalertd stopped")
	return err
}

// wiring collects optional API routes and shutdown hooks while the daemon is assembled.
type wiring struct {
	apiOpts []api.Option
	closers []func()
}

func (w *wiring) onClose(fn func()) {
	w.closers = append(w.closers, fn)
}

func (w *wiring) close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
}

func (w *wiring) openKV(ctx context.Context, cfg appConfig, rdb *goredis.Client) (notifications.KeyValueStore, error) {
	switch cfg.KVBackend {
	case kvSQLite:
		db, err := kvstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		w.onClose(func() { _ = db.Close() })
		w.apiOpts = append(w.apiOpts, api.WithHealthCheck("sqlite", db.Healthcheck))
		return db, nil
	case kvRedis:
		w.apiOpts = append(w.apiOpts, api.WithHealthCheck("redis", redis.Healthcheck(rdb)))
		return redis.NewStore(rdb, cfg.Redis.KeyPrefix), nil
	case kvMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		w.onClose(func() { _ = client.Disconnect(context.Background()) })
		w.apiOpts = append(w.apiOpts, api.WithHealthCheck("mongo", mongo.Healthcheck(client)))
		return mongo.NewStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)), nil
	case kvMemory:
		return kvstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
	}
}

func (w *wiring) openSource(ctx context.Context, cfg appConfig, log *slog.Logger) (inventory.Source, error) {
	switch cfg.InventorySource {
	case sourceHTTP:
		return inventory.NewHTTPSource(cfg.InventoryURL, inventory.WithBearerToken(cfg.InventoryToken)), nil
	case sourcePostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		w.onClose(pool.Close)
		if cfg.Postgres.Migrate {
			if err := pg.Migrate(ctx, pool, inventory.Migrations(), log); err != nil {
				return nil, err
			}
		}
		w.apiOpts = append(w.apiOpts, api.WithHealthCheck("postgres", pg.Healthcheck(pool)))
		return inventory.NewPostgresSource(pool), nil
	default:
		return nil, fmt.Errorf("unknown INVENTORY_SOURCE %q", cfg.InventorySource)
	}
}

func (w *wiring) buildChannels(cfg appConfig, log *slog.Logger, subs *push.SubscriptionStore) ([]notifications.Channel, error) {
	channels := []notifications.Channel{logChannel(log)}

	if cfg.Push.Enabled() {
		svc, err := push.NewService(cfg.Push, subs, push.WithLogger(log))
		if err != nil {
			return nil, err
		}
		channels = append(channels, svc)
		w.apiOpts = append(w.apiOpts, api.WithSubscriptions(subs, svc.VAPIDPublicKey()))
	}

	if cfg.Email.Enabled() {
		var sender email.Sender
		if cfg.Email.DevDir != "" {
			sender = email.NewDevSender(cfg.Email.DevDir)
		} else {
			client, err := email.NewPostmarkClient(cfg.Email)
			if err != nil {
				return nil, err
			}
			sender = client
		}
		channels = append(channels, email.NewChannel(sender, cfg.Email.Recipients,
			email.WithThreshold(cfg.Email.Threshold()),
			email.WithChannelLogger(log),
		))
	}

	return channels, nil
}

// logChannel records every delivered package in the service log.
func logChannel(log *slog.Logger) notifications.Channel {
	return notifications.ChannelFunc(func(ctx context.Context, pkg notifications.Package) error {
		log.LogAttrs(ctx, slog.LevelInfo, pkg.Title,
			logger.Channel(pkg.ChannelID),
			logger.NotificationID(pkg.UserInfo.NotificationID),
			slog.String("priority", string(pkg.Priority)),
			slog.String("message", pkg.Message),
		)
		return nil
	})
}
