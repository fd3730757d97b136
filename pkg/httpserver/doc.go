// Package httpserver runs the control API listener.
//
// Server.Run serves a handler until its context is cancelled and then drains
// in-flight requests within the configured shutdown timeout, which makes it a
// natural errgroup member next to the monitor and sync loops:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// HealthCheckHandler aggregates named dependency probes (KV store, Redis,
// Postgres) into one JSON readiness response.
package httpserver
