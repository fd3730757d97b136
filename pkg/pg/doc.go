// Package pg opens pgx connection pools for the Postgres inventory source.
//
// Connect retries until the database answers a ping, Healthcheck feeds the
// API's /healthz probe, and Migrate applies an embedded goose migration set.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
package pg
