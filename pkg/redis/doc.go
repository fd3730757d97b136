// Package redis connects to Redis and exposes it as a key-value store.
//
// Connect retries the initial ping according to Config, so the daemon can
// start before Redis is reachable. Store implements the Get/Set/Delete
// contract the notification ledger persists through, and Healthcheck plugs
// into the API's /healthz probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	kv := redis.NewStore(client, cfg.KeyPrefix)
//
// Sentinel errors wrap go-redis errors with errors.Join.
package redis
