// Package mongo connects to MongoDB and exposes a collection as the
// notification key-value store (KV_BACKEND=mongo).
//
//	client, err := mongo.Connect(ctx, cfg)
//	kv := mongo.NewStore(client.Database(cfg.Database).Collection(cfg.Collection))
package mongo
