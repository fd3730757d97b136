// Package logger builds *slog.Logger instances for the stock alert engine.
//
// New applies functional options (format, level, output, static attributes,
// environment presets) and wraps the handler with LogHandlerDecorator, which
// runs ContextExtractor callbacks on every record. PassIDExtractor is the
// extractor used by the monitor so that every line logged during one
// sampling pass carries the same "pass_id".
//
// Attribute helpers in attr.go keep key names consistent across packages:
//
//	log.LogAttrs(ctx, slog.LevelWarn, "delivery failed",
//	    logger.NotificationID(n.ID),
//	    logger.Channel(pkg.ChannelID),
//	    logger.Error(err),
//	)
//
// Error returns an empty attribute for a nil error, so callers do not need
// a nil check before logging.
package logger
