// Package logging builds the process-wide zap logger and carries
// per-conversation correlation IDs through context.
//
// Library packages take a *zap.Logger directly; this package is the
// place the CLI constructs one from config. ContextFields pulls trace,
// session and call correlation out of a context so call sites can do
//
//	logger.Info("msg", logging.ContextFields(ctx)...)
//
// without threading IDs by hand.
package logging
