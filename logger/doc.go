// Package logger wraps zerolog with a small structured-logging API.
//
// The library never logs unless a logger is injected; Nop() is the
// default everywhere. Construct one explicitly to see client activity:
//
//	cfg.Logger = logger.New(logger.Config{Level: "debug", Format: "console"})
package logger
