// Package logger provides structured logging for datastream built on zerolog.
//
// It exposes a small wrapper with component tagging, field helpers, a global
// logger, and a named-logger registry so each package logs under its own
// component name:
//
//	log := logger.Get("stream")
//	log.Debug("iterator opened", logger.Fields("source", "imdb"))
package logger
