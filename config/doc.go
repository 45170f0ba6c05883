// Package config loads the datastream configuration section from YAML
// files, .env files, and DATASTREAM_* environment variables.
//
// # Resolution Order
//
// Later sources win: the YAML config file is the base, a .env file can
// extend the process environment, and environment variables override
// everything. When no file is found, loading proceeds on environment
// variables and defaults alone.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	logger.Init(cfg.Logging)
package config
