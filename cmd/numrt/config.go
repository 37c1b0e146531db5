package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/numrt/host"
)

// config is read from the environment first; flags override it.
type config struct {
	ModuleName       string `env:"NUMRT_MODULE_NAME"        envDefault:"numrt"`
	LogLevel         string `env:"NUMRT_LOG_LEVEL"          envDefault:"warn"`
	MemoryLimitPages uint32 `env:"NUMRT_MEMORY_LIMIT_PAGES" envDefault:"16"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c config) hostConfig() host.Config {
	return host.Config{
		ModuleName:       c.ModuleName,
		MemoryLimitPages: c.MemoryLimitPages,
	}
}

// newLogger builds a development logger writing to stderr at the
// configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
