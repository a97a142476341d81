package app

import (
	"io"
	"os"

	"github.com/guttosm/giga-bot/config"
	"github.com/guttosm/giga-bot/internal/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitializeLogger configures the global logger from the log section of the configuration.
func InitializeLogger(cfg config.LogConfig) {
	initializeLogger(cfg, os.Stderr)
}

func initializeLogger(cfg config.LogConfig, out io.Writer) {
	logger.InitWithWriter(cfg.Level, cfg.Pretty, out)
	log.Debug().
		Str("level", zerolog.GlobalLevel().String()).
		Bool("pretty", cfg.Pretty).
		Msg("Logger initialized")
}
