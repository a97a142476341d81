// Package main is the entry point for the giga-bot webhook service.
package main

import (
	"github.com/guttosm/giga-bot/config"
	"github.com/guttosm/giga-bot/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Initialization failed")
	}

	if err := application.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
