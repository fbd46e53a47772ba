package main

import (
	"github.com/arnavshah/duty-roster-go/internal/app"
	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Verbose, cfg.LogDir)

	r, err := app.NewRouter(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("could not run server")
	}
}
