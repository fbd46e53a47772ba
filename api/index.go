package handler

import (
	"net/http"

	"github.com/arnavshah/duty-roster-go/internal/app"
	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var r *gin.Engine

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	// serverless filesystems are read-only, so log to stderr only
	logging.Init(cfg.Verbose, "")

	r, err = app.NewRouter(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize router")
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
