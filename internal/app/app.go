package app

import (
	"fmt"

	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/pkg/auth"
	"github.com/arnavshah/duty-roster-go/pkg/database"
	"github.com/arnavshah/duty-roster-go/pkg/handlers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewRouter opens the database, seeds the admin user and returns the HTTP router
func NewRouter(cfg *config.AppConfig) (*gin.Engine, error) {
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("seed admin user: %w", err)
	}
	if cfg.JWTSecret == "" || cfg.APIMasterSecret == "" {
		log.Warn().Msg("JWT_SECRET or API_MASTER_SECRET is empty; tokens and keys are signed with an empty secret")
	}

	authn := auth.NewAuthenticator(cfg.JWTSecret, cfg.APIMasterSecret)
	h := handlers.New(db, authn, log.Logger)
	return handlers.NewRouter(h), nil
}
