package commands

import (
	"github.com/arnavshah/duty-roster-go/internal/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port != "" {
			cfg.Port = port
		}
		r, err := app.NewRouter(cfg)
		if err != nil {
			return err
		}
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		return r.Run(":" + cfg.Port)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from PORT)")
}
