package commands

import (
	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "roster builds monthly duty rosters",
	Long: `Generates fair monthly duty rosters from a roster file, rotating classes or
manual groups through the configured posts and carrying history between months.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		logging.Init(verbose || cfg.Verbose, cfg.LogDir)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("roster starting")
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(generateCmd, validateCmd, serveCmd)
}
