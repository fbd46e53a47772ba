package commands

import (
	"fmt"

	"github.com/arnavshah/duty-roster-go/internal/rosterfile"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <roster.yaml>",
	Short: "Check a roster file without generating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rosterCfg, err := rosterfile.Load(args[0])
		if err != nil {
			return err
		}
		if err := scheduler.Validate(rosterCfg); err != nil {
			return err
		}
		rows, _ := scheduler.ExpandPosts(rosterCfg.ServicePosts, rosterCfg.Slots, rosterCfg.RestrictedPosts)
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d students, %d rows, %d days\n",
			len(scheduler.Population(rosterCfg)), len(rows), scheduler.DaysIn(rosterCfg.Year, rosterCfg.Month))
		return nil
	},
}
