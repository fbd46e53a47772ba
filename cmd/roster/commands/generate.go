package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/arnavshah/duty-roster-go/internal/rosterfile"
	"github.com/arnavshah/duty-roster-go/pkg/export"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	historyPath   string
	nextHistory   string
	csvPath       string
	jsonPath      string
	seed          int64
	deterministic bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <roster.yaml>",
	Short: "Generate one month of duties",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rosterCfg, err := rosterfile.Load(args[0])
		if err != nil {
			return err
		}
		history, err := rosterfile.LoadHistory(historyPath)
		if err != nil {
			return err
		}

		runID := uuid.NewString()
		s := scheduler.NewScheduler(rosterCfg, history)
		s.Logger = log.Logger.With().Str("run_id", runID).Logger()
		switch {
		case deterministic:
			s.Rand = scheduler.NoShuffle{}
		case cmd.Flags().Changed("seed"):
			s.Rand = rand.New(rand.NewSource(seed))
		}

		result, err := s.Generate()
		if err != nil {
			return err
		}
		analytics := scheduler.ComputeAnalytics(result, rosterCfg, history)
		next := scheduler.NextHistory(analytics)

		if csvPath != "" {
			grid, err := export.GridCSV(result)
			if err != nil {
				return err
			}
			if err := os.WriteFile(csvPath, []byte(grid), 0644); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
		if jsonPath != "" {
			data, err := json.MarshalIndent(models.ScheduleResponse{
				RunID:       runID,
				Result:      result,
				Analytics:   analytics,
				NextHistory: next,
			}, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(jsonPath, data, 0644); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
		}
		if nextHistory != "" {
			if err := rosterfile.SaveHistory(nextHistory, next); err != nil {
				return err
			}
		}

		printSummary(cmd.OutOrStdout(), result, analytics)
		return nil
	},
}

func printSummary(w io.Writer, res *models.GenerationResult, a *models.AnalyticsResult) {
	fmt.Fprintf(w, "%s: %d rows, %d students\n", res.ScheduleTitle, len(res.PostRows), a.TotalStudents)
	fmt.Fprintf(w, "shifts assigned: %d (%.1f per student), fairness %.1f%%\n",
		a.TotalShiftsAssigned, a.AverageShiftsPerStudent, a.FairnessScore)
	fmt.Fprintf(w, "relaxed assignments: %d\n", res.RelaxedAssignments)
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func init() {
	generateCmd.Flags().StringVar(&historyPath, "history", "", "carry-over JSON from the previous month")
	generateCmd.Flags().StringVar(&nextHistory, "next-history", "", "write this month's carry-over JSON here")
	generateCmd.Flags().StringVar(&csvPath, "csv", "", "write the grid as CSV here")
	generateCmd.Flags().StringVar(&jsonPath, "json", "", "write the full result as JSON here")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "seed the row shuffle for a reproducible roster")
	generateCmd.Flags().BoolVar(&deterministic, "no-shuffle", false, "fill rows in configured order")
}
