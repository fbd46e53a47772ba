package handlers

import (
	"errors"
	"net/http"

	"github.com/arnavshah/duty-roster-go/pkg/database"
	"github.com/arnavshah/duty-roster-go/pkg/export"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// generate runs the engine for one request, stores the run and records usage.
// It writes the error response itself and returns nil when the request failed.
func (h *Handler) generate(c *gin.Context) *models.ScheduleResponse {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil
	}

	if err := h.runs.Acquire(c.Request.Context(), 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request cancelled while waiting for a generation slot"})
		return nil
	}
	defer h.runs.Release(1)

	runID := uuid.NewString()
	logger := h.Logger.With().Str("run_id", runID).Logger()

	s := scheduler.NewScheduler(&input.Config, input.History)
	s.Logger = logger
	if h.Shuffler != nil {
		s.Rand = h.Shuffler()
	}

	result, err := s.Generate()
	if err != nil {
		logger.Info().Err(err).Msg("Rejected configuration")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil
	}

	analytics := scheduler.ComputeAnalytics(result, &input.Config, input.History)
	next := scheduler.NextHistory(analytics)

	run := &database.ScheduleRun{
		ID:                 runID,
		Year:               input.Config.Year,
		Month:              int(input.Config.Month),
		Mode:               modeName(&input.Config),
		Rows:               len(result.PostRows),
		Students:           analytics.TotalStudents,
		Shifts:             analytics.TotalShiftsAssigned,
		EmptyCells:         len(result.Conflicts),
		Warnings:           len(result.Warnings),
		RelaxedAssignments: result.RelaxedAssignments,
		FairnessScore:      analytics.FairnessScore,
	}
	if apiKey, ok := currentKey(c); ok {
		run.KeyID = apiKey.ID
	}
	if err := database.SaveRun(h.DB, run, next); err != nil {
		logger.Error().Err(err).Msg("Failed to store run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store schedule run"})
		return nil
	}

	h.RecordUsage(c, len(result.PostRows), analytics.TotalStudents)
	logger.Info().
		Str("mode", run.Mode).
		Int("warnings", run.Warnings).
		Int("relaxed", run.RelaxedAssignments).
		Float64("fairness", run.FairnessScore).
		Msg("Schedule generated")

	return &models.ScheduleResponse{
		RunID:       runID,
		Result:      result,
		Analytics:   analytics,
		NextHistory: next,
	}
}

func modeName(cfg *models.GenerationConfig) string {
	if cfg.IsGroupMode {
		return "group"
	}
	return "standard"
}

// ScheduleJSON handles the JSON-based scheduling request
func (h *Handler) ScheduleJSON(c *gin.Context) {
	resp := h.generate(c)
	if resp == nil {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ScheduleCSV generates a month and returns the grid as CSV text
func (h *Handler) ScheduleCSV(c *gin.Context) {
	resp := h.generate(c)
	if resp == nil {
		return
	}

	out, err := export.GridCSV(resp.Result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode CSV"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": resp.RunID, "csv": out})
}

// ListRuns returns the recent runs of the authenticated key
func (h *Handler) ListRuns(c *gin.Context) {
	apiKey, ok := currentKey(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	runs, err := database.ListRuns(h.DB, apiKey.ID, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch runs"})
		return
	}
	totals, err := database.SumRuns(h.DB, apiKey.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not total runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "totals": totals})
}

// GetRunHistory returns the carry-over a run exported, ready to send as the
// next month's history
func (h *Handler) GetRunHistory(c *gin.Context) {
	apiKey, ok := currentKey(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	run, err := database.FindRun(h.DB, c.Param("id"), apiKey.ID)
	if errors.Is(err, database.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch run"})
		return
	}

	history, err := database.LoadCarryOver(h.DB, run.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch run history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "history": history})
}
