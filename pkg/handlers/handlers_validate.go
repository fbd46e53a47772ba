package handlers

import (
	"net/http"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a configuration without generating a schedule
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	cfg := &input.Config
	if err := scheduler.Validate(cfg); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	// Validate already expanded the posts once, so this cannot fail.
	rows, _ := scheduler.ExpandPosts(cfg.ServicePosts, cfg.Slots, cfg.RestrictedPosts)

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"mode":          modeName(cfg),
			"student_count": len(scheduler.Population(cfg)),
			"row_count":     len(rows),
			"days_in_month": scheduler.DaysIn(cfg.Year, cfg.Month),
			"history_count": len(input.History),
			"posts":         cfg.Posts(),
		},
	})
}
