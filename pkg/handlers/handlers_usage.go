package handlers

import (
	"net/http"

	"github.com/arnavshah/duty-roster-go/pkg/database"
	"github.com/gin-gonic/gin"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKey, ok := currentKey(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	schedules, err := database.SumRuns(h.DB, apiKey.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not total runs"})
		return
	}

	var totalRequests, totalRows, totalStudents int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalRows += int64(u.TotalRows)
		totalStudents += int64(u.TotalStudents)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests": totalRequests,
			"rows":     totalRows,
			"students": totalStudents,
		},
		"schedules": schedules,
	})
}
