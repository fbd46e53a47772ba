package handlers

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/duty-roster-go/pkg/auth"
	"github.com/arnavshah/duty-roster-go/pkg/database"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed static/*
var staticEmbed embed.FS

// Version is reported by the index route
const Version = "1.0.0"

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     *gorm.DB
	Auth   *auth.Authenticator
	Logger zerolog.Logger

	// Shuffler, when set, supplies the row shuffle of each generation.
	Shuffler func() scheduler.Shuffler

	runs *semaphore.Weighted
}

// New creates a handler that runs at most one generation at a time
func New(db *gorm.DB, authn *auth.Authenticator, logger zerolog.Logger) *Handler {
	return &Handler{
		DB:     db,
		Auth:   authn,
		Logger: logger,
		runs:   semaphore.NewWeighted(1),
	}
}

// NewRouter builds the gin engine with request logging and every route
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(h.Logger), gin.Recovery())
	h.Register(r)
	return r
}

// Register mounts every route on r
func (h *Handler) Register(r *gin.Engine) {
	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Duty Roster API",
			"version": Version,
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule", h.ScheduleJSON)
		api.POST("/schedule/csv", h.ScheduleCSV)
		api.POST("/validate", h.ValidateInput)
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id/history", h.GetRunHistory)
		api.GET("/usage", h.GetMyUsage)
	}
}

// bearer strips an optional "Bearer " prefix from the Authorization header
func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key and enforces its daily rate limit
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		apiKey, err := auth.RegisterAPIKey(h.DB, key, userID)
		if err != nil {
			h.Logger.Error().Err(err).Str("user", userID).Msg("Failed to register API key")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}

		var usage database.APIUsage
		err = h.DB.Where("key_id = ? AND date = ?", apiKey.ID, today()).First(&usage).Error
		if err == nil && apiKey.RateLimit > 0 && usage.RequestCount >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
			return
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not check usage"})
			return
		}

		c.Set("apiKey", apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// RequestLogger logs every request through zerolog
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// currentKey returns the API key set by APIKeyMiddleware
func currentKey(c *gin.Context) (*database.APIKey, bool) {
	raw, exists := c.Get("apiKey")
	if !exists {
		return nil, false
	}
	apiKey, ok := raw.(*database.APIKey)
	return apiKey, ok
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, rows, students int) {
	apiKey, ok := currentKey(c)
	if !ok {
		return
	}

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"total_rows":     gorm.Expr("total_rows + ?", rows),
			"total_students": gorm.Expr("total_students + ?", students),
		}),
	}).Create(&database.APIUsage{
		KeyID:         apiKey.ID,
		Date:          today(),
		RequestCount:  1,
		TotalRows:     rows,
		TotalStudents: students,
	}).Error
	if err != nil {
		h.Logger.Warn().Err(err).Uint("key_id", apiKey.ID).Msg("Failed to record usage")
	}
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
