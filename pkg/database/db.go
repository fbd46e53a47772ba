package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrRunNotFound is returned when a schedule run id is unknown
var ErrRunNotFound = errors.New("schedule run not found")

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalRows     int    `gorm:"default:0" json:"total_rows"`
	TotalStudents int    `gorm:"default:0" json:"total_students"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScheduleRun represents one stored generation
type ScheduleRun struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	KeyID              uint      `gorm:"index" json:"key_id"`
	Year               int       `json:"year"`
	Month              int       `json:"month"`
	Mode               string    `json:"mode"`
	Rows               int       `json:"rows"`
	Students           int       `json:"students"`
	Shifts             int       `json:"shifts"`
	EmptyCells         int       `json:"empty_cells"`
	Warnings           int       `json:"warnings"`
	RelaxedAssignments int       `json:"relaxed_assignments"`
	FairnessScore      float64   `json:"fairness_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// CarryOverStat is one student's history exported by a run
type CarryOverStat struct {
	ID                    uint           `gorm:"primaryKey" json:"-"`
	RunID                 string         `gorm:"index;size:36;not null" json:"run_id"`
	StudentID             string         `gorm:"not null" json:"student_id"`
	AccumulatedServices   int            `json:"accumulated_services"`
	AccumulatedPostCounts map[string]int `gorm:"serializer:json" json:"accumulated_post_counts"`
	TrailingRestDays      *int           `json:"trailing_rest_days"`
}

// InitDB opens postgres when a DATABASE_URL is configured and sqlite otherwise,
// then migrates the schema.
func InitDB(cfg *config.AppConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			Logger:      logger.Default.LogMode(logger.Silent),
		})
	} else {
		db, err = OpenSQLite(cfg.DataPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a sqlite database. ":memory:" is pinned to a single
// connection so every query sees the same in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &ScheduleRun{}, &CarryOverStat{})
}

// SaveRun stores a run and the carry-over it produced in one transaction
func SaveRun(db *gorm.DB, run *ScheduleRun, history []models.HistoricalStats) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if len(history) == 0 {
			return nil
		}
		stats := make([]CarryOverStat, 0, len(history))
		for _, h := range history {
			stats = append(stats, CarryOverStat{
				RunID:                 run.ID,
				StudentID:             h.StudentID,
				AccumulatedServices:   h.AccumulatedServices,
				AccumulatedPostCounts: h.AccumulatedPostCounts,
				TrailingRestDays:      h.TrailingRestDays,
			})
		}
		if err := tx.CreateInBatches(stats, 200).Error; err != nil {
			return fmt.Errorf("save carry-over: %w", err)
		}
		return nil
	})
}

// FindRun loads a run owned by keyID
func FindRun(db *gorm.DB, runID string, keyID uint) (*ScheduleRun, error) {
	var run ScheduleRun
	err := db.Where("id = ? AND key_id = ?", runID, keyID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LoadCarryOver returns the history a run exported, ready to seed the next month
func LoadCarryOver(db *gorm.DB, runID string) ([]models.HistoricalStats, error) {
	var stats []CarryOverStat
	if err := db.Where("run_id = ?", runID).Order("id").Find(&stats).Error; err != nil {
		return nil, err
	}
	out := make([]models.HistoricalStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, models.HistoricalStats{
			StudentID:             s.StudentID,
			AccumulatedServices:   s.AccumulatedServices,
			AccumulatedPostCounts: s.AccumulatedPostCounts,
			TrailingRestDays:      s.TrailingRestDays,
		})
	}
	return out, nil
}

// ListRuns returns the most recent runs of a key
func ListRuns(db *gorm.DB, keyID uint, limit int) ([]ScheduleRun, error) {
	var runs []ScheduleRun
	err := db.Where("key_id = ?", keyID).Order("created_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// RunTotals aggregates every run a key has stored
type RunTotals struct {
	Runs               int64   `json:"runs"`
	Shifts             int64   `json:"shifts"`
	EmptyCells         int64   `json:"empty_cells"`
	RelaxedAssignments int64   `json:"relaxed_assignments"`
	AverageFairness    float64 `json:"average_fairness"`
}

// SumRuns totals the stored runs of keyID
func SumRuns(db *gorm.DB, keyID uint) (RunTotals, error) {
	var totals RunTotals
	err := db.Model(&ScheduleRun{}).
		Select("COUNT(*) AS runs, " +
			"COALESCE(SUM(shifts), 0) AS shifts, " +
			"COALESCE(SUM(empty_cells), 0) AS empty_cells, " +
			"COALESCE(SUM(relaxed_assignments), 0) AS relaxed_assignments, " +
			"COALESCE(AVG(fairness_score), 0) AS average_fairness").
		Where("key_id = ?", keyID).
		Scan(&totals).Error
	return totals, err
}
