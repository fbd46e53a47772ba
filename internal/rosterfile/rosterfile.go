package rosterfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"gopkg.in/yaml.v3"
)

// ErrNoPopulation is returned when a file lists neither students nor a student count
var ErrNoPopulation = errors.New("roster file needs students or student_count")

// Post is one duty post entry of a roster file
type Post struct {
	Name       string `yaml:"name"`
	Slots      int    `yaml:"slots"`
	Restricted bool   `yaml:"restricted,omitempty"`
	ShortLabel string `yaml:"short_label,omitempty"`
}

// Group is a manual rotation group; Members is a delimited ID list
type Group struct {
	Name    string `yaml:"name"`
	Members string `yaml:"members"`
}

// Cycle toggles the five-day reduction cycle
type Cycle struct {
	Enabled bool   `yaml:"enabled"`
	Post    string `yaml:"post"`
}

// File is the on-disk roster configuration. JSON files are read by the same
// decoder since JSON is valid YAML.
type File struct {
	Students           []string `yaml:"students,omitempty"`
	StudentCount       int      `yaml:"student_count,omitempty"`
	ExcludedStudents   string   `yaml:"excluded_students,omitempty"`
	ClassCount         int      `yaml:"class_count,omitempty"`
	Posts              []Post   `yaml:"posts"`
	Month              int      `yaml:"month"`
	Year               int      `yaml:"year"`
	IgnoredDays        []int    `yaml:"ignored_days,omitempty"`
	Cycle              Cycle    `yaml:"cycle,omitempty"`
	RestrictedStudents string   `yaml:"restricted_students,omitempty"`
	GroupMode          bool     `yaml:"group_mode,omitempty"`
	Groups             []Group  `yaml:"groups,omitempty"`
}

var idSeparators = regexp.MustCompile(`[\n;,]+`)

// ParseIDList splits a delimited list on newlines, semicolons and commas,
// trimming entries and dropping blanks.
func ParseIDList(s string) []string {
	var out []string
	for _, part := range idSeparators.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads a roster file and resolves it into a generation config
func Load(path string) (*models.GenerationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	return f.Config()
}

// Config resolves the file into the engine's configuration
func (f *File) Config() (*models.GenerationConfig, error) {
	cfg := &models.GenerationConfig{
		StudentCount:       f.StudentCount,
		ClassCount:         f.ClassCount,
		Month:              time.Month(f.Month),
		Year:               f.Year,
		IgnoredDays:        f.IgnoredDays,
		IsCycleEnabled:     f.Cycle.Enabled,
		CyclePostToRemove:  f.Cycle.Post,
		RestrictedStudents: ParseIDList(f.RestrictedStudents),
		IsGroupMode:        f.GroupMode,
	}

	labelled := false
	for _, p := range f.Posts {
		cfg.ServicePosts = append(cfg.ServicePosts, p.Name)
		cfg.Slots = append(cfg.Slots, p.Slots)
		cfg.ShortLabels = append(cfg.ShortLabels, p.ShortLabel)
		labelled = labelled || p.ShortLabel != ""
		if p.Restricted {
			cfg.RestrictedPosts = append(cfg.RestrictedPosts, p.Name)
		}
	}
	if !labelled {
		cfg.ShortLabels = nil
	}

	for i, g := range f.Groups {
		cfg.ManualGroups = append(cfg.ManualGroups, models.ManualGroup{
			ID:      strconv.Itoa(i + 1),
			Name:    g.Name,
			Members: ParseIDList(g.Members),
		})
	}

	switch {
	case len(f.Students) > 0:
		cfg.Students = f.Students
	case f.StudentCount > 0:
		cfg.Students = countedStudents(f.StudentCount, ParseIDList(f.ExcludedStudents))
	case !f.GroupMode:
		return nil, ErrNoPopulation
	}
	return cfg, nil
}

// countedStudents lists 1..n without the excluded identifiers
func countedStudents(n int, excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[scheduler.NormalizeID(id)] = true
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := strconv.Itoa(i)
		if !skip[id] {
			out = append(out, id)
		}
	}
	return out
}

// LoadHistory reads a JSON carry-over file. A missing file yields no history.
func LoadHistory(path string) ([]models.HistoricalStats, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	var stats []models.HistoricalStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("parse history file %s: %w", path, err)
	}
	return stats, nil
}

// SaveHistory writes carry-over stats as indented JSON
func SaveHistory(path string, stats []models.HistoricalStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}
