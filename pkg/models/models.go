package models

import (
	"strings"
	"time"
)

// ManualGroup is an explicitly enumerated rotation group
type ManualGroup struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// PostDefinition describes a duty post as configured by the caller
type PostDefinition struct {
	Name       string `json:"name"`
	Slots      int    `json:"slots"`
	Restricted bool   `json:"restricted,omitempty"`
	ShortLabel string `json:"short_label,omitempty"`
}

// GenerationConfig is everything the engine needs for one month
type GenerationConfig struct {
	Students []string `json:"students"`

	// StudentCount is the upper bound N of the numeric range 1..N used to
	// split students into classes. Zero means the highest numeric ID in Students.
	StudentCount int `json:"student_count,omitempty"`
	ClassCount   int `json:"class_count,omitempty"`

	ServicePosts []string `json:"service_posts" binding:"required"`
	Slots        []int    `json:"slots" binding:"required"`

	// ShortLabels are optional display labels, parallel to ServicePosts
	ShortLabels []string `json:"short_labels,omitempty"`

	Month       time.Month `json:"month" binding:"required"`
	Year        int        `json:"year" binding:"required"`
	IgnoredDays []int      `json:"ignored_days,omitempty"`

	IsCycleEnabled    bool   `json:"is_cycle_enabled,omitempty"`
	CyclePostToRemove string `json:"cycle_post_to_remove,omitempty"`

	// RestrictedStudents may not serve any post listed in RestrictedPosts.
	RestrictedStudents []string `json:"restricted_students,omitempty"`
	RestrictedPosts    []string `json:"restricted_posts,omitempty"`

	IsGroupMode  bool          `json:"is_group_mode,omitempty"`
	ManualGroups []ManualGroup `json:"manual_groups,omitempty"`
}

// Posts zips ServicePosts and Slots into post definitions.
// Callers must validate the two lists have equal length first.
func (c *GenerationConfig) Posts() []PostDefinition {
	posts := make([]PostDefinition, 0, len(c.ServicePosts))
	for i, name := range c.ServicePosts {
		p := PostDefinition{Name: name}
		if i < len(c.Slots) {
			p.Slots = c.Slots[i]
		}
		if i < len(c.ShortLabels) {
			p.ShortLabel = c.ShortLabels[i]
		}
		for _, r := range c.RestrictedPosts {
			if strings.EqualFold(strings.TrimSpace(r), strings.TrimSpace(name)) {
				p.Restricted = true
			}
		}
		posts = append(posts, p)
	}
	return posts
}

// HistoricalStats is the carry-over from a previous month for one student
type HistoricalStats struct {
	StudentID             string         `json:"student_id"`
	AccumulatedServices   int            `json:"accumulated_services"`
	AccumulatedPostCounts map[string]int `json:"accumulated_post_counts,omitempty"`
	// TrailingRestDays is nil when the previous run did not record it.
	TrailingRestDays *int `json:"trailing_rest_days,omitempty"`
}

// DutyRow is one fillable slot of a post, repeated every day
type DutyRow struct {
	Name       string `json:"name"`
	BasePost   string `json:"base_post"`
	Slot       int    `json:"slot"`
	SlotCount  int    `json:"slot_count"`
	Restricted bool   `json:"restricted,omitempty"`
}

// Flexible reports whether the row belongs to a multi-slot post
func (r DutyRow) Flexible() bool {
	return r.SlotCount > 1
}

// ScheduleCell is the assignment of one row on one day
type ScheduleCell struct {
	Student      string `json:"student,omitempty"`
	IsWeekend    bool   `json:"is_weekend"`
	IsIgnoredDay bool   `json:"is_ignored_day"`
}

// ScheduleDay is calendar metadata for one day of the month
type ScheduleDay struct {
	Day            int          `json:"day"`
	Weekday        time.Weekday `json:"weekday"`
	WeekdayInitial string       `json:"weekday_initial"`
}

// ConflictReason represents why a row could not be filled on a day
type ConflictReason struct {
	Row     string   `json:"row"`
	Day     int      `json:"day"`
	Reasons []string `json:"reasons"`
}

// RotationState is the continuity bookkeeping handed back to the caller
type RotationState struct {
	// Queues holds each rotation group's members, rotated so the member
	// that should be preferred first next month leads.
	Queues         map[string][]string `json:"queues"`
	NextClassStart int                 `json:"next_class_start"`
	NextGroupIndex int                 `json:"next_group_index"`
}

// GenerationResult is the finished month
type GenerationResult struct {
	ScheduleData  map[string]map[int]ScheduleCell `json:"schedule_data"`
	ScheduleTitle string                          `json:"schedule_title"`
	DaysInMonth   int                             `json:"days_in_month"`
	AllDays       []ScheduleDay                   `json:"all_days"`
	PostRows      []DutyRow                       `json:"post_rows"`
	IgnoredDays   map[int]bool                    `json:"ignored_days"`
	Rotation      RotationState                   `json:"rotation"`
	Warnings      []string                        `json:"warnings"`
	Conflicts     []ConflictReason                `json:"conflicts,omitempty"`
	// RelaxedAssignments counts fills that needed a level looser than the strictest one.
	RelaxedAssignments int `json:"relaxed_assignments"`
}

// StudentStats is the per-student analytics line
type StudentStats struct {
	Student               string         `json:"student"`
	Class                 string         `json:"class"`
	TotalShifts           int            `json:"total_shifts"`
	TotalDaysOff          int            `json:"total_days_off"`
	PostBreakdown         map[string]int `json:"post_breakdown"`
	AccumulatedServices   int            `json:"accumulated_services"`
	AccumulatedPostCounts map[string]int `json:"accumulated_post_counts"`
	TrailingRestDays      int            `json:"trailing_rest_days"`
}

// AnalyticsResult aggregates a finished schedule
type AnalyticsResult struct {
	StudentStats            []StudentStats         `json:"student_stats"`
	DailyClassDistribution  map[int]map[string]int `json:"daily_class_distribution"`
	TotalStudents           int                    `json:"total_students"`
	TotalShiftsAssigned     int                    `json:"total_shifts_assigned"`
	AverageShiftsPerStudent float64                `json:"average_shifts_per_student"`
	PostDistribution        map[string]int         `json:"post_distribution"`
	FairnessScore           float64                `json:"fairness_score"`
}

// ScheduleInput is the data structure for the scheduling endpoints
type ScheduleInput struct {
	Config  GenerationConfig  `json:"config" binding:"required"`
	History []HistoricalStats `json:"history,omitempty"`
}

// ScheduleResponse is the data structure for the scheduling result
type ScheduleResponse struct {
	RunID       string            `json:"run_id"`
	Result      *GenerationResult `json:"result"`
	Analytics   *AnalyticsResult  `json:"analytics"`
	NextHistory []HistoricalStats `json:"next_history"`
}
