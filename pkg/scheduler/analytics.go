package scheduler

import (
	"math"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// ComputeAnalytics walks a finished grid and aggregates per-student and
// per-day figures. history may be nil.
func ComputeAnalytics(result *models.GenerationResult, cfg *models.GenerationConfig, history []models.HistoricalStats) *models.AnalyticsResult {
	students := Population(cfg)
	grouping := GroupingFor(cfg)
	hist := HistoryIndex(history)

	var posts []string
	seenPost := make(map[string]bool)
	for _, name := range cfg.ServicePosts {
		if base := normalizePost(name); !seenPost[base] {
			seenPost[base] = true
			posts = append(posts, base)
		}
	}

	statsByID := make(map[string]*models.StudentStats, len(students))
	lastWorked := make(map[string]int, len(students))
	ordered := make([]*models.StudentStats, 0, len(students))
	for _, id := range students {
		st := &models.StudentStats{
			Student:               id,
			Class:                 grouping.GroupOf(id),
			PostBreakdown:         make(map[string]int, len(posts)),
			AccumulatedPostCounts: make(map[string]int, len(posts)),
		}
		for _, post := range posts {
			st.PostBreakdown[post] = 0
			st.AccumulatedPostCounts[post] = 0
		}
		if h, ok := hist[id]; ok {
			st.AccumulatedServices = h.AccumulatedServices
			for post, n := range h.AccumulatedPostCounts {
				st.AccumulatedPostCounts[normalizePost(post)] += n
			}
		}
		statsByID[id] = st
		ordered = append(ordered, st)
	}

	a := &models.AnalyticsResult{
		DailyClassDistribution: make(map[int]map[string]int),
		TotalStudents:          len(students),
		PostDistribution:       make(map[string]int, len(posts)),
	}
	for _, post := range posts {
		a.PostDistribution[post] = 0
	}

	for day := 1; day <= result.DaysInMonth; day++ {
		if result.IgnoredDays[day] {
			continue
		}
		daily := make(map[string]int)
		for _, label := range grouping.Labels() {
			daily[label] = 0
		}
		for _, row := range result.PostRows {
			cell, ok := result.ScheduleData[row.Name][day]
			if !ok || cell.IsIgnoredDay || cell.Student == "" {
				continue
			}
			st, ok := statsByID[NormalizeID(cell.Student)]
			if !ok {
				continue
			}
			st.TotalShifts++
			st.PostBreakdown[row.BasePost]++
			st.AccumulatedServices++
			st.AccumulatedPostCounts[row.BasePost]++
			a.PostDistribution[row.BasePost]++
			a.TotalShiftsAssigned++
			daily[st.Class]++
			lastWorked[st.Student] = day
		}
		a.DailyClassDistribution[day] = daily
	}

	workingDays := result.DaysInMonth - len(result.IgnoredDays)
	totals := make([]int, 0, len(ordered))
	for _, st := range ordered {
		st.TotalDaysOff = workingDays - st.TotalShifts
		st.TrailingRestDays = trailingRest(result.DaysInMonth, lastWorked[st.Student], hist[st.Student])
		totals = append(totals, st.TotalShifts)
		a.StudentStats = append(a.StudentStats, *st)
	}

	if len(students) > 0 {
		avg := float64(a.TotalShiftsAssigned) / float64(len(students))
		a.AverageShiftsPerStudent = math.Round(avg*10) / 10
	}
	a.FairnessScore = CalculateFairnessScore(totals)
	return a
}

// trailingRest counts the non-working days ending on the last day of the
// month. lastDay is 0 when the student never worked this month.
func trailingRest(daysInMonth, lastDay int, prior models.HistoricalStats) int {
	if lastDay > 0 {
		return daysInMonth - lastDay
	}
	if prior.TrailingRestDays != nil {
		return daysInMonth + *prior.TrailingRestDays
	}
	return daysInMonth
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// shifts are distributed. 100% is perfectly fair (Standard Deviation = 0).
func CalculateFairnessScore(totals []int) float64 {
	if len(totals) == 0 {
		return 100.0
	}

	var sum float64
	for _, n := range totals {
		sum += float64(n)
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(totals))
	var varianceSum float64
	for _, n := range totals {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(totals)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}

// NextHistory converts analytics into the carry-over for the next month
func NextHistory(a *models.AnalyticsResult) []models.HistoricalStats {
	out := make([]models.HistoricalStats, 0, len(a.StudentStats))
	for _, st := range a.StudentStats {
		counts := make(map[string]int, len(st.AccumulatedPostCounts))
		for post, n := range st.AccumulatedPostCounts {
			counts[post] = n
		}
		rest := st.TrailingRestDays
		out = append(out, models.HistoricalStats{
			StudentID:             st.Student,
			AccumulatedServices:   st.AccumulatedServices,
			AccumulatedPostCounts: counts,
			TrailingRestDays:      &rest,
		})
	}
	return out
}
