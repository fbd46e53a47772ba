package scheduler

import (
	"fmt"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// dayContext is the per-day bookkeeping shared by every selection that day
type dayContext struct {
	Day         int
	DaysInMonth int
	Weekend     bool

	assigned   map[string]bool
	groupToday map[string]int
	priority   map[string]int
}

func newDayContext(day, daysInMonth int, weekend bool, order []string) *dayContext {
	priority := make(map[string]int, len(order))
	for i, label := range order {
		priority[label] = i
	}
	return &dayContext{
		Day:         day,
		DaysInMonth: daysInMonth,
		Weekend:     weekend,
		assigned:    make(map[string]bool),
		groupToday:  make(map[string]int),
		priority:    priority,
	}
}

func (c *dayContext) mark(p *person) {
	c.assigned[p.ID] = true
	c.groupToday[p.Group]++
}

// emergency reports whether repeating yesterday's post is tolerated at level
func (c *dayContext) emergency(level RelaxationLevel) bool {
	return level.relaxesRest() || c.Weekend || c.Day > c.DaysInMonth-finalDays
}

// rejection explains why a candidate failed a level
type rejection int

const (
	admitted rejection = iota
	rejectRestricted
	rejectAssigned
	rejectCeiling
	rejectRest
	rejectRepeat
)

// admits runs the filtering pipeline for one candidate at one level
func admits(p *person, row models.DutyRow, ctx *dayContext, level RelaxationLevel, t targets) rejection {
	if row.Restricted && p.Restricted {
		return rejectRestricted
	}
	if ctx.assigned[p.ID] {
		return rejectAssigned
	}
	if p.RunShifts+1 > t.ceiling(level.Ceiling) {
		return rejectCeiling
	}
	if !level.IgnoreRest {
		required := t.MinRest - level.RestReduction
		if level.Compensation {
			required -= p.RestBalance
		}
		if p.Rest < required {
			return rejectRest
		}
	}
	if p.LastPost == row.BasePost && !row.Flexible() && !level.AllowRepeat && !ctx.emergency(level) {
		return rejectRepeat
	}
	return admitted
}

// better reports whether a ranks ahead of b for row
func better(a, b *person, row models.DutyRow, ctx *dayContext) bool {
	aRepeat, bRepeat := a.LastPost == row.BasePost, b.LastPost == row.BasePost
	if aRepeat != bRepeat {
		return !aRepeat
	}
	if a.PostCounts[row.BasePost] != b.PostCounts[row.BasePost] {
		return a.PostCounts[row.BasePost] < b.PostCounts[row.BasePost]
	}
	if a.RunShifts != b.RunShifts {
		return a.RunShifts < b.RunShifts
	}
	if ctx.groupToday[a.Group] != ctx.groupToday[b.Group] {
		return ctx.groupToday[a.Group] < ctx.groupToday[b.Group]
	}
	if a.Accumulated != b.Accumulated {
		return a.Accumulated < b.Accumulated
	}
	pa, pb := groupPriority(ctx.priority, a.Group), groupPriority(ctx.priority, b.Group)
	if pa != pb {
		return pa < pb
	}
	return lessID(a.ID, b.ID)
}

// selection is the outcome of one candidate search
type selection struct {
	Person *person
	Level  int
	// Rejections counts, per reason, the candidates dropped at the loosest level tried
	Rejections map[rejection]int
}

// selectCandidate tries each level in order and returns the best admitted
// candidate of the first level that admits anyone.
func selectCandidate(pool []*person, row models.DutyRow, ctx *dayContext, levels []RelaxationLevel, t targets) selection {
	var counts map[rejection]int
	for i, level := range levels {
		counts = make(map[rejection]int)
		var best *person
		for _, p := range pool {
			if r := admits(p, row, ctx, level, t); r != admitted {
				counts[r]++
				continue
			}
			if best == nil || better(p, best, row, ctx) {
				best = p
			}
		}
		if best != nil {
			return selection{Person: best, Level: i}
		}
	}
	return selection{Level: -1, Rejections: counts}
}

// conflictReasons turns rejection counts into readable reasons
func conflictReasons(counts map[rejection]int) []string {
	var reasons []string
	if n := counts[rejectRestricted]; n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d students are restricted from this post", n))
	}
	if n := counts[rejectAssigned]; n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d students were already assigned today", n))
	}
	if n := counts[rejectCeiling]; n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d students were at the shift ceiling", n))
	}
	if n := counts[rejectRest]; n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d students had not rested enough", n))
	}
	if n := counts[rejectRepeat]; n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d students served this post last", n))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "no students available in the candidate pool")
	}
	return reasons
}
