package scheduler

import (
	"fmt"
	"math"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// runStandard fills every active row day by day with rotating class priority
func (s *Scheduler) runStandard(p *plan, res *models.GenerationResult) {
	labels := p.grouping.Labels()

	totalSlots, activeDays := 0, 0
	for day := 1; day <= p.daysInMonth; day++ {
		if p.ignored[day] {
			continue
		}
		activeDays++
		totalSlots += len(activeRows(p.rows, day, p.cyclePost))
	}
	t := standardTargets(len(p.students), totalSlots, activeDays)
	state := newFairnessState(p.students, p.grouping, p.restricted, p.history, t.MinRest)
	restrictedCap := restrictedDailyCap(state, totalSlots, activeDays)

	s.Logger.Debug().
		Int("floor", t.Floor).
		Int("ceil", t.Ceil).
		Int("cap", t.Cap).
		Int("min_rest", t.MinRest).
		Int("restricted_cap", restrictedCap).
		Msg("standard targets")

	start := 0
	for day := 1; day <= p.daysInMonth; day++ {
		if p.ignored[day] {
			state.endOfDay(nil)
			continue
		}

		rows := activeRows(p.rows, day, p.cyclePost)
		order := rotate(labels, start)
		ctx := newDayContext(day, p.daysInMonth, p.weekend(day), order)
		pool := state.ordered(ctx.priority)
		filled := make(map[string]bool, len(rows))

		placed := s.fillRestricted(res, state, ctx, pool, rows, t, restrictedCap, filled)
		s.Logger.Debug().
			Int("day", day).
			Int("restricted_placed", placed).
			Int("restricted_cap", restrictedCap).
			Msg("restricted pass")

		// Rows closed to the restricted population go first so open rows stay
		// available to restricted students.
		var empty []string
		for _, row := range dailyFillOrder(s.shuffled(rows), "") {
			if filled[row.Name] {
				continue
			}
			sel := selectCandidate(pool, row, ctx, StandardLevels, t)
			if sel.Person == nil {
				empty = append(empty, row.Name)
				res.Conflicts = append(res.Conflicts, models.ConflictReason{
					Row:     row.Name,
					Day:     day,
					Reasons: conflictReasons(sel.Rejections),
				})
				continue
			}
			place(res, state, ctx, row, sel.Person)
			filled[row.Name] = true
			if sel.Level > 0 {
				res.RelaxedAssignments++
			}
		}
		if len(empty) > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Day %d: %d of %d rows left empty: %v", day, len(empty), len(rows), empty))
		}

		state.endOfDay(ctx.assigned)
		start = (start + 1) % len(labels)
	}

	res.Rotation = models.RotationState{
		Queues:         state.queues(labels),
		NextClassStart: start,
	}
}

// fillRestricted gives restricted students first pick of the rows open to
// them, searching only the stricter levels and stopping at limit placements.
// It returns the number of rows filled.
func (s *Scheduler) fillRestricted(res *models.GenerationResult, state *fairnessState, ctx *dayContext, pool []*person, rows []models.DutyRow, t targets, limit int, filled map[string]bool) int {
	var candidates []*person
	for _, cand := range pool {
		if cand.Restricted {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	placed := 0
	for _, row := range s.shuffled(rows) {
		if placed >= limit {
			break
		}
		if row.Restricted {
			continue
		}
		sel := selectCandidate(candidates, row, ctx, StandardLevels[:restrictedLevelLimit], t)
		if sel.Person == nil {
			continue
		}
		place(res, state, ctx, row, sel.Person)
		filled[row.Name] = true
		placed++
		if sel.Level > 0 {
			res.RelaxedAssignments++
		}
	}
	return placed
}

// shuffled returns a shuffled copy of rows
func (s *Scheduler) shuffled(rows []models.DutyRow) []models.DutyRow {
	out := make([]models.DutyRow, len(rows))
	copy(out, rows)
	s.Rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// restrictedDailyCap is the restricted population's proportional daily share plus one
func restrictedDailyCap(state *fairnessState, totalSlots, activeDays int) int {
	restricted := 0
	for _, p := range state.people {
		if p.Restricted {
			restricted++
		}
	}
	if restricted == 0 || activeDays == 0 || len(state.people) == 0 {
		return 0
	}
	share := float64(restricted) * float64(totalSlots) / float64(len(state.people)) / float64(activeDays)
	return int(math.Ceil(share)) + 1
}
