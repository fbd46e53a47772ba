package scheduler

import (
	"fmt"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// InferStartGroup picks the first on-duty group from history. The group
// whose members show zero trailing rest worked last; the next group starts.
// When several groups qualify the last one in group order wins. Returns 0
// when nothing can be inferred.
func InferStartGroup(groups *ManualGrouping, history map[string]models.HistoricalStats) int {
	n := len(groups.Groups)
	if n == 0 {
		return 0
	}
	yesterday := -1
	for i := range groups.Groups {
		for _, id := range groups.Members(i) {
			h, ok := history[id]
			if ok && h.TrailingRestDays != nil && *h.TrailingRestDays == 0 {
				yesterday = i
				break
			}
		}
	}
	if yesterday < 0 {
		return 0
	}
	return (yesterday + 1) % n
}

// runGroupRotation puts one manual group on duty per day
func (s *Scheduler) runGroupRotation(p *plan, res *models.GenerationResult) {
	groups := p.grouping.(*ManualGrouping)
	n := len(groups.Groups)
	t := groupTargets(n)
	state := newFairnessState(p.students, p.grouping, p.restricted, p.history, t.MinRest)

	members := make([][]*person, n)
	for i := range groups.Groups {
		for _, id := range groups.Members(i) {
			members[i] = append(members[i], state.byID[id])
		}
	}

	pointer := InferStartGroup(groups, p.history)
	baseOrder := InterleaveRows(p.rows)
	firstDay := true

	s.Logger.Debug().Int("start_group", pointer).Int("min_rest", t.MinRest).Msg("group rotation")

	for day := 1; day <= p.daysInMonth; day++ {
		if p.ignored[day] {
			state.endOfDay(nil)
			continue
		}

		if firstDay && rested(members[pointer], t.MinRest) == 0 {
			pointer = (pointer + 1) % n
		}
		firstDay = false

		group := groups.Groups[pointer]
		pool := members[pointer]
		eligible := rested(pool, t.MinRest)

		cut := ""
		short := eligible < len(baseOrder)
		if short {
			cut = p.cyclePost
		}

		ctx := newDayContext(day, p.daysInMonth, p.weekend(day), []string{group.Name})
		var empty []string
		for _, row := range dailyFillOrder(baseOrder, cut) {
			sel := selectCandidate(pool, row, ctx, GroupLevels, t)
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
			if sel.Level > 0 {
				res.RelaxedAssignments++
			}
		}

		if short {
			msg := fmt.Sprintf("Day %d: group %s has %d eligible members for %d rows", day, group.Name, eligible, len(baseOrder))
			if cut != "" {
				msg += fmt.Sprintf("; %s is cut first", cut)
			}
			if len(empty) > 0 {
				msg += fmt.Sprintf("; left empty: %v", empty)
			}
			res.Warnings = append(res.Warnings, msg)
			s.Logger.Debug().Int("day", day).Str("group", group.Name).Int("eligible", eligible).Msg("short-staffed day")
		} else if len(empty) > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Day %d: %d of %d rows left empty: %v", day, len(empty), len(baseOrder), empty))
		}

		state.endOfDay(ctx.assigned)
		pointer = (pointer + 1) % n
	}

	res.Rotation = models.RotationState{
		Queues:         state.queues(groups.Labels()),
		NextGroupIndex: pointer,
	}
}

// rested counts members whose rest counter meets minRest
func rested(pool []*person, minRest int) int {
	n := 0
	for _, p := range pool {
		if p.Rest >= minRest {
			n++
		}
	}
	return n
}
