package scheduler

import (
	"testing"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPerson(id, group string) *person {
	return &person{ID: id, Group: group, RunPostCounts: map[string]int{}, PostCounts: map[string]int{}, Rest: 5}
}

var (
	guardRow = models.DutyRow{Name: "GUARD", BasePost: "GUARD", Slot: 1, SlotCount: 1}
	messRow  = models.DutyRow{Name: "MESS (1/2)", BasePost: "MESS", Slot: 1, SlotCount: 2}
	strict   = targets{Floor: 5, Ceil: 6, Cap: 7, MinRest: 3}
)

// weekday context on day 2 of a 30-day month
func weekdayContext() *dayContext {
	return newDayContext(2, 30, false, []string{"A", "B"})
}

func TestAdmits(t *testing.T) {
	ctx := weekdayContext()
	level := StandardLevels[0]

	p := newPerson("1", "A")
	assert.Equal(t, admitted, admits(p, guardRow, ctx, level, strict))

	p.Rest = 2
	assert.Equal(t, rejectRest, admits(p, guardRow, ctx, level, strict))
	assert.Equal(t, admitted, admits(p, guardRow, ctx, StandardLevels[2], strict))
	p.RestBalance = 1
	assert.Equal(t, admitted, admits(p, guardRow, ctx, level, strict), "positive balance lowers the requirement")

	p = newPerson("2", "A")
	p.RunShifts = 5
	assert.Equal(t, rejectCeiling, admits(p, guardRow, ctx, level, strict))
	assert.Equal(t, admitted, admits(p, guardRow, ctx, StandardLevels[1], strict))

	p = newPerson("3", "A")
	p.LastPost = "GUARD"
	assert.Equal(t, rejectRepeat, admits(p, guardRow, ctx, level, strict))
	assert.Equal(t, admitted, admits(p, guardRow, ctx, StandardLevels[2], strict), "rest relaxation allows repeats")

	p.LastPost = "MESS"
	assert.Equal(t, admitted, admits(p, messRow, ctx, level, strict), "flexible posts allow repeats")

	p = newPerson("4", "A")
	p.Restricted = true
	closed := guardRow
	closed.Restricted = true
	assert.Equal(t, rejectRestricted, admits(p, closed, ctx, StandardLevels[5], strict))

	ctx.mark(p)
	assert.Equal(t, rejectAssigned, admits(p, guardRow, ctx, StandardLevels[5], strict))
}

func TestAdmits_RepeatAllowedOnWeekendAndMonthEnd(t *testing.T) {
	p := newPerson("1", "A")
	p.LastPost = "GUARD"

	weekend := newDayContext(5, 30, true, []string{"A"})
	assert.Equal(t, admitted, admits(p, guardRow, weekend, StandardLevels[0], strict))

	monthEnd := newDayContext(28, 30, false, []string{"A"})
	assert.Equal(t, admitted, admits(p, guardRow, monthEnd, StandardLevels[0], strict))
}

func TestSelectCandidate_Ranking(t *testing.T) {
	ctx := weekdayContext()

	a := newPerson("1", "A")
	a.PostCounts["GUARD"] = 2
	b := newPerson("2", "B")
	b.PostCounts["GUARD"] = 1
	b.RunShifts = 3
	sel := selectCandidate([]*person{a, b}, guardRow, ctx, StandardLevels, strict)
	require.NotNil(t, sel.Person)
	assert.Equal(t, "2", sel.Person.ID, "fewer assignments to the post wins first")

	a.PostCounts["GUARD"] = 1
	sel = selectCandidate([]*person{a, b}, guardRow, ctx, StandardLevels, strict)
	assert.Equal(t, "1", sel.Person.ID, "fewer shifts this run wins next")

	b.RunShifts = 0
	ctx.groupToday["A"] = 1
	sel = selectCandidate([]*person{a, b}, guardRow, ctx, StandardLevels, strict)
	assert.Equal(t, "2", sel.Person.ID, "group with fewer assignments today wins next")

	ctx.groupToday["A"] = 0
	a.Accumulated = 10
	b.Accumulated = 4
	sel = selectCandidate([]*person{a, b}, guardRow, ctx, StandardLevels, strict)
	assert.Equal(t, "2", sel.Person.ID, "fewer lifetime shifts wins next")

	b.Accumulated = 10
	sel = selectCandidate([]*person{b, a}, guardRow, ctx, StandardLevels, strict)
	assert.Equal(t, "1", sel.Person.ID, "priority order breaks ties")
}

func TestSelectCandidate_RelaxesLevels(t *testing.T) {
	ctx := weekdayContext()
	tired := newPerson("1", "A")
	tired.Rest = 0

	sel := selectCandidate([]*person{tired}, guardRow, ctx, StandardLevels, strict)
	require.NotNil(t, sel.Person)
	assert.Equal(t, 4, sel.Level, "only the levels ignoring rest admit a student who worked yesterday")

	sel = selectCandidate([]*person{tired}, guardRow, ctx, StandardLevels[:restrictedLevelLimit], strict)
	assert.Nil(t, sel.Person)
	assert.Equal(t, -1, sel.Level)
	assert.Equal(t, 1, sel.Rejections[rejectRest])
	assert.Equal(t, []string{"1 students had not rested enough"}, conflictReasons(sel.Rejections))
}

func TestConflictReasons_EmptyPool(t *testing.T) {
	assert.Equal(t, []string{"no students available in the candidate pool"}, conflictReasons(nil))
}
