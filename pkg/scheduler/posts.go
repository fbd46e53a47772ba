package scheduler

import (
	"fmt"
	"strings"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

const (
	// CyclePeriod is the length of the reduction cycle in days
	CyclePeriod = 5
)

// reducedPositions are the cycle positions on which the target post is dropped
var reducedPositions = map[int]bool{3: true, 4: true}

// ExpandPosts turns parallel post names and slot counts into duty rows.
// Names are upper-cased; a post with n > 1 slots yields rows "NAME (1/n)".."NAME (n/n)".
// Rows whose post appears in restricted are flagged as restricted.
func ExpandPosts(names []string, slots []int, restricted []string) ([]models.DutyRow, error) {
	if len(names) != len(slots) {
		return nil, fmt.Errorf("%w: %d posts, %d slot counts", ErrSlotMismatch, len(names), len(slots))
	}

	closed := make(map[string]bool, len(restricted))
	for _, p := range restricted {
		closed[normalizePost(p)] = true
	}

	var rows []models.DutyRow
	for i, raw := range names {
		name := normalizePost(raw)
		n := slots[i]
		if n < 0 {
			return nil, fmt.Errorf("%w: post %q has %d slots", ErrNegativeSlots, name, n)
		}
		if n == 1 {
			rows = append(rows, models.DutyRow{Name: name, BasePost: name, Slot: 1, SlotCount: 1, Restricted: closed[name]})
			continue
		}
		for j := 1; j <= n; j++ {
			rows = append(rows, models.DutyRow{
				Name:       fmt.Sprintf("%s (%d/%d)", name, j, n),
				BasePost:   name,
				Slot:       j,
				SlotCount:  n,
				Restricted: closed[name],
			})
		}
	}
	return rows, nil
}

func normalizePost(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// IsReducedDay reports whether day falls on a reduced position of the cycle
func IsReducedDay(day int) bool {
	return reducedPositions[(day-1)%CyclePeriod]
}

// activeRows returns the rows filled on day. On reduced days the rows of
// cyclePost are removed; an empty cyclePost disables the cycle.
func activeRows(rows []models.DutyRow, day int, cyclePost string) []models.DutyRow {
	if cyclePost == "" || !IsReducedDay(day) {
		return rows
	}
	out := make([]models.DutyRow, 0, len(rows))
	for _, r := range rows {
		if r.BasePost != cyclePost {
			out = append(out, r)
		}
	}
	return out
}

// hasPost reports whether any row belongs to the base post
func hasPost(rows []models.DutyRow, base string) bool {
	for _, r := range rows {
		if r.BasePost == base {
			return true
		}
	}
	return false
}

// InterleaveRows reorders rows round-robin across base posts: one row of each
// post in first-seen order, then the next row of each, and so on.
func InterleaveRows(rows []models.DutyRow) []models.DutyRow {
	var order []string
	byPost := make(map[string][]models.DutyRow)
	for _, r := range rows {
		if _, ok := byPost[r.BasePost]; !ok {
			order = append(order, r.BasePost)
		}
		byPost[r.BasePost] = append(byPost[r.BasePost], r)
	}

	out := make([]models.DutyRow, 0, len(rows))
	for len(out) < len(rows) {
		for _, base := range order {
			if queue := byPost[base]; len(queue) > 0 {
				out = append(out, queue[0])
				byPost[base] = queue[1:]
			}
		}
	}
	return out
}

// dailyFillOrder puts restricted rows first and, when cutTarget is set, the
// rows of that post last. Relative order is otherwise preserved.
func dailyFillOrder(rows []models.DutyRow, cutTarget string) []models.DutyRow {
	var first, middle, last []models.DutyRow
	for _, r := range rows {
		switch {
		case cutTarget != "" && r.BasePost == cutTarget:
			last = append(last, r)
		case r.Restricted:
			first = append(first, r)
		default:
			middle = append(middle, r)
		}
	}
	out := make([]models.DutyRow, 0, len(rows))
	out = append(out, first...)
	out = append(out, middle...)
	return append(out, last...)
}
