package scheduler

import (
	"fmt"
	"strings"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// Population returns the normalized, de-duplicated students of a run.
// In group mode the population is the union of all group members.
func Population(cfg *models.GenerationConfig) []string {
	if cfg.IsGroupMode {
		var all []string
		for _, g := range cfg.ManualGroups {
			all = append(all, g.Members...)
		}
		return uniqueIDs(all)
	}
	return uniqueIDs(cfg.Students)
}

// Validate checks every fatal configuration rule before generation
func Validate(cfg *models.GenerationConfig) error {
	if cfg.Month < 1 || cfg.Month > 12 || cfg.Year <= 0 {
		return fmt.Errorf("%w: month %d, year %d", ErrInvalidMonth, cfg.Month, cfg.Year)
	}
	if cfg.IsGroupMode && len(cfg.ManualGroups) == 0 {
		return ErrNoManualGroups
	}

	students := Population(cfg)
	if len(students) == 0 {
		return ErrEmptyPopulation
	}
	if len(cfg.ServicePosts) == 0 {
		return ErrNoPosts
	}

	rows, err := ExpandPosts(cfg.ServicePosts, cfg.Slots, cfg.RestrictedPosts)
	if err != nil {
		return err
	}

	if cfg.IsCycleEnabled {
		target := normalizePost(cfg.CyclePostToRemove)
		if target == "" || !hasPost(rows, target) {
			return fmt.Errorf("%w: %q", ErrCyclePostNotFound, cfg.CyclePostToRemove)
		}
	}

	if cfg.IsGroupMode {
		return nil
	}

	if len(rows) > len(students) {
		return fmt.Errorf("%w: %d daily slots for %d students", ErrCapacityExceeded, len(rows), len(students))
	}

	grouping := GroupingFor(cfg)
	var invalid []string
	members := make(map[string]int)
	for _, id := range students {
		class := grouping.GroupOf(id)
		if class == UnknownClass {
			invalid = append(invalid, id)
			continue
		}
		members[class]++
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w (%s): %s", ErrUnclassifiedStudents, Unclassified, strings.Join(invalid, ", "))
	}
	for _, label := range grouping.Labels() {
		if members[label] == 0 {
			return fmt.Errorf("%w: class %s", ErrEmptyRotationGroup, label)
		}
	}
	return nil
}
