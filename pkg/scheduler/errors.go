package scheduler

import "errors"

// Fatal configuration errors. Generate wraps them with the failing values.
var (
	// ErrEmptyPopulation is returned when no students are configured.
	ErrEmptyPopulation = errors.New("student list cannot be empty")

	// ErrNoPosts is returned when no service posts are configured.
	ErrNoPosts = errors.New("service post list cannot be empty")

	// ErrSlotMismatch is returned when posts and slot counts differ in length.
	ErrSlotMismatch = errors.New("number of posts must match number of slot counts")

	// ErrNegativeSlots is returned when a post has a negative slot count.
	ErrNegativeSlots = errors.New("slot count cannot be negative")

	// ErrCapacityExceeded is returned when a day needs more people than exist.
	ErrCapacityExceeded = errors.New("total daily slots exceed number of students")

	// ErrCyclePostNotFound is returned when the reduction cycle targets an unknown post.
	ErrCyclePostNotFound = errors.New("reduction cycle post does not match any configured post")

	// ErrEmptyRotationGroup is returned when a class has no members.
	ErrEmptyRotationGroup = errors.New("rotation group has no members")

	// ErrUnclassifiedStudents is returned when students fall outside every class.
	ErrUnclassifiedStudents = errors.New("students could not be classified")

	// ErrNoManualGroups is returned when group mode is enabled without groups.
	ErrNoManualGroups = errors.New("group mode requires at least one manual group")

	// ErrInvalidMonth is returned for months outside 1..12 or non-positive years.
	ErrInvalidMonth = errors.New("invalid month or year")
)
