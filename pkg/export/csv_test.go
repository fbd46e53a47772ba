package export

import (
	"testing"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCSV(t *testing.T) {
	res := &models.GenerationResult{
		ScheduleTitle: "APRIL / 2025",
		DaysInMonth:   2,
		AllDays:       []models.ScheduleDay{{Day: 1, WeekdayInitial: "T"}, {Day: 2, WeekdayInitial: "W"}},
		PostRows:      []models.DutyRow{{Name: "GUARD"}},
		ScheduleData: map[string]map[int]models.ScheduleCell{
			"GUARD": {1: {Student: "4"}, 2: {}},
		},
	}
	out, err := GridCSV(res)
	require.NoError(t, err)
	assert.Equal(t, "APRIL / 2025,1,2\n,T,W\nGUARD,4,\n", out)
}
