// Package export renders generated rosters for files and downloads.
package export

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// GridCSV renders one line per duty row and one column per day. The second
// line carries weekday initials; excluded days stay blank.
func GridCSV(res *models.GenerationResult) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{res.ScheduleTitle}
	weekdays := []string{""}
	for _, d := range res.AllDays {
		header = append(header, strconv.Itoa(d.Day))
		weekdays = append(weekdays, d.WeekdayInitial)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.Write(weekdays); err != nil {
		return "", err
	}

	for _, row := range res.PostRows {
		record := []string{row.Name}
		for day := 1; day <= res.DaysInMonth; day++ {
			record = append(record, res.ScheduleData[row.Name][day].Student)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}
