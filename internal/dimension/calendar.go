package dimension

import (
	"math"
	"time"

	"github.com/andresuchdata/retailsim/internal/domain"
)

const weeksPerFiscalYear = 52

// Calendar is the weekly calendar dimension indexed from week 1.
type Calendar []domain.CalendarWeek

// BuildCalendar returns weeks consecutive weeks starting at start.
func BuildCalendar(start time.Time, weeks int) Calendar {
	cal := make(Calendar, 0, weeks)
	for i := 1; i <= weeks; i++ {
		fw := ((i - 1) % weeksPerFiscalYear) + 1
		fm := int(math.Ceil(float64(fw) / 4.33))
		if fm < 1 {
			fm = 1
		}
		if fm > 12 {
			fm = 12
		}
		cal = append(cal, domain.CalendarWeek{
			WeekIndex:     i,
			WeekStartDate: start.AddDate(0, 0, 7*(i-1)),
			FiscalYear:    start.Year() + (i-1)/weeksPerFiscalYear,
			FiscalWeek:    fw,
			Season:        domain.SeasonForFiscalWeek(fw),
			FiscalMonth:   fm,
		})
	}
	return cal
}

// Week returns the calendar row for a week index.
func (c Calendar) Week(idx int) (domain.CalendarWeek, bool) {
	if idx < 1 || idx > len(c) {
		return domain.CalendarWeek{}, false
	}
	return c[idx-1], true
}
