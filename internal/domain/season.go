package domain

// Season is the merchandising season of a fiscal week.
type Season string

const (
	SeasonSpring  Season = "Spring"
	SeasonSummer  Season = "Summer"
	SeasonFall    Season = "Fall"
	SeasonHoliday Season = "Holiday"
)

// SeasonForFiscalWeek maps a fiscal week (1..52) to its season.
func SeasonForFiscalWeek(fw int) Season {
	switch {
	case fw >= 1 && fw <= 13:
		return SeasonSpring
	case fw >= 14 && fw <= 26:
		return SeasonSummer
	case fw >= 27 && fw <= 39:
		return SeasonFall
	default:
		return SeasonHoliday
	}
}
