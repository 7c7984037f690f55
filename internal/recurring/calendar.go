package recurring

import "time"

// DateLayout is the ISO date format of Instance.Date.
const DateLayout = time.DateOnly

// DaysInMonth returns the number of days in month of year, accounting for leap years.
func DaysInMonth(month, year int) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns day, or the last day of the month when day does not exist in it.
func ClampDay(day, month, year int) int {
	if last := DaysInMonth(month, year); day > last {
		return last
	}
	return day
}

func formatDate(year, month, day int) string {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		panic("recurring: date out of range after clamping")
	}
	return date.Format(DateLayout)
}
