package recurring

import "fmt"

// Safety caps on generated instances, independent of the validator's span limits.
const (
	MonthlyCap  = 120
	YearlyCap   = 20
	BiWeeklyCap = 240
)

// Generate expands a validated schedule into dated instances in generation order.
// It performs no validation.
func Generate(tmpl Template, schedule Schedule) []Instance {
	switch s := schedule.(type) {
	case MonthlySchedule:
		return GenerateMonthly(tmpl, s)
	case YearlySchedule:
		return GenerateYearly(tmpl, s)
	case BiWeeklySchedule:
		return GenerateBiWeekly(tmpl, s)
	}
	panic(fmt.Sprintf("recurring: unsupported schedule %T", schedule))
}

// GenerateMonthly emits one instance per month from Start to End inclusive.
func GenerateMonthly(tmpl Template, s MonthlySchedule) []Instance {
	out := make([]Instance, 0, min(max(s.Start.MonthsUntil(s.End)+1, 0), MonthlyCap))
	for ym := s.Start; !s.End.Before(ym); ym = ym.Next() {
		if len(out) >= MonthlyCap {
			break
		}
		out = append(out, tmpl.instance(len(out), ym.Year, ym.Month, s.Day))
	}
	return out
}

// GenerateYearly emits one instance per year from StartYear to EndYear inclusive.
func GenerateYearly(tmpl Template, s YearlySchedule) []Instance {
	out := make([]Instance, 0, min(max(s.EndYear-s.StartYear+1, 0), YearlyCap))
	for year := s.StartYear; year <= s.EndYear; year++ {
		if len(out) >= YearlyCap {
			break
		}
		out = append(out, tmpl.instance(len(out), year, s.Month, s.Day))
	}
	return out
}

// GenerateBiWeekly emits the first-day then second-day instance of every month
// from Start to End inclusive.
func GenerateBiWeekly(tmpl Template, s BiWeeklySchedule) []Instance {
	out := make([]Instance, 0, min(max(2*(s.Start.MonthsUntil(s.End)+1), 0), BiWeeklyCap))
	for ym := s.Start; !s.End.Before(ym); ym = ym.Next() {
		for _, day := range [2]int{s.FirstDay, s.SecondDay} {
			if len(out) >= BiWeeklyCap {
				return out
			}
			out = append(out, tmpl.instance(len(out), ym.Year, ym.Month, day))
		}
	}
	return out
}

// ExpectedCount is the number of instances schedule spans before any safety cap.
func ExpectedCount(schedule Schedule) int {
	switch s := schedule.(type) {
	case MonthlySchedule:
		return max(s.Start.MonthsUntil(s.End)+1, 0)
	case YearlySchedule:
		return max(s.EndYear-s.StartYear+1, 0)
	case BiWeeklySchedule:
		return 2 * max(s.Start.MonthsUntil(s.End)+1, 0)
	}
	return 0
}

// SafetyCap returns the hard instance limit for frequency.
func SafetyCap(frequency Frequency) int {
	switch frequency {
	case FrequencyMonthly:
		return MonthlyCap
	case FrequencyYearly:
		return YearlyCap
	case FrequencyBiWeekly:
		return BiWeeklyCap
	}
	return 0
}

func (t Template) instance(seq, year, month, day int) Instance {
	return Instance{
		RecurringID: t.RecurringID,
		Sequence:    seq,
		Date:        formatDate(year, month, ClampDay(day, month, year)),
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
		IsRecurring: true,
	}
}
