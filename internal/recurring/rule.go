package recurring

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Frequency selects the generation algorithm and validation branch of a rule.
type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
	FrequencyBiWeekly Frequency = "bi-weekly"
)

// IsValid reports whether f is one of the supported frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyYearly, FrequencyBiWeekly:
		return true
	}
	return false
}

// TemplateData is the transaction payload copied into every generated instance.
type TemplateData struct {
	Amount      string `json:"amount" validate:"required,numeric"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
}

// Rule is a recurring template as submitted by a client. It is structurally
// parsed but not validated; nil fields were absent from the payload.
type Rule struct {
	TemplateData *TemplateData `json:"templateData"`
	Frequency    Frequency     `json:"frequency"`
	DayOfMonth   *int          `json:"dayOfMonth"`
	DayOfMonth2  *int          `json:"dayOfMonth2"`
	MonthOfYear  *int          `json:"monthOfYear"`
	StartMonth   *int          `json:"startMonth"`
	StartYear    *int          `json:"startYear"`
	EndMonth     *int          `json:"endMonth"`
	EndYear      *int          `json:"endYear"`
}

// YearMonth is a calendar month coordinate.
type YearMonth struct {
	Year  int
	Month int
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.index() < other.index()
}

// MonthsUntil returns the number of whole months from ym to other; negative when
// other is earlier.
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	return other.index() - ym.index()
}

// Next returns the following month, rolling the year over after December.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) index() int {
	return ym.Year*12 + (ym.Month - 1)
}

// Schedule is the frequency-specific shape of a validated rule. Exactly one of
// MonthlySchedule, YearlySchedule or BiWeeklySchedule implements it.
type Schedule interface {
	Frequency() Frequency
}

// MonthlySchedule emits one instance per month on Day.
type MonthlySchedule struct {
	Day   int
	Start YearMonth
	End   YearMonth
}

func (MonthlySchedule) Frequency() Frequency { return FrequencyMonthly }

// YearlySchedule emits one instance per year on Day of Month.
type YearlySchedule struct {
	Day       int
	Month     int
	StartYear int
	EndYear   int
}

func (YearlySchedule) Frequency() Frequency { return FrequencyYearly }

// BiWeeklySchedule emits two instances per month, on FirstDay then SecondDay.
type BiWeeklySchedule struct {
	FirstDay  int
	SecondDay int
	Start     YearMonth
	End       YearMonth
}

func (BiWeeklySchedule) Frequency() Frequency { return FrequencyBiWeekly }

// Schedule converts a validated rule into its tagged variant. It returns an
// error when a field the frequency needs is absent, which only happens if the
// rule skipped validation.
func (r Rule) Schedule() (Schedule, error) {
	switch r.Frequency {
	case FrequencyMonthly:
		if anyNil(r.DayOfMonth, r.StartMonth, r.StartYear, r.EndMonth, r.EndYear) {
			return nil, fmt.Errorf("recurring: incomplete %s rule", r.Frequency)
		}
		return MonthlySchedule{
			Day:   *r.DayOfMonth,
			Start: YearMonth{Year: *r.StartYear, Month: *r.StartMonth},
			End:   YearMonth{Year: *r.EndYear, Month: *r.EndMonth},
		}, nil
	case FrequencyYearly:
		if anyNil(r.DayOfMonth, r.MonthOfYear, r.StartYear, r.EndYear) {
			return nil, fmt.Errorf("recurring: incomplete %s rule", r.Frequency)
		}
		return YearlySchedule{
			Day:       *r.DayOfMonth,
			Month:     *r.MonthOfYear,
			StartYear: *r.StartYear,
			EndYear:   *r.EndYear,
		}, nil
	case FrequencyBiWeekly:
		if anyNil(r.DayOfMonth, r.DayOfMonth2, r.StartMonth, r.StartYear, r.EndMonth, r.EndYear) {
			return nil, fmt.Errorf("recurring: incomplete %s rule", r.Frequency)
		}
		return BiWeeklySchedule{
			FirstDay:  *r.DayOfMonth,
			SecondDay: *r.DayOfMonth2,
			Start:     YearMonth{Year: *r.StartYear, Month: *r.StartMonth},
			End:       YearMonth{Year: *r.EndYear, Month: *r.EndMonth},
		}, nil
	}
	return nil, fmt.Errorf("recurring: unknown frequency %q", r.Frequency)
}

// Template is the validated payload shared by all instances of one rule.
type Template struct {
	RecurringID uuid.UUID
	Amount      decimal.Decimal
	Type        string
	Category    string
	Description string
}

// NewTemplate builds a Template from validated template data. It panics on a
// non-numeric amount, which validation rules out.
func NewTemplate(recurringID uuid.UUID, data TemplateData) Template {
	return Template{
		RecurringID: recurringID,
		Amount:      decimal.RequireFromString(data.Amount),
		Type:        data.Type,
		Category:    data.Category,
		Description: data.Description,
	}
}

// Instance is one dated transaction produced from a rule. Sequence is its
// position in generation order.
type Instance struct {
	RecurringID uuid.UUID       `json:"recurringId"`
	Sequence    int             `json:"sequence"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	IsRecurring bool            `json:"isRecurring"`
}

func anyNil(values ...*int) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

// StoredRule is a validated rule together with the template its instances were
// generated from.
type StoredRule struct {
	Rule           Rule
	Template       Template
	GeneratedCount int
}

// ID returns the recurring ID shared by the rule and its instances.
func (s StoredRule) ID() uuid.UUID {
	return s.Template.RecurringID
}
