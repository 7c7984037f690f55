package recurring

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MinYear = 2020
	MaxYear = 2030

	MaxMonthSpan   = 120
	MaxYearSpan    = 20
	MinBiWeeklyGap = 7
)

// RuleValidator checks a rule for internal consistency before generation.
type RuleValidator struct {
	now     func() time.Time
	payload *validator.Validate
}

// ValidatorOption configures a RuleValidator.
type ValidatorOption func(*RuleValidator)

// WithClock overrides the clock used by the recency checks.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *RuleValidator) {
		v.now = now
	}
}

// NewRuleValidator creates a RuleValidator.
func NewRuleValidator(opts ...ValidatorOption) *RuleValidator {
	payload := validator.New()
	payload.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v := &RuleValidator{
		now:     time.Now,
		payload: payload,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate returns every problem found in rule, or nil when the rule may be
// generated against. All checks run; none short-circuits another.
func (v *RuleValidator) Validate(rule Rule) []string {
	var errs problems

	if rule.TemplateData == nil {
		errs.add("templateData is required")
	} else {
		for _, msg := range v.validateTemplate(*rule.TemplateData) {
			errs.add("templateData: %s", msg)
		}
	}

	switch {
	case rule.Frequency == "":
		errs.add("frequency is required")
	case !rule.Frequency.IsValid():
		errs.add("frequency must be one of %s, %s, %s", FrequencyMonthly, FrequencyYearly, FrequencyBiWeekly)
	}

	if rule.DayOfMonth == nil || *rule.DayOfMonth == 0 {
		errs.add("dayOfMonth is required")
	} else {
		checkRange(&errs, "dayOfMonth", *rule.DayOfMonth, 1, 31)
	}

	switch rule.Frequency {
	case FrequencyYearly:
		validateYearly(&errs, rule)
	case FrequencyMonthly:
		validateMonthRange(&errs, rule)
	case FrequencyBiWeekly:
		validateMonthRange(&errs, rule)
		validateSecondDay(&errs, rule)
	}

	v.validateRecency(&errs, rule)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *RuleValidator) validateTemplate(data TemplateData) []string {
	err := v.payload.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "numeric":
			msgs = append(msgs, fe.Field()+" must be a number")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return msgs
}

func validateYearly(errs *problems, rule Rule) {
	if rule.MonthOfYear == nil {
		errs.add("monthOfYear is required for yearly frequency")
	} else {
		checkRange(errs, "monthOfYear", *rule.MonthOfYear, 1, 12)
	}

	startOK := requireInRange(errs, "startYear", rule.StartYear, MinYear, MaxYear)
	endOK := requireInRange(errs, "endYear", rule.EndYear, MinYear, MaxYear)
	if rule.StartYear == nil || rule.EndYear == nil {
		return
	}

	if *rule.EndYear <= *rule.StartYear {
		errs.add("endYear must be after startYear")
	}
	if startOK && endOK && *rule.EndYear-*rule.StartYear > MaxYearSpan {
		errs.add("yearly recurrence cannot span more than %d years", MaxYearSpan)
	}
}

func validateMonthRange(errs *problems, rule Rule) {
	ok := requireInRange(errs, "startMonth", rule.StartMonth, 1, 12)
	ok = requireInRange(errs, "startYear", rule.StartYear, MinYear, MaxYear) && ok
	ok = requireInRange(errs, "endMonth", rule.EndMonth, 1, 12) && ok
	ok = requireInRange(errs, "endYear", rule.EndYear, MinYear, MaxYear) && ok
	if !ok {
		return
	}

	start := YearMonth{Year: *rule.StartYear, Month: *rule.StartMonth}
	end := YearMonth{Year: *rule.EndYear, Month: *rule.EndMonth}
	if !start.Before(end) {
		errs.add("end date must be after start date")
	}

	monthsDiff := start.MonthsUntil(end)
	switch {
	case monthsDiff < 0:
		errs.add("end date cannot be before start date")
	case monthsDiff == 0:
		errs.add("recurring period is too short, it must span at least 1 month")
	case monthsDiff > MaxMonthSpan:
		errs.add("recurring period cannot exceed %d months (10 years)", MaxMonthSpan)
	}
}

func validateSecondDay(errs *problems, rule Rule) {
	if rule.DayOfMonth2 == nil {
		errs.add("dayOfMonth2 is required for bi-weekly frequency")
		return
	}
	if !checkRange(errs, "dayOfMonth2", *rule.DayOfMonth2, 1, 31) {
		return
	}
	if rule.DayOfMonth == nil || *rule.DayOfMonth == 0 {
		return
	}

	first, second := *rule.DayOfMonth, *rule.DayOfMonth2
	if first == second {
		errs.add("dayOfMonth2 must be different from dayOfMonth")
		return
	}
	if gap := abs(second - first); gap < MinBiWeeklyGap {
		errs.add("dayOfMonth and dayOfMonth2 must be at least %d days apart", MinBiWeeklyGap)
	}
}

func (v *RuleValidator) validateRecency(errs *problems, rule Rule) {
	if rule.StartYear == nil {
		return
	}

	now := v.now()
	if *rule.StartYear < now.Year()-1 {
		errs.add("startYear cannot be more than one year in the past")
	}

	if rule.Frequency == FrequencyYearly || !rule.Frequency.IsValid() || rule.StartMonth == nil {
		return
	}
	start := YearMonth{Year: *rule.StartYear, Month: *rule.StartMonth}
	current := YearMonth{Year: now.Year(), Month: int(now.Month())}
	if start.MonthsUntil(current) > 12 {
		errs.add("start date cannot be more than one year in the past")
	}
}

func requireInRange(errs *problems, field string, value *int, lo, hi int) bool {
	if value == nil {
		errs.add("%s is required", field)
		return false
	}
	return checkRange(errs, field, *value, lo, hi)
}

func checkRange(errs *problems, field string, value, lo, hi int) bool {
	if value < lo || value > hi {
		errs.add("%s must be between %d and %d", field, lo, hi)
		return false
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
