package rule

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// TableName is the table recurring rules are stored in.
const TableName = "recurring_rules"

// RuleCreate is the input for storing a recurring rule.
type RuleCreate struct {
	ID             uuid.UUID
	Frequency      string
	DayOfMonth     int
	DayOfMonth2    *int
	MonthOfYear    *int
	StartMonth     *int
	StartYear      int
	EndMonth       *int
	EndYear        int
	Amount         decimal.Decimal
	Type           string
	Category       string
	Description    string
	GeneratedCount int
}

var columns = []string{
	"id",
	"frequency",
	"day_of_month",
	"day_of_month2",
	"month_of_year",
	"start_month",
	"start_year",
	"end_month",
	"end_year",
	"amount",
	"type",
	"category",
	"description",
	"generated_count",
}

func (c *RuleCreate) values() []any {
	return []any{
		c.ID,
		c.Frequency,
		c.DayOfMonth,
		c.DayOfMonth2,
		c.MonthOfYear,
		c.StartMonth,
		c.StartYear,
		c.EndMonth,
		c.EndYear,
		c.Amount,
		c.Type,
		c.Category,
		c.Description,
		c.GeneratedCount,
	}
}
