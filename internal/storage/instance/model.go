package instance

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// InstanceCreate is the input for inserting one generated transaction.
type InstanceCreate struct {
	RecurringID     uuid.UUID
	Sequence        int
	TransactionDate time.Time
	Amount          decimal.Decimal
	Type            string
	Category        string
	Description     string
	IsRecurring     bool
}

var columns = []string{
	"recurring_id",
	"sequence",
	"transaction_date",
	"amount",
	"type",
	"category",
	"description",
	"is_recurring",
}

func (c *InstanceCreate) values() []any {
	return []any{
		c.RecurringID,
		c.Sequence,
		c.TransactionDate,
		c.Amount,
		c.Type,
		c.Category,
		c.Description,
		c.IsRecurring,
	}
}
