package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/carson-networks/recurring-server/internal/operator/actions"
	"github.com/carson-networks/recurring-server/internal/recurring"
	"github.com/carson-networks/recurring-server/internal/storage/instance"
	"github.com/carson-networks/recurring-server/internal/storage/rule"
)

// Store persists rules and instance chunks through the delegator, one
// transaction per call.
type Store struct {
	delegator *OperatorDelegator
}

var _ recurring.BulkWriter = (*Store)(nil)

func NewStore(d *OperatorDelegator) *Store {
	return &Store{delegator: d}
}

// BulkPut writes items to table as a single transaction.
func (s *Store) BulkPut(ctx context.Context, table string, items []recurring.Instance) error {
	rows := make([]*instance.InstanceCreate, len(items))
	for i, item := range items {
		date, err := time.Parse(recurring.DateLayout, item.Date)
		if err != nil {
			return fmt.Errorf("instance %d: %w", item.Sequence, err)
		}
		rows[i] = &instance.InstanceCreate{
			RecurringID:     item.RecurringID,
			Sequence:        item.Sequence,
			TransactionDate: date,
			Amount:          item.Amount,
			Type:            item.Type,
			Category:        item.Category,
			Description:     item.Description,
			IsRecurring:     item.IsRecurring,
		}
	}

	return s.delegator.Process(ctx, &actions.InsertInstances{Table: table, Rows: rows})
}

// SaveRule stores the rule record.
func (s *Store) SaveRule(ctx context.Context, stored recurring.StoredRule) error {
	r := stored.Rule
	create := &rule.RuleCreate{
		ID:             stored.ID(),
		Frequency:      string(r.Frequency),
		DayOfMonth:     deref(r.DayOfMonth),
		DayOfMonth2:    r.DayOfMonth2,
		MonthOfYear:    r.MonthOfYear,
		StartMonth:     r.StartMonth,
		StartYear:      deref(r.StartYear),
		EndMonth:       r.EndMonth,
		EndYear:        deref(r.EndYear),
		Amount:         stored.Template.Amount,
		Type:           stored.Template.Type,
		Category:       stored.Template.Category,
		Description:    stored.Template.Description,
		GeneratedCount: stored.GeneratedCount,
	}

	return s.delegator.Process(ctx, &actions.CreateRecurringRule{Rule: create})
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
