package actions

import (
	"context"

	"github.com/carson-networks/recurring-server/internal/storage"
	"github.com/carson-networks/recurring-server/internal/storage/rule"
)

type CreateRecurringRule struct {
	Rule *rule.RuleCreate

	IAction
}

func (c *CreateRecurringRule) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Rules.Insert(ctx, c.Rule)
}
