package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurring-server/internal/recurring"
)

// previewSize is how many leading instances a MaterializeResult carries.
const previewSize = 5

// MaterializeResult summarizes a materialized rule.
type MaterializeResult struct {
	RecurringID    uuid.UUID
	GeneratedCount int
	Preview        []recurring.Instance
}

// RuleStore persists the rule record.
type RuleStore interface {
	SaveRule(ctx context.Context, stored recurring.StoredRule) error
}

// InstancePersister persists a full instance sequence. *recurring.BatchDispatcher
// implements it.
type InstancePersister interface {
	Persist(ctx context.Context, instances []recurring.Instance) error
}
