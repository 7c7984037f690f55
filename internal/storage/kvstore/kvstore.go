package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carson-networks/recurring-server/internal/recurring"
)

const ruleKeyPrefix = "recurring_rules:"

// Store keeps rules and generated instances in Redis. Every BulkPut is one
// MULTI/EXEC block, so a chunk is written entirely or not at all.
type Store struct {
	client redis.UniversalClient
}

var _ recurring.BulkWriter = (*Store)(nil)

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// InstanceKey is the hash key of one instance.
func InstanceKey(table string, item recurring.Instance) string {
	return fmt.Sprintf("%s:%s:%d", table, item.RecurringID, item.Sequence)
}

// IndexKey is the sorted set listing a rule's instances in date order.
func IndexKey(table, recurringID string) string {
	return table + ":recurring:" + recurringID
}

// RuleKey is the key a rule record is stored under.
func RuleKey(recurringID string) string {
	return ruleKeyPrefix + recurringID
}

func (s *Store) BulkPut(ctx context.Context, table string, items []recurring.Instance) error {
	if len(items) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			date, err := time.Parse(recurring.DateLayout, item.Date)
			if err != nil {
				return fmt.Errorf("instance %d: %w", item.Sequence, err)
			}

			key := InstanceKey(table, item)
			pipe.HSet(ctx, key, map[string]interface{}{
				"recurringId": item.RecurringID.String(),
				"sequence":    item.Sequence,
				"date":        item.Date,
				"amount":      item.Amount.String(),
				"type":        item.Type,
				"category":    item.Category,
				"description": item.Description,
				"isRecurring": item.IsRecurring,
			})
			pipe.ZAdd(ctx, IndexKey(table, item.RecurringID.String()), redis.Z{
				Score:  float64(date.Unix()) + float64(item.Sequence)/1000,
				Member: key,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bulk put %d instances into %s: %w", len(items), table, err)
	}
	return nil
}

type storedRule struct {
	ID             string         `json:"id"`
	Rule           recurring.Rule `json:"rule"`
	Amount         string         `json:"amount"`
	GeneratedCount int            `json:"generatedCount"`
}

func (s *Store) SaveRule(ctx context.Context, stored recurring.StoredRule) error {
	payload, err := json.Marshal(storedRule{
		ID:             stored.ID().String(),
		Rule:           stored.Rule,
		Amount:         stored.Template.Amount.String(),
		GeneratedCount: stored.GeneratedCount,
	})
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, RuleKey(stored.ID().String()), payload, 0).Err(); err != nil {
		return fmt.Errorf("save recurring rule %s: %w", stored.ID(), err)
	}
	return nil
}
