package kvstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/recurring-server/internal/recurring"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr, client
}

func testTemplate() recurring.Template {
	return recurring.Template{
		RecurringID: uuid.Must(uuid.NewV4()),
		Amount:      decimal.RequireFromString("850.00"),
		Type:        "income",
		Category:    "Salary",
		Description: "Payroll",
	}
}

func TestStore_BulkPut(t *testing.T) {
	store, mr, client := newTestStore(t)
	tmpl := testTemplate()
	items := recurring.GenerateBiWeekly(tmpl, recurring.BiWeeklySchedule{
		FirstDay:  15,
		SecondDay: 31,
		Start:     recurring.YearMonth{Year: 2025, Month: 1},
		End:       recurring.YearMonth{Year: 2025, Month: 2},
	})

	err := store.BulkPut(context.Background(), "transactions", items)
	require.NoError(t, err)

	key := InstanceKey("transactions", items[3])
	assert.Equal(t, "2025-02-28", mr.HGet(key, "date"))
	assert.Equal(t, "850", mr.HGet(key, "amount"))
	assert.Equal(t, "Salary", mr.HGet(key, "category"))
	assert.Equal(t, tmpl.RecurringID.String(), mr.HGet(key, "recurringId"))

	members, err := client.ZRange(context.Background(), IndexKey("transactions", tmpl.RecurringID.String()), 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, members, 4)
	for i, item := range items {
		assert.Equal(t, InstanceKey("transactions", item), members[i])
	}
}

func TestStore_BulkPut_MalformedChunkWritesNothing(t *testing.T) {
	store, mr, _ := newTestStore(t)
	items := recurring.GenerateMonthly(testTemplate(), recurring.MonthlySchedule{
		Day:   1,
		Start: recurring.YearMonth{Year: 2025, Month: 1},
		End:   recurring.YearMonth{Year: 2025, Month: 3},
	})
	items[2].Date = "not-a-date"

	err := store.BulkPut(context.Background(), "transactions", items)

	assert.Error(t, err)
	assert.False(t, mr.Exists(InstanceKey("transactions", items[0])))
}

func TestStore_BulkPut_ConnectionError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	store := NewStore(client)

	err := store.BulkPut(context.Background(), "transactions", recurring.GenerateYearly(testTemplate(), recurring.YearlySchedule{
		Day: 1, Month: 1, StartYear: 2025, EndYear: 2026,
	}))

	assert.Error(t, err)
}

func TestStore_SaveRule(t *testing.T) {
	store, mr, _ := newTestStore(t)
	day, month, start, end := 1, 6, 2025, 2027
	stored := recurring.StoredRule{
		Rule: recurring.Rule{
			Frequency:   recurring.FrequencyYearly,
			DayOfMonth:  &day,
			MonthOfYear: &month,
			StartYear:   &start,
			EndYear:     &end,
		},
		Template:       testTemplate(),
		GeneratedCount: 3,
	}

	require.NoError(t, store.SaveRule(context.Background(), stored))

	raw, err := mr.Get(RuleKey(stored.ID().String()))
	require.NoError(t, err)

	var decoded storedRule
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, stored.ID().String(), decoded.ID)
	assert.Equal(t, recurring.FrequencyYearly, decoded.Rule.Frequency)
	assert.Equal(t, 6, *decoded.Rule.MonthOfYear)
	assert.Equal(t, "850", decoded.Amount)
	assert.Equal(t, 3, decoded.GeneratedCount)
}
