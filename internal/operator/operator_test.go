package operator

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/recurring-server/internal/recurring"
	"github.com/carson-networks/recurring-server/internal/storage"
)

type fakeTx struct {
	mu         *sync.Mutex
	queries    *[]string
	execErr    error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	f.mu.Lock()
	*f.queries = append(*f.queries, query)
	f.mu.Unlock()
	if f.execErr != nil {
		return nil, f.execErr
	}
	return driver.RowsAffected(1), nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...any) (scan.Rows, error) {
	return nil, errors.New("fakeTx: queries not supported")
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

// fakeSource hands out a fresh fakeTx per Write call.
type fakeSource struct {
	mu       sync.Mutex
	txs      []*fakeTx
	queries  []string
	execErr  error
	writeErr error
}

func (s *fakeSource) Write(context.Context) (*storage.Writer, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &fakeTx{mu: &s.mu, queries: &s.queries, execErr: s.execErr}
	s.txs = append(s.txs, tx)
	return storage.NewWriter(tx), nil
}

func newTestStore(t *testing.T, source *fakeSource) *Store {
	t.Helper()
	delegator := NewOperatorDelegator(source, 2)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	return NewStore(delegator)
}

func testInstances(n int) []recurring.Instance {
	tmpl := recurring.Template{
		RecurringID: uuid.Must(uuid.NewV4()),
		Amount:      decimal.RequireFromString("15.00"),
		Type:        "expense",
		Category:    "Music",
	}
	return recurring.GenerateMonthly(tmpl, recurring.MonthlySchedule{
		Day:   3,
		Start: recurring.YearMonth{Year: 2025, Month: 1},
		End:   recurring.YearMonth{Year: 2025, Month: n},
	})
}

func TestStore_BulkPut_CommitsOneTransaction(t *testing.T) {
	source := &fakeSource{}
	store := newTestStore(t, source)

	err := store.BulkPut(context.Background(), "transactions", testInstances(3))

	require.NoError(t, err)
	require.Len(t, source.txs, 1)
	assert.True(t, source.txs[0].committed)
	assert.False(t, source.txs[0].rolledBack)
	require.Len(t, source.queries, 1)
	assert.Contains(t, source.queries[0], `"transactions"`)
}

func TestStore_BulkPut_RollsBackOnFailure(t *testing.T) {
	source := &fakeSource{execErr: errors.New("duplicate key")}
	store := newTestStore(t, source)

	err := store.BulkPut(context.Background(), "transactions", testInstances(2))

	assert.ErrorIs(t, err, source.execErr)
	require.Len(t, source.txs, 1)
	assert.True(t, source.txs[0].rolledBack)
	assert.False(t, source.txs[0].committed)
}

func TestStore_BulkPut_RejectsMalformedDate(t *testing.T) {
	source := &fakeSource{}
	store := newTestStore(t, source)
	items := testInstances(1)
	items[0].Date = "2025-13-01"

	err := store.BulkPut(context.Background(), "transactions", items)

	assert.Error(t, err)
	assert.Empty(t, source.txs)
}

func TestStore_WriteError(t *testing.T) {
	source := &fakeSource{writeErr: errors.New("connection refused")}
	store := newTestStore(t, source)

	err := store.BulkPut(context.Background(), "transactions", testInstances(1))

	assert.ErrorIs(t, err, source.writeErr)
}

func TestStore_CanceledContext(t *testing.T) {
	source := &fakeSource{}
	store := newTestStore(t, source)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.BulkPut(ctx, "transactions", testInstances(1))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, source.txs)
}

func TestStore_SaveRule(t *testing.T) {
	source := &fakeSource{}
	store := newTestStore(t, source)
	day, month, year, endYear := 10, 4, 2025, 2026

	err := store.SaveRule(context.Background(), recurring.StoredRule{
		Rule: recurring.Rule{
			Frequency:  recurring.FrequencyMonthly,
			DayOfMonth: &day,
			StartMonth: &month,
			StartYear:  &year,
			EndMonth:   &month,
			EndYear:    &endYear,
		},
		Template: recurring.Template{
			RecurringID: uuid.Must(uuid.NewV4()),
			Amount:      decimal.RequireFromString("5.00"),
			Type:        "income",
			Category:    "Interest",
		},
		GeneratedCount: 13,
	})

	require.NoError(t, err)
	require.Len(t, source.queries, 1)
	assert.Contains(t, source.queries[0], `"recurring_rules"`)
	assert.True(t, source.txs[0].committed)
}

func TestOperatorDelegator_StopIsIdempotent(t *testing.T) {
	delegator := NewOperatorDelegator(&fakeSource{}, 0)
	delegator.Start()

	delegator.Stop()
	delegator.Stop()
	assert.Equal(t, 1, delegator.numWorkers)
}

// cancelingAction cancels its own context mid-transaction, as a deadline
// landing during commit would.
type cancelingAction struct {
	cancel context.CancelFunc
}

func (a *cancelingAction) Perform(context.Context, *storage.Writer) error {
	a.cancel()
	return nil
}

func TestOperatorDelegator_ReportsCommittedActionAfterCancel(t *testing.T) {
	source := &fakeSource{}
	delegator := NewOperatorDelegator(source, 1)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	ctx, cancel := context.WithCancel(context.Background())

	err := delegator.Process(ctx, &cancelingAction{cancel: cancel})

	assert.NoError(t, err)
	require.Len(t, source.txs, 1)
	assert.True(t, source.txs[0].committed)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
