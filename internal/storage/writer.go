package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/recurring-server/internal/storage/instance"
	"github.com/carson-networks/recurring-server/internal/storage/rule"
)

// Tx is the transaction a Writer runs in. bob.Tx satisfies it.
type Tx interface {
	bob.Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	tx        Tx
	Instances *instance.Writer
	Rules     *rule.Writer
}

func NewWriter(tx Tx) *Writer {
	return &Writer{
		tx:        tx,
		Instances: instance.NewWriter(tx),
		Rules:     rule.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
