package instance

import (
	"context"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
)

type Writer struct {
	exec bob.Executor
}

func NewWriter(exec bob.Executor) *Writer {
	return &Writer{exec: exec}
}

// InsertBatch writes rows into table with a single multi-row INSERT.
func (w *Writer) InsertBatch(ctx context.Context, table string, rows []*InstanceCreate) error {
	if len(rows) == 0 {
		return nil
	}

	queryMods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(psql.Quote(table), columns...),
	}
	for _, row := range rows {
		queryMods = append(queryMods, im.Values(psql.Arg(row.values()...)))
	}

	if _, err := bob.Exec(ctx, w.exec, psql.Insert(queryMods...)); err != nil {
		return fmt.Errorf("insert %d instances into %s: %w", len(rows), table, err)
	}
	return nil
}
