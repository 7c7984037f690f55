package rule

import (
	"context"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
)

type Writer struct {
	exec bob.Executor
}

func NewWriter(exec bob.Executor) *Writer {
	return &Writer{exec: exec}
}

// Insert stores a recurring rule.
func (w *Writer) Insert(ctx context.Context, create *RuleCreate) error {
	query := psql.Insert(
		im.Into(psql.Quote(TableName), columns...),
		im.Values(psql.Arg(create.values()...)),
	)
	if _, err := bob.Exec(ctx, w.exec, query); err != nil {
		return fmt.Errorf("insert recurring rule %s: %w", create.ID, err)
	}
	return nil
}
