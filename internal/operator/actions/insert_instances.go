package actions

import (
	"context"

	"github.com/carson-networks/recurring-server/internal/storage"
	"github.com/carson-networks/recurring-server/internal/storage/instance"
)

// InsertInstances writes one chunk of generated transactions. The chunk commits
// or rolls back as a unit.
type InsertInstances struct {
	Table string
	Rows  []*instance.InstanceCreate

	IAction
}

func (i *InsertInstances) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Instances.InsertBatch(ctx, i.Table, i.Rows)
}
