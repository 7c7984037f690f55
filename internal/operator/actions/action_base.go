package actions

import (
	"context"

	"github.com/carson-networks/recurring-server/internal/storage"
)

// IAction is one unit of work run inside a single storage transaction.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
