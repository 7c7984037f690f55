package recurring

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError carries every problem found in a rule. Callers map it to a
// client error and must resubmit a corrected rule.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "recurring: invalid rule: " + strings.Join(e.Problems, "; ")
}

// ChunkFailure describes one chunk the store rejected.
type ChunkFailure struct {
	Index int
	Size  int
	Err   error
}

// PersistenceError reports a partially persisted instance set. Chunks listed in
// Succeeded stay written; nothing is rolled back.
type PersistenceError struct {
	Table        string
	TotalChunks  int
	Succeeded    []int
	Failed       []ChunkFailure
	NotAttempted []int
}

func (e *PersistenceError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, fmt.Sprintf("chunk %d (%d items): %v", f.Index, f.Size, f.Err))
	}
	return fmt.Sprintf("recurring: persisted %d of %d chunks to %s: %s",
		len(e.Succeeded), e.TotalChunks, e.Table, strings.Join(parts, "; "))
}

// Unwrap exposes the store errors so errors.Is can match them.
func (e *PersistenceError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var errNotAttempted = errors.New("recurring: chunk not attempted")
