package cache

import (
	"errors"
	"fmt"

	"github.com/roach88/tabular/internal/table"
)

// StartError reports that a coordinator failed to initialize. It wraps the
// underlying cause, such as table.ErrNameConflict or a storage-creation
// failure, and is returned to whoever called Start - never raised as a crash
// that takes down an unrelated caller.
type StartError struct {
	Name string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start coordinator %q: %v", e.Name, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// IsNameConflict reports whether err is a start failure caused by a
// duplicate name registration. Uses errors.Is to handle wrapping.
func IsNameConflict(err error) bool {
	return errors.Is(err, table.ErrNameConflict)
}
