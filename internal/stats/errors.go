package stats

import (
	"errors"
	"fmt"
)

// InsufficientDataError reports that a sample was too small for the
// requested statistic. It is a typed, non-fatal result: batch callers
// skip the item instead of aborting.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d points, got %d", e.Op, e.Need, e.Got)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}
