package lookup

import (
	"errors"
	"fmt"
)

// Kind says which part of a query failed to resolve.
type Kind string

const (
	KindLocation Kind = "location"
	KindNetwork  Kind = "network"
)

// NotFoundError reports an unresolved location or network.  Input is the
// caller's original spelling.  For KindNetwork, Location is the resolved
// location and Available lists its networks in stored order.
type NotFoundError struct {
	Kind      Kind
	Input     string
	Location  string
	Available []string
}

func (e *NotFoundError) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("network %q not found in %s", e.Input, e.Location)
	}
	return fmt.Sprintf("location %q not found", e.Input)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
