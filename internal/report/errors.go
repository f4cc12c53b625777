package report

import "errors"

var ErrNoUsers = errors.New("at least one user is required")

// TransportError reports a failed search page or point lookup. The whole
// aggregation is abandoned when one is returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
