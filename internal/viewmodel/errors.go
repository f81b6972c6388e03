package viewmodel

import "errors"

// ErrorKind names the failed operation.
type ErrorKind int

const (
	FetchFailed ErrorKind = iota + 1
	CreateFailed
	UpdateFailed
	DeleteFailed
)

// Message is the static text shown to the user for k.
func (k ErrorKind) Message() string {
	switch k {
	case FetchFailed:
		return "Failed to load products, make sure the catalog service is running"
	case CreateFailed:
		return "Failed to create product"
	case UpdateFailed:
		return "Failed to update product"
	case DeleteFailed:
		return "Failed to delete product"
	default:
		return "Operation failed"
	}
}

func (k ErrorKind) String() string {
	switch k {
	case FetchFailed:
		return "FetchFailed"
	case CreateFailed:
		return "CreateFailed"
	case UpdateFailed:
		return "UpdateFailed"
	case DeleteFailed:
		return "DeleteFailed"
	default:
		return "Unknown"
	}
}

// OpError is a failed API operation. Error() is the user-facing message;
// the transport cause stays reachable through Unwrap.
type OpError struct {
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string { return e.Kind.Message() }

func (e *OpError) Unwrap() error { return e.Err }

// ErrNotConfirmed is returned by Remove when the user declines.
var ErrNotConfirmed = errors.New("removal not confirmed")

// KindOf returns the kind of an *OpError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var op *OpError
	if errors.As(err, &op) {
		return op.Kind
	}
	return 0
}
