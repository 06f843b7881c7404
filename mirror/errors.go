package mirror

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMemberRead matches every *ReadError.
	ErrMemberRead = errors.New("member read failed")

	// ErrIllegalValue is returned by Field.Value when the value cannot be
	// converted into the host's value space.
	ErrIllegalValue = errors.New("illegal value")
)

type Reason string

const (
	ReasonInstanceOnly  Reason = "instance-only"
	ReasonWriteOnly     Reason = "write-only"
	ReasonUnbridgeable  Reason = "unbridgeable"
	ReasonClassNotFound Reason = "class-not-found"
)

type ReadError struct {
	Member string
	Reason Reason
	Cause  error
}

func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("read %s: %s: %v", e.Member, e.Reason, e.Cause)
	}
	return fmt.Sprintf("read %s: %s", e.Member, e.Reason)
}

func (e *ReadError) Unwrap() error { return e.Cause }

func (e *ReadError) Is(target error) bool {
	return target == ErrMemberRead
}
