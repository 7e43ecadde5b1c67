package syntax

import (
	"fmt"

	"github.com/pkg/errors"
)

// UnsupportedError reports a program feature or type the calculus has no
// rule or translation for. It is fatal to the current proof unit.
type UnsupportedError struct {
	Construct string
	Fragment  string
}

func (e *UnsupportedError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("unsupported %s", e.Construct)
	}
	return fmt.Sprintf("unsupported %s: %s", e.Construct, e.Fragment)
}

func Unsupported(construct string, fragment Anything) error {
	res := &UnsupportedError{Construct: construct}
	if fragment != nil {
		res.Fragment = fragment.PrettyPrint()
	}
	return res
}

// MalformedSpecError reports a contract annotation that cannot be turned
// into a formula, found before symbolic execution starts.
type MalformedSpecError struct {
	Spec   string
	Reason string
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed specification %q: %s", e.Spec, e.Reason)
}

func Malformed(spec, format string, args ...interface{}) error {
	return &MalformedSpecError{Spec: spec, Reason: fmt.Sprintf(format, args...)}
}

func IsUnsupported(err error) bool {
	_, ok := errors.Cause(err).(*UnsupportedError)
	return ok
}

func IsMalformed(err error) bool {
	_, ok := errors.Cause(err).(*MalformedSpecError)
	return ok
}

// InternalError is a calculus bug. It is only ever raised through panic.
type InternalError struct {
	msg string
}

func (e *InternalError) Error() string { return "internal error: " + e.msg }

func NewInternalError(format string, args ...interface{}) *InternalError {
	return &InternalError{msg: fmt.Sprintf(format, args...)}
}
