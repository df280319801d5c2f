package mixer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration names the invalid-configuration error kind
	// (non-finite speed, negative min/max, or min > max). No function in
	// this package returns it: those rejections panic through assertf.
	ErrInvalidConfiguration = errors.New("mixer: invalid configuration")

	// ErrSampleRead is wrapped around a may-throw SampleSource's read failure
	// when it propagates out of Process.
	ErrSampleRead = errors.New("mixer: sample read failed")
)

// assertf panics on programmer-contract violations the spec calls
// "assertion failures... undefined otherwise" — configuration mistakes and
// caller contract violations, not recoverable runtime conditions.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("mixer: assertion failed: "+format, args...))
	}
}
