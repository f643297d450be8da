// Package check enforces programmer contracts such as balanced
// save/restore calls or painting a layer before it was prerolled.
//
// By default a violated contract panics. Building with the "release" tag
// turns violations into warnings on the retain logger and lets the caller
// continue with its best-effort fallback.
package check

import (
	"fmt"

	"github.com/gogpu/retain"
)

// Violation is the panic value raised for a broken contract.
type Violation struct {
	Msg string
}

// Error returns the message with the package prefix.
func (v Violation) Error() string { return "retain: " + v.Msg }

// Assert reports a violation when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		Fail(format, args...)
	}
}

// Fail reports a violation unconditionally. It returns only when
// assertions are disabled.
func Fail(format string, args ...any) {
	v := Violation{Msg: fmt.Sprintf(format, args...)}
	if Enabled {
		panic(v)
	}
	retain.Logger().Warn("contract violation", "msg", v.Msg)
}
