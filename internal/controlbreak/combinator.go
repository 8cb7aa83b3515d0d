package controlbreak

import "fmt"

// TestAndDo runs one Test cycle with values for levels 1..N-1 and force as
// the value of the most major level, then calls fn.
//
// The most major level is usually a pseudo-level such as end of input: once
// force flips to true it breaks, and Break reports true at every level, so
// closing logic runs through the same path as ordinary grouping. The first
// call after New or Reset seeds the force slot like any other.
func (t *Tracker) TestAndDo(values []any, force bool, fn func()) (int, error) {
	n := t.reg.len()
	if len(values) != n-1 {
		return 0, fmt.Errorf("%w: got %d level values plus force, want %d", ErrArgumentCountMismatch, len(values), n-1)
	}
	if fn == nil {
		return 0, ErrNotCallable
	}

	vec := make([]any, 0, n)
	vec = append(vec, values...)
	vec = append(vec, force)

	level, err := t.Test(vec...)
	if err != nil {
		return 0, err
	}
	fn()
	return level, nil
}
