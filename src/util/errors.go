// errors.go provides a sticky, line-ordered error accumulator. Adapted from
// the teacher's util.perror (util/perror.go: NewPerror/Append/Errors/Len),
// with the channel-based worker listener dropped in favour of a plain slice
// — cmmc analyses and translates single-threaded, so nothing needs to
// synchronise concurrent Append calls. The "sticky flag, keep going"
// discipline (spec §7) is preserved: Append never stops the caller.

package util

import "sort"

// ErrorList accumulates errors without ever becoming fatal on its own. The
// caller decides, after a pass completes, whether len(list) > 0 should abort
// the next stage.
type ErrorList struct {
	errs []error
}

// Append records err. A <nil> error is ignored.
func (l *ErrorList) Append(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Len returns the number of recorded errors.
func (l *ErrorList) Len() int {
	return len(l.errs)
}

// HasErrors reports whether any error has been recorded.
func (l *ErrorList) HasErrors() bool {
	return len(l.errs) > 0
}

// Errors returns the recorded errors.
func (l *ErrorList) Errors() []error {
	return l.errs
}

// SortByKey reorders the recorded errors in place using less, a comparison
// over the error slice, keeping diagnostics stable and line-ordered for
// testability (spec §7).
func (l *ErrorList) SortByKey(less func(a, b error) bool) {
	sort.SliceStable(l.errs, func(i, j int) bool {
		return less(l.errs[i], l.errs[j])
	})
}

// Reset empties the error list.
func (l *ErrorList) Reset() {
	l.errs = nil
}
