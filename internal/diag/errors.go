package diag

import "strings"

// Errors accumulates independent failures within one pass so a single
// typing/optimization pass can surface every problem it finds rather than
// aborting at the first. A pass returns OK() only once the buffer is empty;
// between passes the pipeline stops at the first non-empty buffer to avoid
// cascading noise (spec §7).
type Errors struct {
	errs []*Error
}

// Add appends an error to the buffer. A nil error is ignored so call
// sites can write `errs.Add(maybeErr())` unconditionally.
func (e *Errors) Add(err *Error) {
	if err == nil {
		return
	}
	e.errs = append(e.errs, err)
}

// OK reports whether the buffer is empty.
func (e *Errors) OK() bool { return len(e.errs) == 0 }

// Len returns the number of accumulated errors.
func (e *Errors) Len() int { return len(e.errs) }

// All returns the accumulated errors in the order they were added.
func (e *Errors) All() []*Error { return e.errs }

// Err returns the accumulator as a single error, or nil if empty.
func (e *Errors) Err() error {
	if e.OK() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	parts := make([]string, len(e.errs))
	for i, err := range e.errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}
