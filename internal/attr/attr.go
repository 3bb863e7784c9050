// Package attr provides a three-state optional value for device attributes.
//
// Block device attributes read from sysfs and udev fall into three cases
// that callers need to tell apart: the attribute was read (present), the
// attribute does not exist for this device class (absent), or reading it
// failed (error). Modeling absence as a zero value loses the distinction
// between "this loop device has no serial" and "reading the serial failed",
// so Value keeps the state explicit.
package attr

// State describes how a Value was obtained.
type State uint8

const (
	// Absent means the attribute does not exist for the device. This is a
	// normal, non-error state for optional attributes.
	Absent State = iota

	// Present means the attribute was read successfully.
	Present

	// Failed means an attempt to read the attribute returned an error.
	Failed
)

// Value holds an optional attribute along with the state it was read in.
// The zero Value is Absent.
type Value[T any] struct {
	val   T
	state State
	err   error
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{val: v, state: Present}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{state: Absent}
}

// Fail returns a failed Value recording err.
func Fail[T any](err error) Value[T] {
	return Value[T]{state: Failed, err: err}
}

// Get returns the held value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.val, v.state == Present
}

// Value returns the held value, or the zero value when not present.
func (v Value[T]) Value() T {
	return v.val
}

// Ok reports whether the attribute was read successfully.
func (v Value[T]) Ok() bool {
	return v.state == Present
}

// IsAbsent reports whether the attribute does not exist for the device.
func (v Value[T]) IsAbsent() bool {
	return v.state == Absent
}

// Err returns the read error, or nil unless the state is Failed.
func (v Value[T]) Err() error {
	if v.state != Failed {
		return nil
	}
	return v.err
}

// State returns the state the attribute was read in.
func (v Value[T]) State() State {
	return v.state
}
