package smart

import (
	"errors"
	"fmt"
)

// ErrNoSensor reports that a device exposes no hardware temperature sensor.
// This is the "unsupported" outcome for temperature reads, distinct from a
// sensor that exists but could not be read.
var ErrNoSensor = errors.New("no temperature sensor")

// ErrVersionTooOld reports that the installed smartctl predates JSON output
// support and cannot serve as a backend.
var ErrVersionTooOld = errors.New("smartctl version too old (need 7.0 or newer)")

// UnavailableError reports that the SMART backend could not be run against a
// device: the tool is missing, access was denied, or the device could not be
// opened.
type UnavailableError struct {
	Device string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("smart: backend unavailable for %s: %v", e.Device, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ParseError reports that the SMART backend ran but produced output that
// could not be understood.
type ParseError struct {
	Device string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("smart: malformed backend output for %s: %v", e.Device, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
