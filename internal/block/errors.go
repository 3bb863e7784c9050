package block

import (
	"errors"
	"fmt"
)

// errAttrMissing reports a sysfs attribute that is expected on every block
// device but was not present.
var errAttrMissing = errors.New("attribute missing")

// ConfigError reports invalid caller input, such as a selector with zero or
// more than one identifier set, or an unknown text encoding name.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("block: invalid configuration: %s", e.Reason)
}

// NotFoundError reports that no block device matched the given identifier.
// Key names the identifier kind (e.g. "name", "by-id", "serial") and Value
// holds the value that failed to match.
type NotFoundError struct {
	Key   string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("block: no device found for %s %q", e.Key, e.Value)
}

// AttributeError reports that a mandatory attribute of a device could not be
// read or parsed. Optional attributes never produce this error; they degrade
// to absent or failed values instead.
type AttributeError struct {
	Device string
	Attr   string
	Err    error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("block: device %s: attribute %s: %v", e.Device, e.Attr, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// EnumerationError reports that the partition enumeration tool failed for a
// disk. A disk with zero partitions is not an error and does not produce it.
type EnumerationError struct {
	Disk string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("block: enumerate partitions of %s: %v", e.Disk, e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}
