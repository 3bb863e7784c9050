package block

import (
	"strings"

	"github.com/hostutils/diskinfo/internal/devname"
)

//go:generate stringer -type=DiskType

// DiskType classifies a block device by its storage technology. The values
// are single bits so that sets of types can be combined with bitwise OR, e.g.
// for discovery filters.
type DiskType uint

const (
	// HDD is a rotational hard disk drive.
	HDD DiskType = 1 << iota
	// SSD is a non-rotational solid state drive on a non-NVMe bus.
	SSD
	// NVMe is a disk attached through the NVMe protocol.
	NVMe
	// Loop is a loopback device backed by a regular file.
	Loop
	// Unknown marks a device whose class could not be determined.
	Unknown
)

// Has reports whether t contains every type in the set mask.
func (t DiskType) Has(mask DiskType) bool {
	return t&mask == mask
}

// classify derives the device class from the kernel name, the device ID, and
// the sysfs rotational attribute. Loop devices are recognized by major number
// 7 and NVMe devices by name, both before consulting the rotational flag. A
// missing or unrecognized rotational value yields Unknown rather than an
// error so that discovery can proceed past exotic devices.
func (sys *System) classify(name, devID string) DiskType {
	if strings.HasPrefix(devID, "7:") {
		return Loop
	}
	if devname.IsNVMe(name) {
		return NVMe
	}
	rot, ok, err := sys.fs.Attr(name, "queue/rotational")
	if err != nil || !ok {
		return Unknown
	}
	switch rot {
	case "1":
		return HDD
	case "0":
		return SSD
	}
	return Unknown
}
