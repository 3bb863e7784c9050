// Package devname parses Linux kernel block device names.
package devname

import (
	"path/filepath"
	"regexp"
	"strings"
)

// kernelNameExp is the regexp expression for kernel block device names
// (e.g. sda, vdb, nvme0n1, mmcblk0, loop3).
var kernelNameExp = regexp.MustCompile(`^[a-z]+[a-z0-9]*$`)

// Partition suffixes appended to a parent disk name: a bare number for
// letter-terminated disks (sda1), pN for digit-terminated ones (nvme0n1p2).
var (
	numSuffixExp  = regexp.MustCompile(`^[0-9]+$`)
	pNumSuffixExp = regexp.MustCompile(`^p[0-9]+$`)
)

// FromPath parses a kernel device name from a string that may be either a
// bare name ("sda") or a device node path ("/dev/sda"). It returns "" when
// the string does not carry a well-formed kernel name.
func FromPath(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	name := filepath.Base(s)
	if !kernelNameExp.MatchString(name) {
		return ""
	}

	return name
}

// IsNVMe reports whether a kernel name belongs to the NVMe namespace naming
// scheme.
func IsNVMe(name string) bool {
	return strings.Contains(name, "nvme")
}

// IsPartitionOf reports whether entry names a partition of the given parent
// disk, following the kernel convention of appending the partition number
// directly (sda1) or with a "p" separator when the disk name ends in a
// digit (nvme0n1p2, mmcblk0p1).
func IsPartitionOf(entry, disk string) bool {
	if disk == "" || !strings.HasPrefix(entry, disk) || entry == disk {
		return false
	}

	suffix := entry[len(disk):]
	last := disk[len(disk)-1]
	if last >= '0' && last <= '9' {
		return pNumSuffixExp.MatchString(suffix)
	}

	return numSuffixExp.MatchString(suffix)
}
