// Package sysfs reads block device attributes from the kernel's sysfs tree.
//
// All reads go through an FS rooted at a sysfs mount point so tests can
// point it at a fixture tree instead of /sys.
package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultRoot is the standard sysfs mount point.
const DefaultRoot = "/sys"

// FS reads sysfs attribute files under a fixed root.
type FS struct {
	root string
}

// New returns an FS over the standard sysfs mount point.
func New() *FS {
	return NewAt(DefaultRoot)
}

// NewAt returns an FS rooted at the given directory. The directory is
// expected to contain a "block" subdirectory laid out like /sys/block.
func NewAt(root string) *FS {
	return &FS{root: root}
}

// BlockDevices lists the kernel names of all whole block devices. Partition
// sub-entries are not listed in the block directory, so no filtering is
// needed here.
func (fs *FS) BlockDevices() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.root, "block"))
	if err != nil {
		return nil, fmt.Errorf("sysfs: list block devices: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names, nil
}

// Exists reports whether a block device directory is present for the kernel
// name. The name may refer to a partition as "disk/part".
func (fs *FS) Exists(device string) bool {
	_, err := os.Stat(filepath.Join(fs.root, "block", device))
	return err == nil
}

// Attr reads a named attribute file under a device's block directory and
// returns its trimmed content. Absence of the file is a normal state
// reported through ok=false with a nil error; only genuine read failures
// return an error. The attribute name may contain path separators
// (e.g. "queue/rotational") and the device may refer to a partition
// sub-entry as "sda/sda1".
func (fs *FS) Attr(device, name string) (value string, ok bool, err error) {
	raw, err := os.ReadFile(filepath.Join(fs.root, "block", device, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sysfs: read %s of %s: %w", name, device, err)
	}

	return strings.TrimSpace(string(raw)), true, nil
}

// HwmonAttr reads an attribute from the hardware-monitoring sensor directory
// associated with a device. The kernel exposes the sensor either directly
// under the device ("device/hwmon/hwmonN") or one level deeper for NVMe
// controllers ("device/device/hwmon/hwmonN"). A device without a sensor is
// reported through ok=false with a nil error.
func (fs *FS) HwmonAttr(device, name string) (value string, ok bool, err error) {
	dir := fs.hwmonDir(device)
	if dir == "" {
		return "", false, nil
	}

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sysfs: read hwmon %s of %s: %w", name, device, err)
	}

	return strings.TrimSpace(string(raw)), true, nil
}

// hwmonDir locates the first hwmon sensor directory for a device, or ""
// when the device has none.
func (fs *FS) hwmonDir(device string) string {
	patterns := []string{
		filepath.Join(fs.root, "block", device, "device", "hwmon", "hwmon*"),
		filepath.Join(fs.root, "block", device, "device", "device", "hwmon", "hwmon*"),
	}

	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[0]
	}

	return ""
}
