package block

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// defaultInclude is the discovery filter applied when no include set is
// given: real storage devices, without loopbacks and unclassifiable entries.
const defaultInclude = HDD | SSD | NVMe

// DiscoverOptions filters and orders a discovery pass.
type DiscoverOptions struct {
	// Include is the set of disk types to keep. Zero means HDD, SSD and
	// NVMe devices.
	Include DiskType

	// Exclude is the set of disk types to drop. A type that is both
	// included and excluded is dropped; exclusion wins.
	Exclude DiskType

	// SortByName orders the result by kernel name instead of enumeration
	// order. Reverse flips whichever order is in effect.
	SortByName bool
	Reverse    bool
}

// Inventory is the result of one discovery pass over the attached devices.
type Inventory struct {
	disks []*Disk
}

// Discover enumerates all attached whole disks, builds the model for each
// and filters by type. A device that fails to build is logged and skipped so
// that one broken entry does not hide the rest of the system.
func (sys *System) Discover(opts DiscoverOptions) (*Inventory, error) {
	names, err := sys.fs.BlockDevices()
	if err != nil {
		return nil, fmt.Errorf("block: discover: %w", err)
	}

	include := opts.Include
	if include == 0 {
		include = defaultInclude
	}

	inv := &Inventory{}
	for _, name := range names {
		id, err := sys.resolveName(name)
		if err != nil {
			logrus.WithField("device", name).WithError(err).Warn("Skipping unresolvable device")
			continue
		}
		d, err := sys.buildDisk(id)
		if err != nil {
			logrus.WithField("device", name).WithError(err).Warn("Skipping unreadable device")
			continue
		}
		if d.typ&opts.Exclude != 0 || d.typ&include == 0 {
			continue
		}
		inv.disks = append(inv.disks, d)
	}

	if opts.SortByName {
		sort.Slice(inv.disks, func(i, j int) bool {
			return inv.disks[i].name < inv.disks[j].name
		})
	}
	if opts.Reverse {
		for i, j := 0, len(inv.disks)-1; i < j; i, j = i+1, j-1 {
			inv.disks[i], inv.disks[j] = inv.disks[j], inv.disks[i]
		}
	}
	return inv, nil
}

// Disks returns the discovered disks in inventory order.
func (inv *Inventory) Disks() []*Disk {
	return append([]*Disk(nil), inv.disks...)
}

// Count returns the number of discovered disks.
func (inv *Inventory) Count() int {
	return len(inv.disks)
}

// CountByType counts the disks matching a type filter, with the same
// semantics as discovery: zero include means HDD, SSD and NVMe, and
// exclusion wins over inclusion.
func (inv *Inventory) CountByType(include, exclude DiskType) int {
	if include == 0 {
		include = defaultInclude
	}
	n := 0
	for _, d := range inv.disks {
		if d.typ&exclude != 0 || d.typ&include == 0 {
			continue
		}
		n++
	}
	return n
}

// Contains reports whether the inventory holds the given disk, matching by
// kernel name or by serial number when both sides carry one.
func (inv *Inventory) Contains(d *Disk) bool {
	if d == nil {
		return false
	}
	serial, hasSerial := d.serial.Get()
	for _, have := range inv.disks {
		if have.name == d.name {
			return true
		}
		if hasSerial {
			if s, ok := have.serial.Get(); ok && s == serial {
				return true
			}
		}
	}
	return false
}

// ContainsName reports whether the inventory holds a disk with the given
// kernel name.
func (inv *Inventory) ContainsName(name string) bool {
	for _, have := range inv.disks {
		if have.name == name {
			return true
		}
	}
	return false
}
