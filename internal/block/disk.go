package block

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hostutils/diskinfo/internal/attr"
	"github.com/hostutils/diskinfo/internal/smart"
	"github.com/hostutils/diskinfo/internal/udevdb"
)

// BlockSize is the unit the kernel counts device sizes in. sysfs reports
// sizes in 512-byte sectors regardless of the device's logical block size.
const BlockSize = 512

// Disk is the immutable attribute model of one whole block device. All
// attributes are captured at build time from sysfs and the udev database;
// SMART data, temperature and the partition list are read on demand because
// they are expensive or touch the device.
//
// Identity attributes (name, device ID, size) are always populated; a device
// they cannot be read for does not build. Everything else is optional and
// carries its own absent/present/failed state.
type Disk struct {
	sys *System

	name  string
	path  string
	devID string
	size  uint64
	typ   DiskType

	physBlockSize attr.Value[int]
	logBlockSize  attr.Value[int]

	model    attr.Value[string]
	firmware attr.Value[string]
	serial   attr.Value[string]
	wwn      attr.Value[string]

	partTableType attr.Value[string]
	partTableUUID attr.Value[string]

	byIDPaths   []string
	byPathPaths []string
}

// Disk resolves a selector and builds the attribute model for the device it
// names.
func (sys *System) Disk(sel Selector) (*Disk, error) {
	id, err := sys.Resolve(sel)
	if err != nil {
		return nil, err
	}
	return sys.buildDisk(id)
}

func (sys *System) buildDisk(id Identity) (*Disk, error) {
	d := &Disk{
		sys:   sys,
		name:  id.Name,
		path:  sys.devPath(id.Name),
		devID: id.DevID,
		typ:   sys.classify(id.Name, id.DevID),
	}

	raw, ok, err := sys.fs.Attr(id.Name, "size")
	if err != nil {
		return nil, &AttributeError{Device: id.Name, Attr: "size", Err: err}
	}
	if !ok {
		return nil, &AttributeError{Device: id.Name, Attr: "size", Err: errAttrMissing}
	}
	d.size, err = strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &AttributeError{Device: id.Name, Attr: "size", Err: err}
	}

	d.physBlockSize = sys.intAttr(id.Name, "queue/physical_block_size")
	d.logBlockSize = sys.intAttr(id.Name, "queue/logical_block_size")

	rec, ok, err := sys.udev.Record(id.DevID)
	switch {
	case err != nil:
		// The database is unreadable: every udev-sourced attribute is a
		// failed read, not an absent one.
		d.model = attr.Fail[string](err)
		d.firmware = attr.Fail[string](err)
		d.serial = attr.Fail[string](err)
		d.wwn = attr.Fail[string](err)
		d.partTableType = attr.Fail[string](err)
		d.partTableUUID = attr.Fail[string](err)
	case ok:
		d.model = sys.modelValue(rec)
		d.firmware = propValue(rec, "ID_REVISION")
		d.serial = propValue(rec, "ID_SERIAL_SHORT")
		d.wwn = propValue(rec, "ID_WWN")
		d.partTableType = propValue(rec, "ID_PART_TABLE_TYPE")
		d.partTableUUID = propValue(rec, "ID_PART_TABLE_UUID")
		d.byIDPaths = sys.decodeLinks(rec.LinksIn("by-id"))
		d.byPathPaths = sys.decodeLinks(rec.LinksIn("by-path"))
	}

	return d, nil
}

// modelValue picks the device model name out of a udev record. The escaped
// ID_MODEL_ENC variant preserves the original bytes; the plain ID_MODEL
// fallback has spaces mangled to underscores, which is reversed here.
func (sys *System) modelValue(rec *udevdb.Record) attr.Value[string] {
	if v, ok := rec.Property("ID_MODEL_ENC"); ok {
		if s, err := sys.decodeText(udevdb.Unescape(v)); err == nil {
			return attr.Of(s)
		}
	}
	if v, ok := rec.Property("ID_MODEL"); ok {
		return attr.Of(strings.ReplaceAll(v, "_", " "))
	}
	return attr.None[string]()
}

// Name returns the kernel device name, e.g. "sda".
func (d *Disk) Name() string { return d.name }

// Path returns the device node path, e.g. "/dev/sda".
func (d *Disk) Path() string { return d.path }

// DevID returns the major:minor device number pair, e.g. "8:0".
func (d *Disk) DevID() string { return d.devID }

// Size returns the device capacity in 512-byte units.
func (d *Disk) Size() uint64 { return d.size }

// SizeBytes returns the device capacity in bytes.
func (d *Disk) SizeBytes() uint64 { return d.size * BlockSize }

// Type returns the device class.
func (d *Disk) Type() DiskType { return d.typ }

// IsHDD reports whether the device is a rotational hard disk.
func (d *Disk) IsHDD() bool { return d.typ == HDD }

// IsSSD reports whether the device is a non-NVMe solid state drive.
func (d *Disk) IsSSD() bool { return d.typ == SSD }

// IsNVMe reports whether the device is attached through NVMe.
func (d *Disk) IsNVMe() bool { return d.typ == NVMe }

// IsLoop reports whether the device is a loopback device.
func (d *Disk) IsLoop() bool { return d.typ == Loop }

// PhysicalBlockSize returns the physical sector size in bytes.
func (d *Disk) PhysicalBlockSize() attr.Value[int] { return d.physBlockSize }

// LogicalBlockSize returns the logical sector size in bytes.
func (d *Disk) LogicalBlockSize() attr.Value[int] { return d.logBlockSize }

// Model returns the device model name.
func (d *Disk) Model() attr.Value[string] { return d.model }

// Firmware returns the firmware revision.
func (d *Disk) Firmware() attr.Value[string] { return d.firmware }

// Serial returns the device serial number.
func (d *Disk) Serial() attr.Value[string] { return d.serial }

// WWN returns the World Wide Name identifier.
func (d *Disk) WWN() attr.Value[string] { return d.wwn }

// PartTableType returns the partition table scheme, e.g. "gpt".
func (d *Disk) PartTableType() attr.Value[string] { return d.partTableType }

// PartTableUUID returns the partition table identifier.
func (d *Disk) PartTableUUID() attr.Value[string] { return d.partTableUUID }

// ByIDPaths returns the device's persistent names under /dev/disk/by-id in
// the order the udev database lists them. Several entries may alias the same
// device; all are retained.
func (d *Disk) ByIDPaths() []string {
	return append([]string(nil), d.byIDPaths...)
}

// ByPathPaths returns the device's persistent names under /dev/disk/by-path.
func (d *Disk) ByPathPaths() []string {
	return append([]string(nil), d.byPathPaths...)
}

// Temperature reads the device temperature in degrees Celsius. Rotational
// and SATA devices expose it through the kernel's hardware-monitoring tree;
// NVMe devices report it in their SMART health log, so the read goes through
// the SMART backend there. A device without a sensor yields an error
// matching smart.ErrNoSensor.
func (d *Disk) Temperature(ctx context.Context) (float64, error) {
	if d.typ == NVMe {
		snap, err := d.sys.smart.Read(ctx, d.path, smart.ReadOptions{})
		if err != nil {
			return 0, err
		}
		if t, ok := snap.Temperature.Get(); ok {
			return t, nil
		}
		return 0, fmt.Errorf("block: disk %s: %w", d.name, smart.ErrNoSensor)
	}

	raw, ok, err := d.sys.fs.HwmonAttr(d.name, "temp1_input")
	if err != nil {
		return 0, fmt.Errorf("block: disk %s: read temperature: %w", d.name, err)
	}
	if !ok {
		return 0, fmt.Errorf("block: disk %s: %w", d.name, smart.ErrNoSensor)
	}
	milli, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("block: disk %s: parse temperature %q: %w", d.name, raw, err)
	}
	return milli / 1000.0, nil
}

// Smart performs one SMART read against the device.
//
// By default the read first checks whether a rotational device is spun down
// and, if so, returns a snapshot with StandbyMode set instead of attribute
// data, so that observing a disk does not wake it. skipStandbyCheck disables
// the check and always reads full data. NVMe devices have no spindle and are
// always read in full.
func (d *Disk) Smart(ctx context.Context, skipStandbyCheck bool) (*smart.Snapshot, error) {
	if d.typ == Loop {
		return nil, &smart.UnavailableError{Device: d.path, Err: errors.New("loop devices carry no SMART data")}
	}

	opts := smart.ReadOptions{CheckStandby: !skipStandbyCheck}
	if d.typ == NVMe {
		opts.CheckStandby = false
	}
	return d.sys.smart.Read(ctx, d.path, opts)
}
