package block

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/hostutils/diskinfo/internal/devname"
)

// Selector identifies one block device. Exactly one field must be set; zero
// or several set fields make the selector ambiguous and resolution fails
// with a ConfigError.
type Selector struct {
	// Name is the kernel device name, e.g. "sda" or "nvme0n1".
	Name string

	// Path is the device node path, e.g. "/dev/sda".
	Path string

	// ByID is an entry name under /dev/disk/by-id.
	ByID string

	// ByPath is an entry name under /dev/disk/by-path.
	ByPath string

	// Serial is the device serial number as udev reports it.
	Serial string

	// WWN is the World Wide Name identifier, including the 0x prefix.
	WWN string
}

// Identity is the canonical handle a selector resolves to. Every attribute
// source is keyed by one of its two fields: sysfs by the kernel name, the
// udev database by the device ID.
type Identity struct {
	// Name is the kernel device name.
	Name string

	// DevID is the major:minor device number pair, e.g. "8:0".
	DevID string
}

// Resolve maps a selector to the canonical identity of the device it names.
// It returns a NotFoundError when no attached device matches and a
// ConfigError when the selector does not carry exactly one identifier.
func (sys *System) Resolve(sel Selector) (Identity, error) {
	set := 0
	for _, v := range []string{sel.Name, sel.Path, sel.ByID, sel.ByPath, sel.Serial, sel.WWN} {
		if v != "" {
			set++
		}
	}
	if set == 0 {
		return Identity{}, &ConfigError{Reason: "no device identifier given"}
	}
	if set > 1 {
		return Identity{}, &ConfigError{Reason: "more than one device identifier given"}
	}

	switch {
	case sel.Name != "":
		return sys.resolveName(sel.Name)
	case sel.Path != "":
		return sys.resolvePath(sel.Path)
	case sel.ByID != "":
		return sys.resolveLink("by-id", sel.ByID)
	case sel.ByPath != "":
		return sys.resolveLink("by-path", sel.ByPath)
	case sel.Serial != "":
		return sys.resolveProperty("serial", "ID_SERIAL_SHORT", sel.Serial)
	default:
		return sys.resolveProperty("wwn", "ID_WWN", sel.WWN)
	}
}

func (sys *System) resolveName(name string) (Identity, error) {
	if !sys.fs.Exists(name) {
		return Identity{}, &NotFoundError{Key: "name", Value: name}
	}
	devID, ok, err := sys.fs.Attr(name, "dev")
	if err != nil {
		return Identity{}, &AttributeError{Device: name, Attr: "dev", Err: err}
	}
	if !ok {
		return Identity{}, &AttributeError{Device: name, Attr: "dev", Err: errAttrMissing}
	}
	return Identity{Name: name, DevID: devID}, nil
}

// resolvePath resolves a device node path. When the path names a real block
// special file its device number is authoritative; otherwise the basename is
// tried as a kernel name, which keeps fixture trees without device nodes
// usable.
func (sys *System) resolvePath(path string) (Identity, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err == nil && st.Mode&unix.S_IFMT == unix.S_IFBLK {
		rdev := uint64(st.Rdev)
		devID := fmt.Sprintf("%d:%d", unix.Major(rdev), unix.Minor(rdev))
		if id, err := sys.identityFromDevID(devID); err == nil {
			return id, nil
		}
	}

	name := devname.FromPath(path)
	if name == "" {
		return Identity{}, &NotFoundError{Key: "path", Value: path}
	}
	if id, err := sys.resolveName(name); err == nil {
		return id, nil
	}
	return Identity{}, &NotFoundError{Key: "path", Value: path}
}

func (sys *System) resolveLink(dir, name string) (Identity, error) {
	target, ok, err := sys.udev.ResolveLink(dir, name)
	if err != nil {
		return Identity{}, fmt.Errorf("block: resolve %s/%s: %w", dir, name, err)
	}
	if !ok {
		return Identity{}, &NotFoundError{Key: dir, Value: name}
	}
	kname := devname.FromPath(target)
	if kname == "" {
		return Identity{}, &NotFoundError{Key: dir, Value: name}
	}
	return sys.resolveName(kname)
}

// resolveProperty scans the attached devices for one whose udev record
// carries the wanted property value. The device population is small, so a
// linear scan per lookup is fine.
func (sys *System) resolveProperty(key, prop, want string) (Identity, error) {
	names, err := sys.fs.BlockDevices()
	if err != nil {
		return Identity{}, fmt.Errorf("block: resolve %s: %w", key, err)
	}
	for _, name := range names {
		devID, ok, err := sys.fs.Attr(name, "dev")
		if err != nil || !ok {
			continue
		}
		rec, ok, err := sys.udev.Record(devID)
		if err != nil || !ok {
			continue
		}
		if v, _ := rec.Property(prop); v == want {
			return Identity{Name: name, DevID: devID}, nil
		}
	}
	return Identity{}, &NotFoundError{Key: key, Value: want}
}

// identityFromDevID finds the kernel name owning a device number.
func (sys *System) identityFromDevID(devID string) (Identity, error) {
	names, err := sys.fs.BlockDevices()
	if err != nil {
		return Identity{}, fmt.Errorf("block: list devices: %w", err)
	}
	for _, name := range names {
		id, ok, err := sys.fs.Attr(name, "dev")
		if err == nil && ok && id == devID {
			return Identity{Name: name, DevID: devID}, nil
		}
	}
	return Identity{}, &NotFoundError{Key: "device-id", Value: devID}
}
