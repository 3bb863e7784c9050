// Package block resolves Linux block devices from any supported identifier
// and assembles queryable attribute models for disks and their partitions.
//
// Device data is scattered across several kernel and userspace sources: the
// sysfs attribute tree, the udev device database with its persistent-name
// symlinks, the SMART diagnostics backend and the partition enumeration
// tool. A System bundles read-only adapters over these sources and
// reconciles them into Disk and Partition values, keeping "attribute is
// absent for this device class" distinct from "reading the attribute
// failed".
package block

import (
	"fmt"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/hostutils/diskinfo/internal/attr"
	"github.com/hostutils/diskinfo/internal/lsblk"
	"github.com/hostutils/diskinfo/internal/smart"
	"github.com/hostutils/diskinfo/internal/sysfs"
	"github.com/hostutils/diskinfo/internal/udevdb"
)

// Options configures the data sources a System reads from. The zero value
// selects the standard system locations and tool-backed adapters.
type Options struct {
	// SysfsRoot, RunDir and DevDir override the standard /sys, /run and
	// /dev locations. Tests point them at fixture trees.
	SysfsRoot string
	RunDir    string
	DevDir    string

	// Lsblk enumerates partitions. Defaults to running the lsblk binary.
	Lsblk lsblk.Client

	// Smart reads SMART data. Defaults to running the smartctl binary.
	Smart smart.Backend

	// Encoding is the IANA name of the character set used to decode label
	// and model text coming out of the udev database. Empty means UTF-8.
	Encoding string
}

// System resolves block devices and builds their attribute models. Every
// lookup performs fresh reads of the underlying sources; a System holds no
// device state of its own.
type System struct {
	fs     *sysfs.FS
	udev   *udevdb.DB
	lsblk  lsblk.Client
	smart  smart.Backend
	devDir string
	enc    encoding.Encoding
}

// New returns a System reading from the locations and backends in opts.
func New(opts Options) (*System, error) {
	sysRoot := opts.SysfsRoot
	if sysRoot == "" {
		sysRoot = sysfs.DefaultRoot
	}
	runDir := opts.RunDir
	if runDir == "" {
		runDir = udevdb.DefaultRunDir
	}
	devDir := opts.DevDir
	if devDir == "" {
		devDir = udevdb.DefaultDevDir
	}

	sys := &System{
		fs:     sysfs.NewAt(sysRoot),
		udev:   udevdb.NewAt(runDir, devDir),
		lsblk:  opts.Lsblk,
		smart:  opts.Smart,
		devDir: devDir,
	}
	if sys.lsblk == nil {
		sys.lsblk = &lsblk.CmdClient{}
	}
	if sys.smart == nil {
		sys.smart = &smart.SmartctlBackend{}
	}

	if opts.Encoding != "" {
		enc, err := ianaindex.IANA.Encoding(opts.Encoding)
		if err != nil || enc == nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("unknown text encoding %q", opts.Encoding)}
		}
		sys.enc = enc
	}

	return sys, nil
}

// devPath returns the device node path for a kernel name.
func (sys *System) devPath(name string) string {
	return filepath.Join(sys.devDir, name)
}

// decodeText converts raw label bytes, already unescaped from udev's \xNN
// form, into a string using the configured encoding.
func (sys *System) decodeText(raw []byte) (string, error) {
	if sys.enc == nil {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid UTF-8 text %q", raw)
		}
		return string(raw), nil
	}

	out, err := sys.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeLinks unescapes and decodes persistent-name link paths. A link that
// does not survive decoding is dropped rather than reported broken; the
// remaining links are still meaningful on their own.
func (sys *System) decodeLinks(links []string) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		s, err := sys.decodeText(udevdb.Unescape(l))
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// intAttr reads an optional numeric sysfs attribute.
func (sys *System) intAttr(device, name string) attr.Value[int] {
	raw, ok, err := sys.fs.Attr(device, name)
	if err != nil {
		return attr.Fail[int](err)
	}
	if !ok {
		return attr.None[int]()
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return attr.Fail[int](fmt.Errorf("parse %s of %s: %w", name, device, err))
	}
	return attr.Of(n)
}

// propValue reads a plain udev property whose value carries no escaping.
func propValue(rec *udevdb.Record, key string) attr.Value[string] {
	if v, ok := rec.Property(key); ok {
		return attr.Of(v)
	}
	return attr.None[string]()
}

// uintProp reads a udev property holding an unsigned decimal number.
func uintProp(rec *udevdb.Record, key string) attr.Value[uint64] {
	v, ok := rec.Property(key)
	if !ok {
		return attr.None[uint64]()
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return attr.Fail[uint64](fmt.Errorf("parse %s %q: %w", key, v, err))
	}
	return attr.Of(n)
}

// textValue reads a udev property whose value may embed \xNN byte escapes
// (partition entry names). A value that cannot be decoded in the configured
// encoding is reported absent; an encoding mismatch on display text must
// not fail the read.
func (sys *System) textValue(rec *udevdb.Record, key string) attr.Value[string] {
	v, ok := rec.Property(key)
	if !ok {
		return attr.None[string]()
	}
	s, err := sys.decodeText(udevdb.Unescape(v))
	if err != nil {
		return attr.None[string]()
	}
	return attr.Of(s)
}

// encTextValue reads a text property that udev duplicates as an escaped
// KEY_ENC variant next to a mangled plain KEY. The escaped variant keeps
// the original bytes and is preferred; the plain one is the fallback when
// no escaped variant exists.
func (sys *System) encTextValue(rec *udevdb.Record, key string) attr.Value[string] {
	if v, ok := rec.Property(key + "_ENC"); ok {
		s, err := sys.decodeText(udevdb.Unescape(v))
		if err != nil {
			return attr.None[string]()
		}
		return attr.Of(s)
	}
	return propValue(rec, key)
}
