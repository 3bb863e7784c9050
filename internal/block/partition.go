package block

import (
	"context"
	"sort"
	"strconv"

	"github.com/hostutils/diskinfo/internal/attr"
	"github.com/hostutils/diskinfo/internal/devname"
	"github.com/hostutils/diskinfo/internal/lsblk"
	"github.com/hostutils/diskinfo/internal/udevdb"
)

// Partition is the immutable attribute model of one partition. Like Disk it
// is assembled from several sources: the enumeration tool provides the
// member list and filesystem fallbacks, the udev database the partition
// table entry and filesystem identity, sysfs the partition number when udev
// has no record.
//
// Only the identity fields (name, parent disk) are guaranteed. A partition
// without a recognized filesystem keeps all filesystem attributes absent,
// and display text that does not survive decoding turns absent rather than
// failing the build.
type Partition struct {
	name  string
	path  string
	devID string
	disk  string

	number int
	size   uint64

	scheme   attr.Value[string]
	label    attr.Value[string]
	uuid     attr.Value[string]
	typeUUID attr.Value[string]
	offset   attr.Value[uint64]

	fsLabel   attr.Value[string]
	fsUUID    attr.Value[string]
	fsType    attr.Value[string]
	fsVersion attr.Value[string]
	fsUsage   attr.Value[string]

	freeSize   attr.Value[uint64]
	mountPoint attr.Value[string]

	byIDPaths     []string
	byPathPaths   []string
	partUUIDPath  attr.Value[string]
	partLabelPath attr.Value[string]
	uuidPath      attr.Value[string]
	labelPath     attr.Value[string]
}

// Partitions enumerates the disk's partitions in ascending partition-number
// order. A disk without a partition table, or whose device class hides
// partitions from the enumeration tool, yields an empty list and no error;
// only a failure of the tool itself produces an EnumerationError.
func (d *Disk) Partitions(ctx context.Context) ([]*Partition, error) {
	recs, err := d.sys.lsblk.Partitions(ctx, d.path)
	if err != nil {
		return nil, &EnumerationError{Disk: d.name, Err: err}
	}

	parts := make([]*Partition, 0, len(recs))
	for i := range recs {
		// The tool walks the whole holder tree under the disk; partitions
		// of stacked devices (device-mapper, md) are not ours.
		if !devname.IsPartitionOf(recs[i].Name, d.name) {
			continue
		}
		parts = append(parts, d.sys.buildPartition(d, &recs[i]))
	}

	sort.Slice(parts, func(i, j int) bool {
		if parts[i].number != parts[j].number {
			return parts[i].number < parts[j].number
		}
		return parts[i].name < parts[j].name
	})
	return parts, nil
}

// buildPartition merges one enumeration record with the partition's udev
// record. Construction never fails: any attribute beyond the identity simply
// stays absent or failed.
func (sys *System) buildPartition(d *Disk, rec *lsblk.Partition) *Partition {
	p := &Partition{
		name:  rec.Name,
		path:  rec.Path,
		devID: rec.DevID,
		disk:  d.name,
	}
	if p.path == "" {
		p.path = sys.devPath(rec.Name)
	}
	if rec.Size > 0 {
		p.size = uint64(rec.Size) / BlockSize
	}
	if rec.MountPoint != "" {
		p.mountPoint = attr.Of(rec.MountPoint)
		if rec.FSAvail >= 0 {
			p.freeSize = attr.Of(uint64(rec.FSAvail) / BlockSize)
		}
	}

	urec, ok, err := sys.udev.Record(rec.DevID)
	if err != nil {
		fail := attr.Fail[string](err)
		p.scheme, p.label, p.uuid, p.typeUUID = fail, fail, fail, fail
		p.offset = attr.Fail[uint64](err)
	}
	if err != nil || !ok {
		// No udev record: the partition number still comes from sysfs and
		// the filesystem identity from the enumeration record.
		p.number = sys.partitionNumber(d.name, rec.Name)
		sys.fillFSFromRecord(p, rec)
		return p
	}

	p.scheme = propValue(urec, "ID_PART_ENTRY_SCHEME")
	p.label = sys.textValue(urec, "ID_PART_ENTRY_NAME")
	p.uuid = propValue(urec, "ID_PART_ENTRY_UUID")
	p.typeUUID = propValue(urec, "ID_PART_ENTRY_TYPE")
	p.offset = uintProp(urec, "ID_PART_ENTRY_OFFSET")
	if n, ok := urec.Property("ID_PART_ENTRY_NUMBER"); ok {
		p.number, _ = strconv.Atoi(n)
	} else {
		p.number = sys.partitionNumber(d.name, rec.Name)
	}
	if sz, ok := uintProp(urec, "ID_PART_ENTRY_SIZE").Get(); ok {
		p.size = sz
	}

	// Filesystem attributes are meaningful only when the probe recognized
	// contents; an unformatted partition keeps them absent.
	if _, usage := urec.Property("ID_FS_USAGE"); usage {
		p.fsUsage = propValue(urec, "ID_FS_USAGE")
		p.fsLabel = sys.encTextValue(urec, "ID_FS_LABEL")
		p.fsUUID = sys.encTextValue(urec, "ID_FS_UUID")
		p.fsType = propValue(urec, "ID_FS_TYPE")
		p.fsVersion = propValue(urec, "ID_FS_VERSION")
	} else {
		sys.fillFSFromRecord(p, rec)
	}

	p.byIDPaths = sys.decodeLinks(urec.LinksIn("by-id"))
	p.byPathPaths = sys.decodeLinks(urec.LinksIn("by-path"))
	p.partUUIDPath = firstLink(sys, urec, "by-partuuid")
	p.partLabelPath = firstLink(sys, urec, "by-partlabel")
	p.uuidPath = firstLink(sys, urec, "by-uuid")
	p.labelPath = firstLink(sys, urec, "by-label")
	return p
}

// fillFSFromRecord populates the filesystem attributes from the enumeration
// record when the udev database has nothing to say about the partition.
func (sys *System) fillFSFromRecord(p *Partition, rec *lsblk.Partition) {
	if rec.FSType == "" {
		return
	}
	p.fsType = attr.Of(rec.FSType)
	p.fsUsage = attr.Of(usageForType(rec.FSType))
	if rec.Label != "" {
		p.fsLabel = attr.Of(rec.Label)
	}
	if rec.UUID != "" {
		p.fsUUID = attr.Of(rec.UUID)
	}
}

// usageForType mirrors the probe's coarse classification of recognized
// contents that are not mountable filesystems.
func usageForType(fstype string) string {
	switch fstype {
	case "swap", "LVM2_member", "crypto_LUKS", "linux_raid_member":
		return "other"
	}
	return "filesystem"
}

// partitionNumber reads the partition's index from its sysfs sub-entry.
func (sys *System) partitionNumber(disk, part string) int {
	raw, ok, err := sys.fs.Attr(disk+"/"+part, "partition")
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func firstLink(sys *System, rec *udevdb.Record, dir string) attr.Value[string] {
	links := sys.decodeLinks(rec.LinksIn(dir))
	if len(links) == 0 {
		return attr.None[string]()
	}
	return attr.Of(links[0])
}

// Name returns the partition's kernel name, e.g. "sda1".
func (p *Partition) Name() string { return p.name }

// Path returns the partition's device node path.
func (p *Partition) Path() string { return p.path }

// DevID returns the partition's major:minor device number pair.
func (p *Partition) DevID() string { return p.devID }

// Disk returns the kernel name of the parent disk.
func (p *Partition) Disk() string { return p.disk }

// Number returns the partition's index within the table, or 0 when unknown.
func (p *Partition) Number() int { return p.number }

// Size returns the partition size in 512-byte units.
func (p *Partition) Size() uint64 { return p.size }

// SizeBytes returns the partition size in bytes.
func (p *Partition) SizeBytes() uint64 { return p.size * BlockSize }

// Offset returns the partition's start offset in bytes.
func (p *Partition) Offset() attr.Value[uint64] { return p.offset }

// Scheme returns the partition table scheme the entry belongs to.
func (p *Partition) Scheme() attr.Value[string] { return p.scheme }

// PartLabel returns the partition entry name (GPT only).
func (p *Partition) PartLabel() attr.Value[string] { return p.label }

// PartUUID returns the partition entry identifier.
func (p *Partition) PartUUID() attr.Value[string] { return p.uuid }

// TypeUUID returns the partition type identifier or MBR type code.
func (p *Partition) TypeUUID() attr.Value[string] { return p.typeUUID }

// FSLabel returns the contained filesystem's label.
func (p *Partition) FSLabel() attr.Value[string] { return p.fsLabel }

// FSUUID returns the contained filesystem's identifier.
func (p *Partition) FSUUID() attr.Value[string] { return p.fsUUID }

// FSType returns the contained filesystem's type, e.g. "ext4".
func (p *Partition) FSType() attr.Value[string] { return p.fsType }

// FSVersion returns the contained filesystem's version.
func (p *Partition) FSVersion() attr.Value[string] { return p.fsVersion }

// FSUsage classifies the recognized contents: "filesystem" for mountable
// ones, "other" for recognized non-filesystem contents such as swap. Absent
// means the probe found nothing.
func (p *Partition) FSUsage() attr.Value[string] { return p.fsUsage }

// FreeSize returns the free space in 512-byte units; present only while the
// filesystem is mounted.
func (p *Partition) FreeSize() attr.Value[uint64] { return p.freeSize }

// MountPoint returns the mount location; present only while mounted.
func (p *Partition) MountPoint() attr.Value[string] { return p.mountPoint }

// ByIDPaths returns the partition's persistent names under /dev/disk/by-id.
func (p *Partition) ByIDPaths() []string {
	return append([]string(nil), p.byIDPaths...)
}

// ByPathPaths returns the partition's persistent names under
// /dev/disk/by-path.
func (p *Partition) ByPathPaths() []string {
	return append([]string(nil), p.byPathPaths...)
}

// PartUUIDPath returns the persistent name under /dev/disk/by-partuuid.
func (p *Partition) PartUUIDPath() attr.Value[string] { return p.partUUIDPath }

// PartLabelPath returns the persistent name under /dev/disk/by-partlabel.
func (p *Partition) PartLabelPath() attr.Value[string] { return p.partLabelPath }

// UUIDPath returns the persistent name under /dev/disk/by-uuid.
func (p *Partition) UUIDPath() attr.Value[string] { return p.uuidPath }

// LabelPath returns the persistent name under /dev/disk/by-label.
func (p *Partition) LabelPath() attr.Value[string] { return p.labelPath }
