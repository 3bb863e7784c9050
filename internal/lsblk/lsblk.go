// Package lsblk wraps the lsblk utility for partition enumeration.
package lsblk

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hostutils/diskinfo/internal/util"
)

//go:generate mockgen -destination=mocks/mock_lsblk.go -package=mock_lsblk github.com/hostutils/diskinfo/internal/lsblk Client

// DefaultPath is the lsblk binary invoked when no explicit path is
// configured.
const DefaultPath = "lsblk"

// columns is the output column set requested from lsblk. Partition number,
// filesystem version and usage are deliberately not requested here; those
// come from the udev record, which reports them for all table formats.
const columns = "KNAME,PATH,MAJ:MIN,SIZE,TYPE,FSTYPE,LABEL,UUID,PARTUUID,PARTLABEL,FSAVAIL,MOUNTPOINT"

// Partition is one partition record reported by the enumeration tool.
type Partition struct {
	// Name is the partition's kernel name (e.g. "sda1").
	Name string

	// Path is the partition's device node path.
	Path string

	// DevID is the partition's major:minor pair.
	DevID string

	// Size is the partition size in bytes.
	Size int64

	// FSType is the detected filesystem type, empty when unformatted or
	// unrecognized.
	FSType string

	// Label and UUID identify the contained filesystem when present.
	Label string
	UUID  string

	// PartUUID and PartLabel come from the partition table entry.
	PartUUID  string
	PartLabel string

	// FSAvail is the free space in bytes; meaningful only when MountPoint
	// is set.
	FSAvail int64

	// MountPoint is the mount location, empty when not mounted.
	MountPoint string
}

// Client enumerates the kernel's partition records for one whole disk.
type Client interface {
	// Partitions returns the partition records of the disk identified by
	// its device node path. A disk without partitions yields an empty
	// result and no error.
	Partitions(ctx context.Context, devPath string) ([]Partition, error)
}

// CmdClient implements Client by running the lsblk binary.
type CmdClient struct {
	// Path overrides the lsblk binary location when set.
	Path string
}

var _ Client = (*CmdClient)(nil)

// Partitions runs lsblk against the device and decodes its JSON output.
func (c *CmdClient) Partitions(ctx context.Context, devPath string) ([]Partition, error) {
	bin := c.Path
	if bin == "" {
		bin = DefaultPath
	}

	cmd := []string{bin, "--json", "--bytes", "--output", columns, devPath}
	out, err := util.ExecuteCommand(ctx, cmd, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("lsblk: enumerate %s: %w (stderr: %s)", devPath, err, strings.TrimSpace(out.Stderr))
	}

	parts, err := decodeOutput(strings.NewReader(out.Stdout))
	if err != nil {
		return nil, fmt.Errorf("lsblk: enumerate %s: %w", devPath, err)
	}

	return parts, nil
}

// lsblk --json output shape. Only the requested columns are mapped.
type output struct {
	BlockDevices []device `json:"blockdevices"`
}

type device struct {
	KName      string    `json:"kname"`
	Path       string    `json:"path"`
	MajMin     string    `json:"maj:min"`
	Size       byteCount `json:"size"`
	Type       string    `json:"type"`
	FSType     string    `json:"fstype"`
	Label      string    `json:"label"`
	UUID       string    `json:"uuid"`
	PartUUID   string    `json:"partuuid"`
	PartLabel  string    `json:"partlabel"`
	FSAvail    byteCount `json:"fsavail"`
	MountPoint string    `json:"mountpoint"`
	Children   []device  `json:"children"`
}

// byteCount tolerates the two encodings lsblk has used for sizes: plain JSON
// numbers (current) and quoted strings (pre-2.37 --bytes output).
type byteCount int64

func (b *byteCount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*b = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*b = 0
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse byte count %q: %w", s, err)
	}

	*b = byteCount(n)
	return nil
}

// decodeOutput parses lsblk JSON and flattens partition entries. lsblk nests
// partitions under their parent device's "children"; everything that is not
// a partition entry (the whole disk itself, device-mapper children) is
// skipped.
func decodeOutput(r *strings.Reader) ([]Partition, error) {
	var decoded output
	if err := json.NewDecoder(r).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}

	parts := make([]Partition, 0)
	var walk func(devs []device)
	walk = func(devs []device) {
		for i := range devs {
			d := &devs[i]
			if d.Type == "part" {
				parts = append(parts, Partition{
					Name:       d.KName,
					Path:       d.Path,
					DevID:      d.MajMin,
					Size:       int64(d.Size),
					FSType:     d.FSType,
					Label:      d.Label,
					UUID:       d.UUID,
					PartUUID:   d.PartUUID,
					PartLabel:  d.PartLabel,
					FSAvail:    int64(d.FSAvail),
					MountPoint: d.MountPoint,
				})
			}
			walk(d.Children)
		}
	}
	walk(decoded.BlockDevices)

	return parts, nil
}
