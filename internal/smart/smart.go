// Package smart reads SMART diagnostic data through the smartctl utility.
//
// SMART data is device-class dependent: ATA devices (rotational disks and
// SATA SSDs) report a legacy attribute table, NVMe devices report a fixed
// health log. Rotational devices additionally have a power state; reading
// full SMART data from a drive in standby would spin it up, so reads can be
// performed in a standby-preserving mode that short-circuits when the drive
// is asleep.
package smart

import (
	"context"
	"strings"

	"github.com/hostutils/diskinfo/internal/attr"
)

//go:generate mockgen -destination=mocks/mock_smart.go -package=mock_smart github.com/hostutils/diskinfo/internal/smart Backend

// ReadOptions controls how a SMART read is performed.
type ReadOptions struct {
	// CheckStandby makes the read power-state aware: if the device reports
	// it is in standby, the read returns a standby snapshot without waking
	// the drive. Without it the read proceeds regardless of power state,
	// spinning up a sleeping rotational drive.
	CheckStandby bool
}

// Backend performs one SMART read against a device node.
type Backend interface {
	// Read returns the device's SMART snapshot. Failures are reported as
	// *UnavailableError when the backend cannot be run against the device
	// and *ParseError when the backend ran but produced output that could
	// not be understood.
	Read(ctx context.Context, devPath string, opts ReadOptions) (*Snapshot, error)
}

// Snapshot is the immutable result of one SMART read.
//
// When StandbyMode is true the read was short-circuited to avoid waking the
// drive and no other field is populated. Otherwise exactly one of Ata or
// NVMe carries the device's attributes, matching its class.
type Snapshot struct {
	// Healthy is the device's overall self-assessment.
	Healthy bool

	// StandbyMode reports that the device was asleep and the read stopped
	// before touching it. Always false for NVMe devices.
	StandbyMode bool

	// SmartCapable and SmartEnabled mirror the device's SMART support
	// flags. NVMe devices always report both true.
	SmartCapable bool
	SmartEnabled bool

	// Temperature is the device temperature in degrees Celsius as reported
	// by the SMART read, when the device reports one.
	Temperature attr.Value[float64]

	// Ata holds the legacy attribute table for ATA devices.
	Ata []AtaAttribute

	// NVMe holds the health log for NVMe devices.
	NVMe *NVMeLog
}

// AtaAttribute is one row of the legacy ATA SMART attribute table.
type AtaAttribute struct {
	ID         int
	Name       string
	Flags      int
	Value      int
	Worst      int
	Thresh     int
	Type       string // "Pre-fail" or "Old_age"
	Updated    string // "Always" or "Offline"
	WhenFailed string
	RawValue   int64
	RawString  string
}

// NVMeLog is the NVMe SMART / health information log.
type NVMeLog struct {
	CriticalWarning         int
	Temperature             int
	AvailableSpare          int
	AvailableSpareThreshold int
	PercentageUsed          int
	DataUnitsRead           uint64
	DataUnitsWritten        uint64
	HostReads               uint64
	HostWrites              uint64
	ControllerBusyTime      uint64
	PowerCycles             uint64
	PowerOnHours            uint64
	UnsafeShutdowns         uint64
	MediaErrors             uint64
	ErrorLogEntries         uint64
	WarningTempTime         uint64
	CriticalCompTime        uint64
}

// AtaAttributeByID returns the attribute with the given id, or nil when the
// snapshot has no such attribute.
func (s *Snapshot) AtaAttributeByID(id int) *AtaAttribute {
	for i := range s.Ata {
		if s.Ata[i].ID == id {
			return &s.Ata[i]
		}
	}
	return nil
}

// AtaAttributeByName returns the attribute with the given name, or nil when
// the snapshot has no such attribute. Matching ignores case.
func (s *Snapshot) AtaAttributeByName(name string) *AtaAttribute {
	for i := range s.Ata {
		if strings.EqualFold(s.Ata[i].Name, name) {
			return &s.Ata[i]
		}
	}
	return nil
}
