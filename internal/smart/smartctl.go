package smart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/sirupsen/logrus"

	"github.com/hostutils/diskinfo/internal/attr"
	"github.com/hostutils/diskinfo/internal/util"
)

// DefaultPath is the smartctl binary invoked when no explicit path is
// configured.
const DefaultPath = "smartctl"

// minVersion is the oldest smartctl able to emit JSON output.
var minVersion = semver.MustParse("7.0.0")

// standbyMessage is the text smartctl reports when a standby-preserving
// read found the device asleep.
const standbyMessage = "Device is in STANDBY mode"

// smartctl exit status bits, from smartctl(8).
const (
	exitBitCmdParse   = 1 << 0 // command line did not parse
	exitBitOpenFailed = 1 << 1 // device open failed, or device reported standby
)

// SmartctlBackend implements Backend by running the smartctl binary.
type SmartctlBackend struct {
	// Path overrides the smartctl binary location when set.
	Path string

	// Sudo prepends sudo to the invocation. Reading SMART data requires
	// raw device access that unprivileged processes normally lack.
	Sudo bool
}

var _ Backend = (*SmartctlBackend)(nil)

// Read runs smartctl against the device and maps its JSON document to a
// Snapshot.
func (b *SmartctlBackend) Read(ctx context.Context, devPath string, opts ReadOptions) (*Snapshot, error) {
	out, err := util.ExecuteCommand(ctx, b.command(devPath, opts), nil, nil)
	if err != nil && util.IsNotInstalled(err) {
		return nil, &UnavailableError{Device: devPath, Err: err}
	}
	if strings.TrimSpace(out.Stdout) == "" {
		// The tool emits its JSON document even for most failures; nothing
		// on stdout means it could not run at all.
		cause := err
		if cause == nil {
			cause = errors.New("empty output")
		}
		return nil, &UnavailableError{Device: devPath, Err: fmt.Errorf("no output (stderr: %s): %w", strings.TrimSpace(out.Stderr), cause)}
	}

	var doc smartctlDoc
	if derr := json.Unmarshal([]byte(out.Stdout), &doc); derr != nil {
		return nil, &ParseError{Device: devPath, Err: derr}
	}

	if verr := checkVersion(doc.Smartctl.Version); verr != nil {
		return nil, &UnavailableError{Device: devPath, Err: verr}
	}

	// A standby-preserving read that found the drive asleep shares an exit
	// status with device-open failures, so the message text is checked
	// before the exit bits.
	if opts.CheckStandby && doc.hasMessage(standbyMessage) {
		logrus.WithField("device", devPath).Debug("Device in standby, skipping SMART read")
		return &Snapshot{StandbyMode: true}, nil
	}

	status := doc.Smartctl.ExitStatus
	if status == 0 {
		status = out.ExitCode
	}
	if status&exitBitCmdParse != 0 {
		return nil, &ParseError{Device: devPath, Err: fmt.Errorf("smartctl rejected its command line: %s", doc.errorMessages())}
	}
	if status&exitBitOpenFailed != 0 {
		return nil, &UnavailableError{Device: devPath, Err: errors.New(doc.errorMessages())}
	}

	return doc.snapshot(), nil
}

// command assembles the smartctl argument vector for one read.
func (b *SmartctlBackend) command(devPath string, opts ReadOptions) []string {
	bin := b.Path
	if bin == "" {
		bin = DefaultPath
	}

	var cmd []string
	if b.Sudo {
		cmd = append(cmd, "sudo")
	}
	cmd = append(cmd, bin, "--json", "-a")
	if opts.CheckStandby {
		cmd = append(cmd, "-n", "standby")
	}

	return append(cmd, devPath)
}

// checkVersion gates on the smartctl version reported inside the document.
func checkVersion(pair []int) error {
	if len(pair) < 2 {
		return nil
	}

	v, err := semver.NewVersion(fmt.Sprintf("%d.%d.0", pair[0], pair[1]))
	if err != nil {
		return nil
	}
	if v.LessThan(minVersion) {
		return fmt.Errorf("%w: reported %d.%d", ErrVersionTooOld, pair[0], pair[1])
	}

	return nil
}

// smartctlDoc is the subset of smartctl's JSON document this backend maps.
type smartctlDoc struct {
	Smartctl struct {
		Version    []int `json:"version"`
		ExitStatus int   `json:"exit_status"`
		Messages   []struct {
			String   string `json:"string"`
			Severity string `json:"severity"`
		} `json:"messages"`
	} `json:"smartctl"`

	SmartSupport *struct {
		Available bool `json:"available"`
		Enabled   bool `json:"enabled"`
	} `json:"smart_support"`

	SmartStatus *struct {
		Passed bool `json:"passed"`
	} `json:"smart_status"`

	Temperature *struct {
		Current int `json:"current"`
	} `json:"temperature"`

	AtaSmartAttributes *struct {
		Table []ataTableEntry `json:"table"`
	} `json:"ata_smart_attributes"`

	NVMeLog *nvmeLogDoc `json:"nvme_smart_health_information_log"`
}

type ataTableEntry struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Value  int    `json:"value"`
	Worst  int    `json:"worst"`
	Thresh int    `json:"thresh"`
	Flags  struct {
		Value         int  `json:"value"`
		Prefailure    bool `json:"prefailure"`
		UpdatedOnline bool `json:"updated_online"`
	} `json:"flags"`
	WhenFailed string `json:"when_failed"`
	Raw        struct {
		Value  int64  `json:"value"`
		String string `json:"string"`
	} `json:"raw"`
}

type nvmeLogDoc struct {
	CriticalWarning         int    `json:"critical_warning"`
	Temperature             int    `json:"temperature"`
	AvailableSpare          int    `json:"available_spare"`
	AvailableSpareThreshold int    `json:"available_spare_threshold"`
	PercentageUsed          int    `json:"percentage_used"`
	DataUnitsRead           uint64 `json:"data_units_read"`
	DataUnitsWritten        uint64 `json:"data_units_written"`
	HostReads               uint64 `json:"host_reads"`
	HostWrites              uint64 `json:"host_writes"`
	ControllerBusyTime      uint64 `json:"controller_busy_time"`
	PowerCycles             uint64 `json:"power_cycles"`
	PowerOnHours            uint64 `json:"power_on_hours"`
	UnsafeShutdowns         uint64 `json:"unsafe_shutdowns"`
	MediaErrors             uint64 `json:"media_errors"`
	ErrorLogEntries         uint64 `json:"num_err_log_entries"`
	WarningTempTime         uint64 `json:"warning_temp_time"`
	CriticalCompTime        uint64 `json:"critical_comp_time"`
}

// hasMessage reports whether any tool message contains the given text.
func (d *smartctlDoc) hasMessage(text string) bool {
	for _, m := range d.Smartctl.Messages {
		if strings.Contains(m.String, text) {
			return true
		}
	}
	return false
}

// errorMessages joins the tool's error-severity messages for error wrapping.
func (d *smartctlDoc) errorMessages() string {
	var msgs []string
	for _, m := range d.Smartctl.Messages {
		if m.Severity == "error" {
			msgs = append(msgs, m.String)
		}
	}
	if len(msgs) == 0 {
		return "smartctl reported failure without a message"
	}
	return strings.Join(msgs, "; ")
}

// snapshot maps the parsed document to the exported Snapshot shape.
func (d *smartctlDoc) snapshot() *Snapshot {
	s := &Snapshot{}

	if d.SmartSupport != nil {
		s.SmartCapable = d.SmartSupport.Available
		s.SmartEnabled = d.SmartSupport.Enabled
	}
	if d.SmartStatus != nil {
		s.Healthy = d.SmartStatus.Passed
	}
	if d.Temperature != nil {
		s.Temperature = attr.Of(float64(d.Temperature.Current))
	}

	switch {
	case d.NVMeLog != nil:
		// NVMe devices carry SMART support implicitly.
		s.SmartCapable = true
		s.SmartEnabled = true
		s.NVMe = &NVMeLog{
			CriticalWarning:         d.NVMeLog.CriticalWarning,
			Temperature:             d.NVMeLog.Temperature,
			AvailableSpare:          d.NVMeLog.AvailableSpare,
			AvailableSpareThreshold: d.NVMeLog.AvailableSpareThreshold,
			PercentageUsed:          d.NVMeLog.PercentageUsed,
			DataUnitsRead:           d.NVMeLog.DataUnitsRead,
			DataUnitsWritten:        d.NVMeLog.DataUnitsWritten,
			HostReads:               d.NVMeLog.HostReads,
			HostWrites:              d.NVMeLog.HostWrites,
			ControllerBusyTime:      d.NVMeLog.ControllerBusyTime,
			PowerCycles:             d.NVMeLog.PowerCycles,
			PowerOnHours:            d.NVMeLog.PowerOnHours,
			UnsafeShutdowns:         d.NVMeLog.UnsafeShutdowns,
			MediaErrors:             d.NVMeLog.MediaErrors,
			ErrorLogEntries:         d.NVMeLog.ErrorLogEntries,
			WarningTempTime:         d.NVMeLog.WarningTempTime,
			CriticalCompTime:        d.NVMeLog.CriticalCompTime,
		}
		if s.NVMe.Temperature != 0 && !s.Temperature.Ok() {
			s.Temperature = attr.Of(float64(s.NVMe.Temperature))
		}
	case d.AtaSmartAttributes != nil:
		s.Ata = make([]AtaAttribute, 0, len(d.AtaSmartAttributes.Table))
		for _, row := range d.AtaSmartAttributes.Table {
			typ := "Old_age"
			if row.Flags.Prefailure {
				typ = "Pre-fail"
			}
			updated := "Offline"
			if row.Flags.UpdatedOnline {
				updated = "Always"
			}
			s.Ata = append(s.Ata, AtaAttribute{
				ID:         row.ID,
				Name:       row.Name,
				Flags:      row.Flags.Value,
				Value:      row.Value,
				Worst:      row.Worst,
				Thresh:     row.Thresh,
				Type:       typ,
				Updated:    updated,
				WhenFailed: row.WhenFailed,
				RawValue:   row.Raw.Value,
				RawString:  row.Raw.String,
			})
		}
	}

	return s
}
