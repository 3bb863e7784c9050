package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hostutils/diskinfo/internal/attr"
	"github.com/hostutils/diskinfo/internal/block"
	"github.com/hostutils/diskinfo/internal/smart"
)

// sizeString formats a size counted in 512-byte blocks as a human readable
// byte quantity, in SI units by default or IEC units on request.
func sizeString(blocks uint64, iec bool) string {
	bytes := blocks * block.BlockSize
	if iec {
		return humanize.IBytes(bytes)
	}

	return humanize.Bytes(bytes)
}

// attrString renders an optional attribute: its value when present, a dash
// when the device does not have it, and a marker when reading it failed.
func attrString[T any](v attr.Value[T]) string {
	if v.Ok() {
		return fmt.Sprint(v.Value())
	}
	if v.Err() != nil {
		return critStyle.Render("read failed")
	}

	return "-"
}

// renderDiskList prints a summary line followed by one row per disk.
//
// Cells are padded before styling: lipgloss escape codes would otherwise
// count against fmt's column widths.
func renderDiskList(w io.Writer, inv *block.Inventory, iec bool) {
	fmt.Fprintln(w, summaryLine(inv))
	if inv.Count() == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-10s %-8s %-28s %-22s %10s  %s",
		"NAME", "TYPE", "MODEL", "SERIAL", "SIZE", "PATH")))
	for _, d := range inv.Disks() {
		typeCell := typeStyle(d.Type()).Render(fmt.Sprintf("%-8s", d.Type()))
		fmt.Fprintf(w, "%-10s %s %-28s %-22s %10s  %s\n",
			d.Name(), typeCell, attrString(d.Model()), attrString(d.Serial()),
			sizeString(d.Size(), iec), d.Path())
	}
}

// summaryLine describes the inventory in one line, e.g.
// "4 disks (1 HDD, 2 SSD, 1 NVMe)".
func summaryLine(inv *block.Inventory) string {
	label := "disks"
	if inv.Count() == 1 {
		label = "disk"
	}

	parts := make([]string, 0, 5)
	for _, t := range []block.DiskType{block.HDD, block.SSD, block.NVMe, block.Loop, block.Unknown} {
		if n := inv.CountByType(t, 0); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, t))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d %s", inv.Count(), label)
	}

	return fmt.Sprintf("%d %s (%s)", inv.Count(), label, strings.Join(parts, ", "))
}

// renderDisk prints one disk's attributes as labeled rows.
func renderDisk(w io.Writer, d *block.Disk, iec bool) {
	fmt.Fprintln(w, headerStyle.Render(d.Name()))

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-22s", label)), value)
	}

	row("path", d.Path())
	row("device id", d.DevID())
	row("type", typeStyle(d.Type()).Render(d.Type().String()))
	row("size", fmt.Sprintf("%s (%d blocks)", sizeString(d.Size(), iec), d.Size()))
	row("model", attrString(d.Model()))
	row("serial", attrString(d.Serial()))
	row("firmware", attrString(d.Firmware()))
	row("wwn", attrString(d.WWN()))
	row("physical block size", attrString(d.PhysicalBlockSize()))
	row("logical block size", attrString(d.LogicalBlockSize()))
	row("partition table", attrString(d.PartTableType()))
	row("partition table uuid", attrString(d.PartTableUUID()))
	for _, p := range d.ByIDPaths() {
		row("by-id", p)
	}
	for _, p := range d.ByPathPaths() {
		row("by-path", p)
	}
}

// renderPartitions prints the partition table rows for one disk.
func renderPartitions(w io.Writer, parts []*block.Partition, iec bool) {
	fmt.Fprintln(w)
	if len(parts) == 0 {
		fmt.Fprintln(w, "no partitions")
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %3s %10s %-10s %-18s %s",
		"NAME", "NO", "SIZE", "FSTYPE", "LABEL", "MOUNTPOINT")))
	for _, p := range parts {
		fmt.Fprintf(w, "%-12s %3d %10s %-10s %-18s %s\n",
			p.Name(), p.Number(), sizeString(p.Size(), iec),
			attrString(p.FSType()), attrString(p.FSLabel()), attrString(p.MountPoint()))
	}
}

// renderSmart prints a SMART snapshot: verdict and temperature first, then
// the class-specific detail.
func renderSmart(w io.Writer, name string, snap *smart.Snapshot) {
	fmt.Fprintln(w, headerStyle.Render(name))

	if snap.StandbyMode {
		fmt.Fprintln(w, warnStyle.Render("device is in standby, skipped reading to avoid waking it (use --skip-standby-check to force)"))
		return
	}

	verdict := "PASSED"
	if !snap.Healthy {
		verdict = "FAILED"
	}
	fmt.Fprintf(w, "overall health: %s\n", healthStyle(snap.Healthy).Render(verdict))
	if t, ok := snap.Temperature.Get(); ok {
		fmt.Fprintf(w, "temperature:    %.1f°C\n", t)
	}

	switch {
	case snap.NVMe != nil:
		renderNVMeLog(w, snap.NVMe)
	case len(snap.Ata) > 0:
		renderAtaTable(w, snap.Ata)
	}
}

// renderAtaTable prints the legacy ATA attribute table, highlighting rows
// that have failed.
func renderAtaTable(w io.Writer, attrs []smart.AtaAttribute) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%3s %-26s %5s %5s %6s %-8s %-11s %s",
		"ID", "ATTRIBUTE", "VALUE", "WORST", "THRESH", "TYPE", "WHEN_FAILED", "RAW")))
	for i := range attrs {
		a := &attrs[i]
		when := a.WhenFailed
		if when == "" {
			when = "-"
		}
		line := fmt.Sprintf("%3d %-26s %5d %5d %6d %-8s %-11s %s",
			a.ID, a.Name, a.Value, a.Worst, a.Thresh, a.Type, when, a.RawString)
		if a.WhenFailed != "" {
			line = critStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// renderNVMeLog prints the NVMe health information log as labeled rows.
func renderNVMeLog(w io.Writer, log *smart.NVMeLog) {
	fmt.Fprintln(w)

	row := func(label string, value any) {
		fmt.Fprintf(w, "%s %v\n", labelStyle.Render(fmt.Sprintf("%-26s", label)), value)
	}

	warning := fmt.Sprintf("%#04x", log.CriticalWarning)
	if log.CriticalWarning != 0 {
		warning = critStyle.Render(warning)
	}
	row("critical warning", warning)
	row("available spare", fmt.Sprintf("%d%%", log.AvailableSpare))
	row("spare threshold", fmt.Sprintf("%d%%", log.AvailableSpareThreshold))
	row("percentage used", fmt.Sprintf("%d%%", log.PercentageUsed))
	row("data units read", log.DataUnitsRead)
	row("data units written", log.DataUnitsWritten)
	row("power cycles", log.PowerCycles)
	row("power on hours", log.PowerOnHours)
	row("unsafe shutdowns", log.UnsafeShutdowns)
	row("media errors", log.MediaErrors)
	row("error log entries", log.ErrorLogEntries)
}
