package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hostutils/diskinfo/internal/block"
)

var (
	colorRed     = lipgloss.Color("#FF5555")
	colorGreen   = lipgloss.Color("#50FA7B")
	colorYellow  = lipgloss.Color("#F1FA8C")
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorGray    = lipgloss.Color("#6272A4")

	headerStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	hddStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	ssdStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	nvmeStyle = lipgloss.NewStyle().Foreground(colorMagenta)
	loopStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// typeStyle picks a color per device class so mixed listings scan quickly.
func typeStyle(t block.DiskType) lipgloss.Style {
	switch t {
	case block.HDD:
		return hddStyle
	case block.SSD:
		return ssdStyle
	case block.NVMe:
		return nvmeStyle
	case block.Loop:
		return loopStyle
	}

	return labelStyle
}

// healthStyle colors the overall SMART verdict.
func healthStyle(healthy bool) lipgloss.Style {
	if healthy {
		return okStyle
	}

	return critStyle
}
