package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hostutils/diskinfo/internal/block"
)

// selectorFlags holds the mutually exclusive identifier flags shared by the
// commands that operate on a single disk. Arity is enforced at resolution
// time so all commands report identifier mistakes the same way.
type selectorFlags struct {
	name   string
	path   string
	byID   string
	byPath string
	serial string
	wwn    string
}

func (f *selectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "kernel device name (e.g. sda)")
	cmd.Flags().StringVar(&f.path, "path", "", "device node path (e.g. /dev/sda)")
	cmd.Flags().StringVar(&f.byID, "by-id", "", "persistent name under /dev/disk/by-id")
	cmd.Flags().StringVar(&f.byPath, "by-path", "", "persistent name under /dev/disk/by-path")
	cmd.Flags().StringVar(&f.serial, "serial", "", "hardware serial number")
	cmd.Flags().StringVar(&f.wwn, "wwn", "", "World Wide Name identifier")
}

func (f *selectorFlags) selector() block.Selector {
	return block.Selector{
		Name:   f.name,
		Path:   f.path,
		ByID:   f.byID,
		ByPath: f.byPath,
		Serial: f.serial,
		WWN:    f.wwn,
	}
}
