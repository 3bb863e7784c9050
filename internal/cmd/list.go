package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostutils/diskinfo/internal/block"
)

// listOptions is a struct for holding all information passed into the list command.
type listOptions struct {
	types   []string
	exclude []string
	sorted  bool
	reverse bool
	iec     bool
}

// listCommand creates a new command which discovers and lists attached disks.
func listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list attached block devices",
		Long: strings.TrimSpace(`
list discovers the block devices attached to the host and prints one row per disk with its
class, model, serial number and capacity.

By default rotational disks, SATA SSDs and NVMe devices are shown while loop devices and
unclassifiable entries are hidden. The filter can be changed with --type and --exclude;
a type named by both is excluded.
`),
	}

	// Set up the flags to be passed into the command
	opts := listOptions{}
	cmd.Flags().StringSliceVar(&opts.types, "type", nil, "disk types to include (hdd, ssd, nvme, loop, unknown)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "disk types to exclude")
	cmd.Flags().BoolVar(&opts.sorted, "sort", false, "sort disks by kernel name")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "reverse the listing order")
	cmd.Flags().BoolVar(&opts.iec, "iec", false, "print sizes in IEC units (GiB rather than GB)")

	// Set up the command's run function
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromContext(cmd)
		if err != nil {
			return err
		}

		sys, err := newSystem(cfg)
		if err != nil {
			return err
		}

		logrus.WithField("args", opts).Debug("Running list command with args")
		return runList(cmd.OutOrStdout(), sys, opts)
	}

	return cmd
}

// runList discovers the host's disks with the requested type filter and
// renders the listing.
func runList(w io.Writer, sys *block.System, opts listOptions) error {
	include, err := parseTypes(opts.types)
	if err != nil {
		return err
	}
	exclude, err := parseTypes(opts.exclude)
	if err != nil {
		return err
	}

	inv, err := sys.Discover(block.DiscoverOptions{
		Include:    include,
		Exclude:    exclude,
		SortByName: opts.sorted,
		Reverse:    opts.reverse,
	})
	if err != nil {
		return err
	}

	renderDiskList(w, inv, opts.iec)

	return nil
}

// parseTypes maps type names given on the command line to a DiskType set.
func parseTypes(names []string) (block.DiskType, error) {
	var set block.DiskType
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "hdd":
			set |= block.HDD
		case "ssd":
			set |= block.SSD
		case "nvme":
			set |= block.NVMe
		case "loop":
			set |= block.Loop
		case "unknown":
			set |= block.Unknown
		default:
			return 0, fmt.Errorf("unknown disk type %q", name)
		}
	}

	return set, nil
}
