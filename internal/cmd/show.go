package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostutils/diskinfo/internal/block"
)

// showOptions is a struct for holding all information passed into the show command.
type showOptions struct {
	selectorFlags
	partitions bool
	iec        bool
	encoding   string
}

// showCommand creates a new command which prints one disk's attributes.
func showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "show one disk's attributes",
		Long: strings.TrimSpace(`
show resolves a disk from any one identifier and prints its hardware attributes and
persistent names. Exactly one identifier flag must be given.

With --partitions the partition layout is printed too, including each partition's
filesystem identity and mount state. Filesystem labels are decoded as UTF-8 unless
another encoding is configured or given with --encoding.
`),
	}

	// Set up the flags to be passed into the command
	opts := showOptions{}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.partitions, "partitions", false, "include the partition list")
	cmd.Flags().BoolVar(&opts.iec, "iec", false, "print sizes in IEC units (GiB rather than GB)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "IANA name of the label text encoding")

	// Set up the command's run function
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromContext(cmd)
		if err != nil {
			return err
		}

		// The flag overrides the configured encoding for this run only.
		if opts.encoding != "" {
			scoped := *cfg
			scoped.Encoding = opts.encoding
			cfg = &scoped
		}

		sys, err := newSystem(cfg)
		if err != nil {
			return err
		}

		logrus.WithField("args", opts).Debug("Running show command with args")
		return runShow(cmd.Context(), cmd.OutOrStdout(), sys, opts)
	}

	return cmd
}

// runShow resolves the selected disk and renders it, with the partition list
// when requested.
func runShow(ctx context.Context, w io.Writer, sys *block.System, opts showOptions) error {
	d, err := sys.Disk(opts.selector())
	if err != nil {
		return err
	}

	renderDisk(w, d, opts.iec)

	if !opts.partitions {
		return nil
	}

	parts, err := d.Partitions(ctx)
	if err != nil {
		return err
	}

	renderPartitions(w, parts, opts.iec)

	return nil
}
