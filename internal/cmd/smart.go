package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostutils/diskinfo/internal/block"
	"github.com/hostutils/diskinfo/internal/smart"
)

// smartOptions is a struct for holding all information passed into the smart command.
type smartOptions struct {
	selectorFlags
	skipStandbyCheck bool
	tempOnly         bool
}

// smartCommand creates a new command which reads a disk's SMART health data.
func smartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smart",
		Short: "read a disk's SMART health data",
		Long: strings.TrimSpace(`
smart reads one disk's SMART health data through smartctl and prints the overall verdict
together with the ATA attribute table or the NVMe health log, whichever the device has.

A rotational disk that has spun down is left alone: the read stops when the drive reports
standby so querying does not wake it. Use --skip-standby-check to force a full read anyway.
`),
	}

	// Set up the flags to be passed into the command
	opts := smartOptions{}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.skipStandbyCheck, "skip-standby-check", false, "read full data even if the disk is in standby")
	cmd.Flags().BoolVar(&opts.tempOnly, "temp", false, "print only the device temperature")

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
		warnIfUnprivileged(cfg)

		logrus.WithField("args", opts).Debug("Running smart command with args")
		return runSmart(cmd.Context(), cmd.OutOrStdout(), sys, opts)
	}

	return cmd
}

// runSmart resolves the selected disk and reads either its temperature or a
// full SMART snapshot.
func runSmart(ctx context.Context, w io.Writer, sys *block.System, opts smartOptions) error {
	d, err := sys.Disk(opts.selector())
	if err != nil {
		return err
	}

	if opts.tempOnly {
		return printTemperature(ctx, w, d)
	}

	snap, err := d.Smart(ctx, opts.skipStandbyCheck)
	if err != nil {
		return err
	}

	renderSmart(w, d.Name(), snap)

	return nil
}

// printTemperature reports the disk temperature. A missing sensor is an
// answer, not a failure.
func printTemperature(ctx context.Context, w io.Writer, d *block.Disk) error {
	temp, err := d.Temperature(ctx)
	if errors.Is(err, smart.ErrNoSensor) {
		fmt.Fprintf(w, "%s: no temperature sensor\n", d.Name())
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %.1f°C\n", d.Name(), temp)

	return nil
}
