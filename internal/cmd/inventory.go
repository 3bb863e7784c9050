package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostutils/diskinfo/internal/block"
	"github.com/hostutils/diskinfo/internal/config"
	"github.com/hostutils/diskinfo/internal/inventory"
)

// inventoryCommand creates a new command group which records and inspects
// discovery snapshots.
func inventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "record and inspect discovery snapshots",
		Long: strings.TrimSpace(`
inventory keeps a local database of discovery snapshots so a host's disk population can be
compared over time: which disks were present at each scan, with their identity and capacity.
`),
	}

	// The database flag is shared by the subcommands below.
	var dbPath string
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the snapshot database")

	cmd.AddCommand(inventorySyncCommand(&dbPath))
	cmd.AddCommand(inventoryListCommand(&dbPath))

	return cmd
}

// inventorySyncCommand creates a new command which discovers disks and
// records them as a snapshot.
func inventorySyncCommand(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "discover disks and record a snapshot",
	}

	// Set up the flags to be passed into the command
	var withLoop bool
	cmd.Flags().BoolVar(&withLoop, "loop", false, "record loop devices too")

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

		var include block.DiskType
		if withLoop {
			include = block.HDD | block.SSD | block.NVMe | block.Loop
		}

		inv, err := sys.Discover(block.DiscoverOptions{Include: include, SortByName: true})
		if err != nil {
			return err
		}

		return runInventorySync(cmd.OutOrStdout(), storePath(cfg, *dbPath), inv)
	}

	return cmd
}

// inventoryListCommand creates a new command which lists recorded snapshots
// or the disks of one snapshot.
func inventoryListCommand(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [scan-id]",
		Short: "list recorded snapshots or one snapshot's disks",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromContext(cmd)
		if err != nil {
			return err
		}

		store, err := inventory.Open(storePath(cfg, *dbPath))
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			return renderScans(cmd.OutOrStdout(), store)
		}

		return renderScanDisks(cmd.OutOrStdout(), store, args[0])
	}

	return cmd
}

// storePath picks the snapshot database location, letting the flag win over
// the configuration.
func storePath(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}

	return cfg.Database()
}

// runInventorySync records the discovered disks as one snapshot.
func runInventorySync(w io.Writer, dbPath string, inv *block.Inventory) error {
	store, err := inventory.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	scan := inventory.NewScan()
	records := make([]inventory.DiskRecord, 0, inv.Count())
	for _, d := range inv.Disks() {
		records = append(records, inventory.RecordFor(d))
	}

	if err := store.SaveScan(scan, records); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"scan":  scan.ID,
		"disks": len(records),
		"db":    store.Path(),
	}).Info("Recorded discovery snapshot")

	fmt.Fprintf(w, "recorded scan %s with %d disks\n", scan.ID, len(records))

	return nil
}

// renderScans prints the recorded snapshots, newest first.
func renderScans(w io.Writer, store *inventory.Store) error {
	scans, err := store.ListScans()
	if err != nil {
		return err
	}

	if len(scans) == 0 {
		fmt.Fprintln(w, "no snapshots recorded")
		return nil
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-36s %-20s %5s", "SCAN", "STARTED", "DISKS")))
	for _, sc := range scans {
		fmt.Fprintf(w, "%-36s %-20s %5d\n", sc.ID, sc.StartedAt.Format("2006-01-02 15:04:05"), sc.DiskCount)
	}

	return nil
}

// renderScanDisks prints the disks recorded in one snapshot.
func renderScanDisks(w io.Writer, store *inventory.Store, scanID string) error {
	disks, err := store.DisksForScan(scanID)
	if err != nil {
		return err
	}

	if len(disks) == 0 {
		fmt.Fprintf(w, "no disks recorded for scan %s\n", scanID)
		return nil
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-10s %-8s %-28s %-22s %10s", "NAME", "TYPE", "MODEL", "SERIAL", "SIZE")))
	for _, d := range disks {
		fmt.Fprintf(w, "%-10s %-8s %-28s %-22s %10s\n",
			d.Name, d.Type, orDash(d.Model), orDash(d.Serial), sizeString(d.SizeBlocks, false))
	}

	return nil
}

// orDash substitutes a dash for recorded fields that were unknown at scan
// time.
func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
