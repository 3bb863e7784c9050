// Package cmd provides the functionality necessary for CLI commands in diskinfo.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostutils/diskinfo/internal/block"
	"github.com/hostutils/diskinfo/internal/build"
	"github.com/hostutils/diskinfo/internal/config"
	"github.com/hostutils/diskinfo/internal/contextual"
	"github.com/hostutils/diskinfo/internal/lsblk"
	"github.com/hostutils/diskinfo/internal/smart"
)

// MainCommand provides the main program entrypoint that dispatches to the query subcommands.
func MainCommand() *cobra.Command {
	cmd := rootCommand()

	cmds := []*cobra.Command{
		listCommand(),
		showCommand(),
		smartCommand(),
		inventoryCommand(),
		genDocsCommand(),
	}
	for i := range cmds {
		cmd.AddCommand(cmds[i])
	}

	return cmd
}

// rootCommand builds a root command object for program run.
func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diskinfo",
		Short: "inspect the host's block devices",
		Long: strings.TrimSpace(`
This command discovers the block devices attached to a Linux host and reports their hardware
attributes, partition layout, persistent names and SMART health data.

Disks are reached through subcommands and can be looked up by kernel name, device node path,
persistent name, serial number or WWN. Attributes come from sysfs and the udev database; SMART
data is read through smartctl.
`),
		Version:      build.Version,
		SilenceUsage: true,
	}

	versionTemplate := "{{.Name}} {{.Version}} [%s]\n"
	cmd.SetVersionTemplate(fmt.Sprintf(versionTemplate, build.CommitDate))

	var verbosity int
	var configPath string
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Enable verbose logging output (repeat for trace)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a configuration file")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		setupLogging(logLevel(cfg, verbosity))

		cmd.SetContext(contextual.WithConfig(cmd.Context(), cfg))

		return nil
	}

	return cmd
}

// logLevel resolves the logging level, letting --verbose win over the
// configured one.
func logLevel(cfg *config.Config, verbosity int) logrus.Level {
	switch {
	case verbosity >= 2:
		return logrus.TraceLevel
	case verbosity == 1:
		return logrus.DebugLevel
	}

	if cfg.LogLevel != "" {
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			return level
		}
	}

	return logrus.InfoLevel
}

// setupLogging configures logrus to use the desired timestamp format and log level.
func setupLogging(level logrus.Level) {
	Formatter := &logrus.TextFormatter{}

	// Configure the formatter
	Formatter.TimestampFormat = time.RFC822
	Formatter.FullTimestamp = true

	// Set the desired log level
	logrus.SetLevel(level)

	logrus.SetFormatter(Formatter)
}

// configFromContext fetches the configuration placed in the command's context
// by the root command.
func configFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg := contextual.Config(cmd.Context())
	if cfg == nil {
		return nil, errors.New("configuration required in context")
	}

	return cfg, nil
}

// newSystem assembles the device query layer from the configuration.
func newSystem(cfg *config.Config) (*block.System, error) {
	return block.New(block.Options{
		Lsblk:    &lsblk.CmdClient{Path: cfg.LsblkPath},
		Smart:    &smart.SmartctlBackend{Path: cfg.SmartctlPath, Sudo: cfg.Sudo},
		Encoding: cfg.Encoding,
	})
}

func hasRootPrivileges() bool {
	return os.Geteuid() == 0
}

// warnIfUnprivileged logs a hint when SMART reads are about to run without
// root privileges and without sudo configured. smartctl needs one of the two
// to open the device node.
func warnIfUnprivileged(cfg *config.Config) {
	if hasRootPrivileges() || cfg.Sudo {
		return
	}

	logrus.Warn("SMART reads usually require root privileges; re-run with sudo or set sudo in the configuration")
}
