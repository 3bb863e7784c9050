package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// genDocsCommand creates a hidden command which writes markdown documentation
// for the whole command tree.
func genDocsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "gen-docs [dir]",
		Short:  "generate markdown documentation for all commands",
		Args:   cobra.MaximumNArgs(1),
		Hidden: true,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		outdir := "./docs"
		if len(args) >= 1 {
			outdir = args[0]
		}

		logrus.WithField("outdir", outdir).Info("generating docs")

		if err := os.MkdirAll(outdir, 0755); err != nil {
			return err
		}
		if err := doc.GenMarkdownTree(cmd.Root(), outdir); err != nil {
			return err
		}

		logrus.WithField("outdir", outdir).Info("generated docs")

		return nil
	}

	return cmd
}
