// Package cli provides the command-line interface for daycount.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daycount/internal/version"
)

// NewRootCmd builds the daycount command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daycount",
		Short: "A day counter widget with backgrounds drawn from your photos",
		Long: `Daycount renders a widget that counts the days since a start date.

The widget background is a soft gradient built from a palette. The palette
is extracted from a photo of your choosing, or picked from a set of
built-in palettes when none has been saved.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/daycount/config.yaml)")
	flags.StringVar(&a.dataDir, "data-dir", "", "preference directory (default $XDG_DATA_HOME/daycount)")
	flags.StringVar(&a.surfaceMode, "surface", "", "where rendering work runs (local, plugin)")

	rootCmd.SetVersionTemplate(version.String("daycount") + "\n")

	rootCmd.AddCommand(
		newRenderCmd(a),
		newExtractCmd(a),
		newGradientCmd(a),
		newSetCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skips the root setup, which needs a valid config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("daycount"))
		},
	}
}
