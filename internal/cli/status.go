package cli

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daycount/internal/colour"
	"github.com/jmylchreest/daycount/internal/config"
	"github.com/jmylchreest/daycount/internal/security"
	"github.com/jmylchreest/daycount/internal/surface"
	"github.com/jmylchreest/daycount/internal/widget"
)

func newStatusCmd(a *app) *cobra.Command {
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the saved widget settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showPreview, err := resolvePreview(preview.String(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			now := a.now()
			start := a.store.StartDate(now)

			palette, stored := a.store.Palette()
			source := "saved"
			switch {
			case !stored:
				palette, source = nil, "built-in"
			case colour.IsDefault(palette):
				source = "saved (built-in)"
			}

			table := NewTable([]string{"Setting", "Value"})
			table.AddRow([]string{"Title", a.store.Title()})
			table.AddRow([]string{"Start date", start.Local().Format("2006-01-02")})
			table.AddRow([]string{"Days", widget.FormatNumber(widget.DaysBetween(start, now))})
			table.AddRow([]string{"Palette", source})
			for _, c := range palette {
				value := c.Hex()
				if showPreview {
					value = colour.FormatColourWithPreview(c, 4)
				}
				table.AddRow([]string{"", value})
			}
			table.AddRow([]string{"Data directory", a.store.Dir()})
			table.AddRow([]string{"Surface", a.cfg.Surface.Mode})
			if a.cfg.Surface.Mode == config.SurfacePlugin {
				table.AddRow([]string{"Surface processes", a.surfaceProcesses()})
				table.AddRow([]string{"Surface checksum", a.surfaceChecksum()})
			}

			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
	preview = choiceFlag(cmd.Flags(), "preview", previewAuto, "show colour swatches", previewAuto, previewAlways, previewNever)
	return cmd
}

// surfaceProcesses reports how many surface plugin processes are running.
func (a *app) surfaceProcesses() string {
	pids, err := surface.FindProcesses(filepath.Base(a.cfg.Surface.Path))
	if err != nil {
		a.logger.Debug("failed to list processes", "error", err)
		return "unknown"
	}
	return strconv.Itoa(len(pids))
}

// surfaceChecksum returns the digest of the surface plugin binary in the
// form accepted by surface.checksum.
func (a *app) surfaceChecksum() string {
	path, err := resolvePluginPath(a.cfg.Surface.Path)
	if err != nil {
		return "not found"
	}
	sum, err := security.FileChecksum(path)
	if err != nil {
		a.logger.Debug("failed to hash surface plugin", "path", path, "error", err)
		return "unknown"
	}
	return "sha256:" + hex.EncodeToString(sum)
}
