package cli

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daycount/internal/colour"
	"github.com/jmylchreest/daycount/internal/pipeline"
	"github.com/jmylchreest/daycount/internal/prefs"
)

func newSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the widget title, start date or palette",
	}
	cmd.AddCommand(newSetTitleCmd(a), newSetDateCmd(a), newSetColoursCmd(a))
	return cmd
}

func newSetTitleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "title <text>",
		Short: "Set the widget title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.SetTitle(strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Title set to %q\n", a.store.Title())
			return nil
		},
	}
}

func newSetDateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "date <date|today>",
		Short: "Set the date counting starts from",
		Long: `Set the date counting starts from.

Accepts YYYY-MM-DD (local midnight), RFC 3339 timestamps or "today".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date time.Time
			if strings.EqualFold(args[0], "today") {
				date = a.now()
			} else {
				parsed, err := prefs.ParseDate(args[0])
				if err != nil {
					return err
				}
				date = parsed
			}
			if err := a.store.SetStartDate(date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Start date set to %s\n", date.Local().Format("2006-01-02"))
			return nil
		},
	}
}

func newSetColoursCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "colours <image|default|#hex...>",
		Aliases: []string{"colors"},
		Short:   "Set the background palette",
		Long: `Set the background palette.

Pass a photo, directory or URL to extract the palette from, two or more hex
colours to save them directly, or "default" to return to the built-in
palettes. A photo without a usable palette saves a random built-in one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && strings.EqualFold(args[0], "default") {
				if err := a.store.ClearPalette(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Palette reset to built-in defaults")
				return nil
			}

			palette, err := a.paletteFromArgs(cmd, args)
			if err != nil {
				return err
			}
			if err := a.store.SetPalette(palette); err != nil {
				return fmt.Errorf("failed to save palette: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Palette set to %s\n", strings.Join(palette.Hex(), " "))
			return nil
		},
	}
}

// paletteFromArgs parses explicit hex colours, or extracts a palette from
// the single image argument.
func (a *app) paletteFromArgs(cmd *cobra.Command, args []string) (colour.Palette, error) {
	if strings.HasPrefix(args[0], "#") {
		palette, err := colour.ParsePalette(args)
		if err != nil {
			return nil, err
		}
		return palette, palette.Validate()
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one image or at least two hex colours, got %d arguments", len(args))
	}

	img, err := a.loadImage(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}
	var palette colour.Palette
	err = a.withPipeline(func(p *pipeline.Pipeline) error {
		palette = a.extractOrDefault(cmd.Context(), p, img)
		return nil
	})
	return palette, err
}

// extractOrDefault samples img, falling back to a random built-in palette
// when extraction fails.
func (a *app) extractOrDefault(ctx context.Context, p *pipeline.Pipeline, img image.Image) colour.Palette {
	if palette, ok := p.ExtractPalette(ctx, img); ok {
		return palette
	}
	palette := colour.RandomDefault(a.rng)
	a.logger.Warn("no usable palette in photo, using a built-in palette", "colours", palette.Hex())
	return palette
}
