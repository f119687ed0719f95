package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daycount/internal/colour"
	"github.com/jmylchreest/daycount/internal/pipeline"
	"github.com/jmylchreest/daycount/internal/widget"
)

func newGradientCmd(a *app) *cobra.Command {
	var (
		colours []string
		family  string
		width   int
		height  int
		output  string
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "gradient",
		Short: "Render only the widget background",
		Long: `Render a gradient background from a palette.

The palette comes from --colours, or the saved palette, or a built-in
palette. The size defaults to the widget family's logical size and is
multiplied by the configured scale.

Examples:
  # Background for the large widget from the saved palette
  daycount gradient -f large -o bg.png

  # Explicit colours and size
  daycount gradient --colours '#ee7b94,#7bc2ee' -W 200 -H 100 -o bg.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			palette := a.store.ResolvePalette(a.rng)
			if len(colours) > 0 {
				parsed, err := colour.ParsePalette(colours)
				if err != nil {
					return fmt.Errorf("invalid colours: %w", err)
				}
				if err := parsed.Validate(); err != nil {
					return err
				}
				palette = parsed
			}

			if family == "" {
				family = a.cfg.Widget.Family
			}
			fam, _ := widget.ParseFamily(family)
			cfg := widget.ConfigFor(fam)
			if width <= 0 {
				width = cfg.Width
			}
			if height <= 0 {
				height = cfg.Height
			}

			var opts []pipeline.Option
			if cmd.Flags().Changed("seed") {
				opts = append(opts, pipeline.WithSeed(seed))
			}

			return a.withPipeline(func(p *pipeline.Pipeline) error {
				bg := p.Background(cmd.Context(), palette, width, height)
				if err := writePNG(cmd.OutOrStdout(), output, bg); err != nil {
					return err
				}
				a.logger.Info("background rendered", "colours", palette.Hex(), "width", bg.Bounds().Dx(), "height", bg.Bounds().Dy(), "output", output)
				return nil
			}, opts...)
		},
	}

	cmd.Flags().StringSliceVar(&colours, "colours", nil, "comma separated hex colours (at least two)")
	cmd.Flags().StringVarP(&family, "family", "f", "", "widget family giving the default size")
	cmd.Flags().IntVarP(&width, "width", "W", 0, "logical width")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "logical height")
	cmd.Flags().StringVarP(&output, "output", "o", "background.png", "output file, - for stdout")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible background")
	return cmd
}
