package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daycount/internal/colour"
	"github.com/jmylchreest/daycount/internal/pipeline"
	"github.com/jmylchreest/daycount/internal/sampler"
	"github.com/jmylchreest/daycount/internal/widget"
)

// Preview modes.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

// errNoPalette is returned when a photo yields no usable palette.
var errNoPalette = errors.New("no usable palette could be extracted")

func newExtractCmd(a *app) *cobra.Command {
	var (
		algorithm string
		format    *choiceValue
		preview   *choiceValue
		save      bool
		prompt    string
	)

	cmd := &cobra.Command{
		Use:   "extract [image]",
		Short: "Extract a background palette from a photo",
		Long: `Extract a background palette from a photo.

Candidate colours are sampled from the photo, filtered down to at most four
distinct colours and adjusted for use behind white text.

Supported image formats: JPEG, PNG, GIF, WebP. A directory picks a random
image inside it, an archive (zip, tar, tar.gz, tar.xz, tar.bz2) picks a
random image from inside the bundle and an HTTP(S) URL is downloaded. With
--prompt the photo is generated from a text prompt instead.

Examples:
  # Print the palette
  daycount extract beach.jpg

  # Use k-means clustering and print JSON
  daycount extract -a kmeans --format json beach.jpg

  # Save the palette for future renders
  daycount extract --save beach.jpg

  # Extract from a generated photo
  daycount extract --prompt "autumn forest in fog"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if algorithm == "" {
				algorithm = a.cfg.Algorithm
			}
			if !sampler.IsValidAlgorithm(sampler.Algorithm(algorithm)) {
				return fmt.Errorf("invalid algorithm %q (valid: %v)", algorithm, sampler.ValidAlgorithms())
			}
			showPreview, err := resolvePreview(preview.String(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var source string
			if len(args) == 1 {
				source = args[0]
			}
			if source == "" && prompt == "" {
				return fmt.Errorf("an image or --prompt is required")
			}
			fam, _ := widget.ParseFamily(a.cfg.Widget.Family)
			img, err := a.photo(cmd.Context(), source, prompt, fam)
			if err != nil {
				return err
			}

			var palette colour.Palette
			err = a.withPipeline(func(p *pipeline.Pipeline) error {
				var ok bool
				palette, ok = p.ExtractPalette(cmd.Context(), img)
				if !ok {
					return errNoPalette
				}
				return nil
			}, pipeline.WithAlgorithm(sampler.Algorithm(algorithm)))
			if err != nil {
				return err
			}

			out, err := formatPalette(palette, format.String(), showPreview)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
				return err
			}

			if save {
				if err := a.store.SetPalette(palette); err != nil {
					return fmt.Errorf("failed to save palette: %w", err)
				}
				a.logger.Info("palette saved", "colours", palette.Hex())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", fmt.Sprintf("candidate sampler %v", sampler.ValidAlgorithms()))
	format = choiceFlag(cmd.Flags(), "format", "hex", "output format", "hex", "json")
	preview = choiceFlag(cmd.Flags(), "preview", previewAuto, "show colour swatches", previewAuto, previewAlways, previewNever)
	cmd.Flags().BoolVar(&save, "save", false, "save the palette for future renders")
	cmd.Flags().StringVar(&prompt, "prompt", "", "generate the photo from a text prompt")
	return cmd
}

// resolvePreview decides whether swatches are printed to w.
func resolvePreview(mode string, w io.Writer) (bool, error) {
	switch mode {
	case previewAuto, "":
		return isTerminal(w), nil
	case previewAlways:
		return true, nil
	case previewNever:
		return false, nil
	default:
		return false, fmt.Errorf("invalid preview mode %q (valid: %s, %s, %s)", mode, previewAuto, previewAlways, previewNever)
	}
}

// formatPalette formats the palette according to the specified format.
func formatPalette(p colour.Palette, format string, preview bool) (string, error) {
	switch format {
	case "hex", "":
		return colour.FormatPalette(p, preview), nil
	case "json":
		data, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (valid: hex, json)", format)
	}
}
