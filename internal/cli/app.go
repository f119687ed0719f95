package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/daycount/internal/config"
	imgload "github.com/jmylchreest/daycount/internal/image"
	"github.com/jmylchreest/daycount/internal/imagegen"
	"github.com/jmylchreest/daycount/internal/logging"
	"github.com/jmylchreest/daycount/internal/pipeline"
	"github.com/jmylchreest/daycount/internal/prefs"
	"github.com/jmylchreest/daycount/internal/sampler"
	"github.com/jmylchreest/daycount/internal/security"
	"github.com/jmylchreest/daycount/internal/surface"
	"github.com/jmylchreest/daycount/internal/util/imagecache"
	"github.com/jmylchreest/daycount/internal/widget"
)

// app carries global flags and the state shared by every command.
type app struct {
	verbose     bool
	quiet       bool
	configPath  string
	dataDir     string
	surfaceMode string

	cfg    *config.Config
	logger hclog.Logger
	store  *prefs.Store

	now func() time.Time
	rng *rand.Rand
}

func newApp() *app {
	return &app{now: time.Now}
}

// setup loads configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = logging.New(logging.Options{
		Verbose: a.verbose,
		Quiet:   a.quiet,
		Output:  cmd.ErrOrStderr(),
	})

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.surfaceMode != "" {
		cfg.Surface.Mode = strings.ToLower(a.surfaceMode)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.store = prefs.NewStore(cfg.DataDir, a.logger.Named("prefs"))
	a.logger.Debug("configuration loaded", "data_dir", cfg.DataDir, "surface", cfg.Surface.Mode)
	return nil
}

// openSurface starts the configured rendering surface.
func (a *app) openSurface() (surface.Surface, error) {
	logger := a.logger.Named("surface")
	if a.cfg.Surface.Mode != config.SurfacePlugin {
		return surface.NewLocal(surface.NewRunner(logger), logger), nil
	}

	path, err := resolvePluginPath(a.cfg.Surface.Path)
	if err != nil {
		return nil, err
	}
	if err := security.ValidatePluginBinary(path); err != nil {
		return nil, err
	}

	var opts []surface.PluginOption
	if a.cfg.Surface.Checksum != "" {
		sum, err := security.ParseChecksum(a.cfg.Surface.Checksum)
		if err != nil {
			return nil, err
		}
		opts = append(opts, surface.WithChecksum(sum))
	}
	logger.Debug("starting surface plugin", "path", path, "verified", len(opts) > 0)
	return surface.NewPlugin(path, logger, opts...)
}

// newPipeline builds a pipeline over s using the configured settings.
func (a *app) newPipeline(s surface.Surface, opts ...pipeline.Option) *pipeline.Pipeline {
	base := []pipeline.Option{
		pipeline.WithLogger(a.logger.Named("pipeline")),
		pipeline.WithAlgorithm(sampler.Algorithm(a.cfg.Algorithm)),
		pipeline.WithScale(a.cfg.Widget.Scale),
		pipeline.WithPollOptions(surface.PollOptions{
			Interval: a.cfg.Surface.PollInterval,
			Attempts: a.cfg.Surface.PollAttempts,
		}),
	}
	return pipeline.New(s, append(base, opts...)...)
}

// withPipeline opens a surface, runs fn and closes the surface.
func (a *app) withPipeline(fn func(*pipeline.Pipeline) error, opts ...pipeline.Option) error {
	s, err := a.openSurface()
	if err != nil {
		return fmt.Errorf("failed to open rendering surface: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.logger.Warn("failed to close rendering surface", "error", err)
		}
	}()
	return fn(a.newPipeline(s, opts...))
}

// loadImage loads a photo from a path, directory or URL.
func (a *app) loadImage(ctx context.Context, path string) (image.Image, error) {
	loader := imgload.NewSmartLoader()
	loader.CacheDir = a.cfg.CacheDir
	loader.BlockPrivateHosts = a.cfg.Images.BlockPrivateHosts
	img, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	a.logger.Debug("image loaded", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

// generatePhoto produces a photo for prompt sized for fam.
func (a *app) generatePhoto(ctx context.Context, prompt string, fam widget.Family) (image.Image, error) {
	cacheDir := a.cfg.CacheDir
	if cacheDir == "" {
		dir, err := imagecache.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		cacheDir = dir
	}

	spec := widget.ConfigFor(fam)
	gen := imagegen.New(imagegen.Options{
		Model:    a.cfg.Images.GenerateModel,
		Backend:  a.cfg.Images.GenerateBackend,
		CacheDir: filepath.Join(cacheDir, "generated"),
		Logger:   a.logger.Named("imagegen"),
	})
	img, err := gen.Image(ctx, prompt, spec.Width, spec.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to generate photo: %w", err)
	}
	return img, nil
}

// photo loads source, or generates one from prompt when it is set.
func (a *app) photo(ctx context.Context, source, prompt string, fam widget.Family) (image.Image, error) {
	switch {
	case source != "" && prompt != "":
		return nil, fmt.Errorf("an image and --prompt cannot be combined")
	case prompt != "":
		return a.generatePhoto(ctx, prompt, fam)
	case source != "":
		return a.loadImage(ctx, source)
	default:
		return nil, nil
	}
}

// resolvePluginPath finds the surface binary on PATH or next to the
// running executable.
func resolvePluginPath(path string) (string, error) {
	if strings.ContainsRune(path, filepath.Separator) {
		return path, nil
	}
	if found, err := exec.LookPath(path); err == nil {
		return found, nil
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("surface plugin %q not found", path)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - File descriptors fit in int
}
