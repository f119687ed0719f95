// Package imagegen produces photos from text prompts with Google Gen AI
// image models and caches them on disk.
package imagegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"

	imgload "github.com/jmylchreest/daycount/internal/image"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash-image"

	// Backends.
	BackendGeminiAPI = "gemini-api"
	BackendVertexAI  = "vertex-ai"

	// EnvAPIKey holds the Gemini API key.
	EnvAPIKey = "GOOGLE_API_KEY"

	// backgroundEnhancement is appended to prompts so the result works
	// behind overlaid text.
	backgroundEnhancement = ", soft background photograph, edge-to-edge composition, even lighting, no text, no lettering, no borders, no frames"

	// defaultNegativePrompt is sent to Imagen models on Vertex AI.
	defaultNegativePrompt = "text, lettering, watermark, logo, white borders, black borders, frames, padding, vignette edges"
)

var (
	// ErrMissingAPIKey is returned when the Gemini API backend has no key.
	ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable is required")

	// ErrNoImage is returned when a response carries no image data.
	ErrNoImage = errors.New("no image data in response")
)

// aspectRatios are the ratios supported by every image model.
var aspectRatios = []struct {
	name  string
	ratio float64
}{
	{"1:1", 1},
	{"3:4", 3.0 / 4},
	{"4:3", 4.0 / 3},
	{"9:16", 9.0 / 16},
	{"16:9", 16.0 / 9},
}

// IsValidBackend reports whether name is a supported backend.
func IsValidBackend(name string) bool {
	return name == BackendGeminiAPI || name == BackendVertexAI
}

// IsGeminiModel reports whether model generates through GenerateContent
// rather than the Imagen GenerateImages API.
func IsGeminiModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// AspectRatio returns the supported ratio closest to width by height.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return aspectRatios[0].name
	}
	want := math.Log(float64(width) / float64(height))
	best, bestDiff := aspectRatios[0].name, math.Inf(1)
	for _, r := range aspectRatios {
		if d := math.Abs(math.Log(r.ratio) - want); d < bestDiff {
			best, bestDiff = r.name, d
		}
	}
	return best
}

// EnhancePrompt appends the background styling suffix to prompt.
func EnhancePrompt(prompt string) string {
	return strings.TrimSpace(prompt) + backgroundEnhancement
}

// CacheFilename returns the cache file name for a model, prompt and ratio.
func CacheFilename(model, prompt, aspect string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + aspect + "\x00" + strings.TrimSpace(prompt)))
	return "genai-" + hex.EncodeToString(hash[:])[:16] + ".png"
}

// Options configures a Generator.
type Options struct {
	Model   string
	Backend string

	// CacheDir stores generated photos. Empty disables caching.
	CacheDir string

	// Overwrite regenerates photos that are already cached.
	Overwrite bool

	Logger hclog.Logger
}

// generateFunc returns encoded image bytes for a prompt.
type generateFunc func(ctx context.Context, prompt, aspect string) ([]byte, error)

// Generator turns prompts into photos.
type Generator struct {
	opts     Options
	logger   hclog.Logger
	generate generateFunc
}

// New creates a Generator, applying defaults to opts.
func New(opts Options) *Generator {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Backend == "" {
		opts.Backend = BackendGeminiAPI
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	g := &Generator{opts: opts, logger: logger}
	g.generate = g.generateRemote
	return g
}

// Image returns a photo for prompt shaped for a width by height widget,
// from the cache when possible.
func (g *Generator) Image(ctx context.Context, prompt string, width, height int) (image.Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	aspect := AspectRatio(width, height)

	var cachePath string
	if g.opts.CacheDir != "" {
		cachePath = filepath.Join(g.opts.CacheDir, CacheFilename(g.opts.Model, prompt, aspect))
		if !g.opts.Overwrite {
			if data, err := os.ReadFile(cachePath); err == nil { // #nosec G304 - Path inside the generation cache
				g.logger.Debug("using cached generated photo", "path", cachePath)
				return imgload.Decode(data)
			}
		}
	}

	g.logger.Info("generating photo", "model", g.opts.Model, "aspect", aspect)
	data, err := g.generate(ctx, EnhancePrompt(prompt), aspect)
	if err != nil {
		return nil, err
	}
	img, err := imgload.Decode(data)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := os.MkdirAll(g.opts.CacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		if err := os.WriteFile(cachePath, data, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write generated photo: %w", err)
		}
	}
	return img, nil
}

func (g *Generator) clientConfig() (*genai.ClientConfig, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if g.opts.Backend == BackendVertexAI {
		cfg.Backend = genai.BackendVertexAI
		return cfg, nil
	}
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.APIKey = key
	return cfg, nil
}

func (g *Generator) generateRemote(ctx context.Context, prompt, aspect string) ([]byte, error) {
	cfg, err := g.clientConfig()
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	if IsGeminiModel(g.opts.Model) {
		return generateContent(ctx, client, g.opts.Model, prompt, aspect)
	}
	return generateImages(ctx, client, g.opts.Model, prompt, aspect)
}

func generateContent(ctx context.Context, client *genai.Client, model, prompt, aspect string) ([]byte, error) {
	text := fmt.Sprintf("Generate an image with aspect ratio %s: %s", aspect, prompt)
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"Image"},
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, ErrNoImage
}

func generateImages(ctx context.Context, client *genai.Client, model, prompt, aspect string) ([]byte, error) {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspect,
		OutputMIMEType: "image/png",
	}
	// Negative prompts are only accepted by Vertex AI.
	if client.ClientConfig().Backend == genai.BackendVertexAI {
		cfg.NegativePrompt = defaultNegativePrompt
	}

	resp, err := client.Models.GenerateImages(ctx, model, prompt, cfg)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 {
		return nil, ErrNoImage
	}
	generated := resp.GeneratedImages[0]
	if generated.RAIFilteredReason != "" {
		return nil, fmt.Errorf("image was filtered by safety system: %s", generated.RAIFilteredReason)
	}
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		return nil, ErrNoImage
	}
	return generated.Image.ImageBytes, nil
}
