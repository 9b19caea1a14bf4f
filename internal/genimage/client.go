// Package genimage calls Google Gen AI to stylise an input image into a
// flat-colour, bead-friendly illustration before quantization.
//
// The generated image is an opaque upstream input to the conversion
// pipeline: the model is never asked to honour exact palette colours, only
// to produce an image that quantizes cleanly (few flat colours, sharp
// boundaries, white background). Precise colour mapping is the pipeline's
// job.
package genimage

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the image generation model used when none is
	// specified.
	DefaultModel = "gemini-2.5-flash-image"

	// stylePrompt steers generation towards images that survive grid
	// quantization onto a small closed palette: chibi proportions, a handful
	// of uniform flat colours, razor-sharp boundaries, pure white
	// background.
	stylePrompt = "Cute chibi kawaii style illustration, super deformed 2-head-tall proportions. " +
		"STRICTLY follow these rules:\n" +
		"1. CHIBI ART STYLE: big round head about two thirds of the body, tiny stubby body, large sparkling round eyes, small dot nose, simple happy expression. Overall look must be adorable and doll-like.\n" +
		"2. ROUNDED SHAPES: all forms must be soft, puffy, and rounded. No sharp angles, no realistic anatomy. Like a cute plush toy or gashapon figure.\n" +
		"3. MAXIMUM 5-8 solid pure flat colors in the entire image, every region is filled with ONE uniform color, absolutely NO gradient, NO shading, NO texture, NO noise.\n" +
		"4. Every color boundary must be razor-sharp and clean, like a sticker cut-out.\n" +
		"5. Use thick uniform BLACK outlines (3-4px) to separate all color regions, like a coloring book.\n" +
		"6. Use ONLY bright, saturated, candy-like colors (bubblegum pink, sky blue, sunny yellow, mint green, coral orange, lavender purple). Colors should feel cheerful and pop.\n" +
		"7. Pure white (#FFFFFF) background, NO ground, NO shadow, NO reflection.\n" +
		"8. Extremely simplified shape, remove ALL unnecessary details. No fingers, simplified hands as mittens.\n" +
		"9. Centered composition, subject takes up 70-80% of the canvas.\n" +
		"10. 2D flat design ONLY. No 3D, no perspective, no depth, no realistic rendering.\n" +
		"The image will be converted to a bead pattern, so simplicity and color clarity are critical."
)

// Client generates stylised images via the Google Gen AI SDK.
type Client struct {
	model  string
	apiKey string
	logger hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// New creates a Client. The API key is read from the GOOGLE_API_KEY
// environment variable.
func New(logger hclog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Client{
		model:  DefaultModel,
		apiKey: os.Getenv("GOOGLE_API_KEY"),
		logger: logger.Named("genimage"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the client is configured to make API calls.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Stylise generates a bead-friendly rendition of the input image. A nil or
// empty input switches to pure text-to-image generation. Returns the raw
// bytes of the generated PNG.
func (c *Client) Stylise(ctx context.Context, imageBytes []byte) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required\nGet one at: https://aistudio.google.com/api-keys")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	parts := make([]*genai.Part, 0, 2)
	if len(imageBytes) > 0 {
		parts = append(parts, genai.NewPartFromBytes(imageBytes, "image/png"))
	}
	parts = append(parts, genai.NewPartFromText(Prompt()))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"Image"},
	}

	c.logger.Debug("requesting stylised image",
		"model", c.model,
		"image_to_image", len(imageBytes) > 0)

	response, err := client.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	for _, part := range response.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			c.logger.Debug("received stylised image", "bytes", len(part.InlineData.Data))
			return part.InlineData.Data, nil
		}
	}

	return nil, fmt.Errorf("no inline image data found in response")
}

// Prompt returns the full stylisation prompt sent to the model.
func Prompt() string {
	return stylePrompt
}
