package receipt

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/mmynk/checkbook/internal/models"
)

const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxImageBytes = 10 << 20
)

// Config configures the Gemini extractor.
type Config struct {
	APIKey        string
	Model         string        // Defaults to DefaultModel
	Endpoint      string        // Overrides the API base URL (tests, proxies)
	Timeout       time.Duration // Per scan; defaults to DefaultTimeout
	MaxImageBytes int64         // Defaults to DefaultMaxImageBytes
}

// Gemini extracts receipts with the Gemini generateContent API.
type Gemini struct {
	svc           *generativelanguage.Service
	model         string
	timeout       time.Duration
	maxImageBytes int64
}

var _ Extractor = (*Gemini)(nil)

// NewGemini creates the extractor. A missing API key is a configuration
// error and is returned as ErrMissingAPIKey.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language client: %w", err)
	}

	g := &Gemini{
		svc:           svc,
		model:         cfg.Model,
		timeout:       cfg.Timeout,
		maxImageBytes: cfg.MaxImageBytes,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if !strings.HasPrefix(g.model, "models/") {
		g.model = "models/" + g.model
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.maxImageBytes <= 0 {
		g.maxImageBytes = DefaultMaxImageBytes
	}
	return g, nil
}

// Extract sends one request for the image and validates the reply.
// Any failure is returned as a *ScanError.
func (g *Gemini) Extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	start := time.Now()
	receipt, err := g.extract(ctx, image)
	if err != nil {
		slog.Error("Receipt analysis failed",
			"model", g.model,
			"image_bytes", len(image),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, scanFailed(err)
	}

	slog.Info("Receipt analyzed",
		"model", g.model,
		"merchant", receipt.Merchant,
		"category", receipt.Category,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return receipt, nil
}

func (g *Gemini) extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if int64(len(image)) > g.maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(image))
	}
	mtype := mimetype.Detect(image)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotAnImage, mtype.String())
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role: "user",
			Parts: []*generativelanguage.Part{
				{InlineData: &generativelanguage.Blob{
					Data:     base64.StdEncoding.EncodeToString(image),
					MimeType: mtype.String(),
				}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}

	resp, err := g.svc.Models.GenerateContent(g.model, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text, err := replyText(resp)
	if err != nil {
		return nil, err
	}
	return parseReply(text)
}

// replyText joins the text parts of the first candidate.
func replyText(resp *generativelanguage.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidReply)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty reply", ErrInvalidReply)
	}
	return b.String(), nil
}
