// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package imagegen turns a resolved prompt pair into an image request.
package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"promptstyles/internal/config"
	apperrors "promptstyles/internal/errors"
	"promptstyles/internal/styles"
)

// ImageClient is the part of the OpenAI client used here.
type ImageClient interface {
	CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

// Result is one generated image.
type Result struct {
	URL           string
	RevisedPrompt string
	Prompt        string
}

// Generator sends prompts to an images endpoint.
type Generator struct {
	client ImageClient
	model  string
	size   string
	logger zerolog.Logger
}

// New creates a generator talking to the endpoint in cfg.
func New(cfg config.ImageConfig, logger zerolog.Logger) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIURL != "" {
		clientConfig.BaseURL = cfg.APIURL
	}
	return NewWithClient(openai.NewClientWithConfig(clientConfig), cfg.Model, cfg.Size, logger)
}

// NewWithClient creates a generator with a provided client.
func NewWithClient(client ImageClient, model, size string, logger zerolog.Logger) *Generator {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	return &Generator{client: client, model: model, size: size, logger: logger}
}

// BuildPrompt folds the negative prompt into the request text, since the
// images API takes a single prompt.
func BuildPrompt(p styles.Prompt) string {
	positive := strings.TrimSpace(p.Positive)
	negative := strings.TrimSpace(p.Negative)
	if negative == "" {
		return positive
	}
	return fmt.Sprintf("%s\n\nAvoid: %s", positive, negative)
}

// Generate requests one image for p.
func (g *Generator) Generate(ctx context.Context, p styles.Prompt) (Result, error) {
	if strings.TrimSpace(p.Positive) == "" {
		return Result{}, apperrors.New(apperrors.CodeImage, "positive prompt is empty")
	}

	prompt := BuildPrompt(p)
	start := time.Now()
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           g.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	duration := time.Since(start)
	if err != nil {
		g.logger.Error().Err(err).Dur("duration_ms", duration).Msg("Image request failed")
		return Result{}, apperrors.Wrap(apperrors.CodeImage, "image request failed", err)
	}
	if len(resp.Data) == 0 {
		return Result{}, apperrors.New(apperrors.CodeImage, "image response contained no data")
	}

	g.logger.Info().Str("model", g.model).Str("size", g.size).Dur("duration_ms", duration).Msg("Image generated")
	return Result{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Prompt:        prompt,
	}, nil
}
