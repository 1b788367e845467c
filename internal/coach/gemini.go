// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package coach

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"diabolohub/internal/locale"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTemperature is the sampling temperature config.Load falls
	// back to when COACH_TEMPERATURE is unset.
	DefaultTemperature float32 = 0.7
)

// GeminiConfig holds the credentials and settings for the Gemini model.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Gemini implements Model on the Google Gen AI SDK with Google Search
// grounding enabled.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGemini creates a Gemini model. An empty model name selects
// DefaultModel. The temperature is used as given, so zero means greedy
// sampling.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("coach: gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("coach: create genai client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (g *Gemini) Name() string { return "gemini/" + g.model }

// Generate sends the conversation so far plus message to Gemini.
func (g *Gemini) Generate(ctx context.Context, lang locale.Language, history []Turn, message string) (Reply, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		buildContents(history, message),
		g.generateConfig(lang),
	)
	if err != nil {
		return Reply{}, fmt.Errorf("gemini generate: %w", err)
	}
	return Reply{
		Text:      resp.Text(),
		Citations: extractCitations(resp),
	}, nil
}

// generateConfig builds the per-request configuration for lang.
func (g *Gemini) generateConfig(lang locale.Language) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(lang), genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
}

// buildContents converts stored turns and the new message into the
// request contents, oldest first.
func buildContents(history []Turn, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

// extractCitations collects the web sources of the first candidate's
// grounding metadata. Chunks without a web source are skipped and repeated
// URIs are reported once.
func extractCitations(resp *genai.GenerateContentResponse) []Citation {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	var out []Citation
	seen := make(map[string]bool)
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		out = append(out, Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}
