package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/ftva-etl/internal/providers"
)

// LLM asks a language model to label entities. Only entities whose text
// occurs verbatim in the input are returned.
type LLM struct {
	provider    providers.Provider
	model       string
	temperature float64
}

// NewLLM returns a recognizer backed by provider.
func NewLLM(provider providers.Provider, model string) *LLM {
	return &LLM{provider: provider, model: model}
}

// WithTemperature sets the sampling temperature sent with each prompt.
func (l *LLM) WithTemperature(temperature float64) *LLM {
	l.temperature = temperature
	return l
}

// Recognize implements Recognizer.
func (l *LLM) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []Entity{}, nil
	}

	response, err := l.provider.ExtractText(ctx, providers.Config{
		Model:       l.model,
		Temperature: l.temperature,
		Prompt:      buildPrompt(text),
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("entity recognition failed: %w", err)
	}

	entities, err := parseEntities(response)
	if err != nil {
		return nil, err
	}

	kept := []Entity{}
	for _, e := range entities {
		e.Text = strings.TrimSpace(e.Text)
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		if e.Text == "" || !strings.Contains(text, e.Text) {
			slog.Debug("Dropping entity not present in input", "entity", e.Text)
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}

func buildPrompt(text string) string {
	return `You label named entities in film credit statements from library catalog records.

Return only a JSON object of the form:
{"entities": [{"text": "<exact span from the input>", "label": "PERSON"}]}

Rules:
- Use the label PERSON for names of individual people, ORG for companies and institutions, MISC otherwise.
- Copy each span exactly as written in the input. Do not expand initials or fix spelling.
- List entities in the order they appear.
- If there are no entities return {"entities": []}.

Input:
` + text
}

// parseEntities accepts either {"entities": [...]} or a bare array, with or
// without a markdown code fence around it.
func parseEntities(response string) ([]Entity, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "[") {
		var entities []Entity
		if err := json.Unmarshal([]byte(response), &entities); err != nil {
			return nil, fmt.Errorf("failed to parse entity list: %w", err)
		}
		return entities, nil
	}

	var wrapped struct {
		Entities []Entity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(response), &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}
	return wrapped.Entities, nil
}
