package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

type placeLine struct {
	Name         string
	Address      string
	Rating       string
	Reviews      string
	PriceLevel   string
	OpeningHours string
}

type templateData struct {
	RequestID string
	Timestamp int64
	UserInput string
	Places    []placeLine
}

// Builder renders generation requests. It holds no per-request state, so the
// same inputs always produce the same prompt.
type Builder struct {
	tmpl    *template.Template
	modelID string
}

func NewBuilder(cfg config.PromptConfig) (*Builder, error) {
	text := cfg.Template
	if text == "" {
		text = DefaultTemplate
	}

	tmpl, err := template.New("planner").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &Builder{
		tmpl:    tmpl,
		modelID: cfg.ModelID,
	}, nil
}

func (b *Builder) Build(rc models.RequestContext, places []models.Place) (models.GenerationRequest, error) {
	data := templateData{
		RequestID: rc.RequestID,
		Timestamp: rc.Timestamp,
		UserInput: rc.UserInput,
		Places:    make([]placeLine, 0, len(places)),
	}

	for _, p := range places {
		name := p.Name
		if name == "" {
			name = models.NotAvailable
		}
		data.Places = append(data.Places, placeLine{
			Name:         name,
			Address:      p.AddressText(),
			Rating:       p.RatingText(),
			Reviews:      p.ReviewCountText(),
			PriceLevel:   p.PriceLevelText(),
			OpeningHours: p.OpeningHoursText(),
		})
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return models.GenerationRequest{}, fmt.Errorf("template execution failed: %w", err)
	}

	return models.GenerationRequest{
		Prompt:      buf.String(),
		ModelID:     b.modelID,
		MaxTokens:   rc.MaxTokens,
		Temperature: rc.Temperature,
		Stream:      true,
	}, nil
}
