package config

import (
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPlacesBaseURL   = "https://maps.googleapis.com/maps/api/place"
	DefaultModelID         = "meta-llama/Meta-Llama-3-70B-Instruct"
	DefaultMaxTokens       = 1024
	DefaultTemperature     = 0.7
	DefaultPreamble        = "Here are some fun activities you might enjoy:"
	DefaultNoPlacesMessage = "No places found. Please provide a valid location or preferences."
)

func LoadPlannerConfig() (*PlannerConfig, error) {
	path := os.Getenv("PLANNER_CONFIG_PATH")
	if path == "" {
		path = "configs/planner.yaml"
	}

	return LoadPlannerConfigFile(path)
}

func LoadPlannerConfigFile(path string) (*PlannerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PlannerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse planner config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no YAML file is present.
func Default() *PlannerConfig {
	var cfg PlannerConfig
	applyDefaults(&cfg)
	return &cfg
}

func defaultCategories() []CategoryKeywords {
	return []CategoryKeywords{
		{Name: models.AgentTravel, Keywords: []string{"trip", "vacation", "places", "tourist", "visit", "museum", "sightseeing"}},
		{Name: models.AgentMusic, Keywords: []string{"music", "concert", "song", "band", "playlist", "festival"}},
		{Name: models.AgentFood, Keywords: []string{"food", "restaurant", "eat", "dinner", "lunch", "brunch", "cuisine"}},
	}
}

func applyDefaults(cfg *PlannerConfig) {
	if len(cfg.Classifier.Categories) == 0 {
		cfg.Classifier.Categories = defaultCategories()
	}

	if cfg.Agents.Music.Placeholder == "" {
		cfg.Agents.Music.Placeholder = "Music recommendations are not available yet. Stay tuned!"
	}
	if cfg.Agents.Food.Placeholder == "" {
		cfg.Agents.Food.Placeholder = "Food recommendations are not available yet. Stay tuned!"
	}

	if cfg.Places.BaseURL == "" {
		cfg.Places.BaseURL = DefaultPlacesBaseURL
	}
	if cfg.Places.Concurrency == 0 {
		cfg.Places.Concurrency = 4
	}
	if cfg.Places.MaxCandidates == 0 {
		cfg.Places.MaxCandidates = 10
	}
	if cfg.Places.Timeout == 0 {
		cfg.Places.Timeout = 10 * time.Second
	}

	if cfg.Prompt.ModelID == "" {
		cfg.Prompt.ModelID = DefaultModelID
	}
	if cfg.Prompt.MaxTokens == 0 {
		cfg.Prompt.MaxTokens = DefaultMaxTokens
	}
	if cfg.Prompt.DefaultTemperature == 0 {
		cfg.Prompt.DefaultTemperature = DefaultTemperature
	}
	if cfg.Prompt.EmptyPlaces == "" {
		cfg.Prompt.EmptyPlaces = EmptyPlacesShortCircuit
	}
	if cfg.Prompt.NoPlacesMessage == "" {
		cfg.Prompt.NoPlacesMessage = DefaultNoPlacesMessage
	}

	if cfg.Response.Preamble == "" {
		cfg.Response.Preamble = DefaultPreamble
	}
	if cfg.Response.TraceOutputLimit == 0 {
		cfg.Response.TraceOutputLimit = 200
	}
}

func (c *PlannerConfig) Validate() error {
	seen := make(map[models.AgentCategory]bool)
	for _, category := range c.Classifier.Categories {
		switch category.Name {
		case models.AgentTravel, models.AgentMusic, models.AgentFood:
		default:
			return fmt.Errorf("unknown classifier category %q", category.Name)
		}
		if seen[category.Name] {
			return fmt.Errorf("classifier category %q declared twice", category.Name)
		}
		seen[category.Name] = true

		if len(category.Keywords) == 0 {
			return fmt.Errorf("classifier category %q has no keywords", category.Name)
		}
	}

	if c.Places.Concurrency < 1 {
		return fmt.Errorf("places concurrency must be at least 1, got %d", c.Places.Concurrency)
	}
	if c.Prompt.MaxTokens < 0 {
		return fmt.Errorf("prompt max_tokens must be positive, got %d", c.Prompt.MaxTokens)
	}
	if c.Prompt.DefaultTemperature < 0.0 || c.Prompt.DefaultTemperature > 1.0 {
		return fmt.Errorf("prompt default_temperature %f out of range [0.0, 1.0]", c.Prompt.DefaultTemperature)
	}
	switch c.Prompt.EmptyPlaces {
	case EmptyPlacesShortCircuit, EmptyPlacesGenerate:
	default:
		return fmt.Errorf("unknown prompt empty_places mode %q", c.Prompt.EmptyPlaces)
	}

	return nil
}
