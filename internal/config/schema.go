package config

import (
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

// PlannerConfig represents the complete planner configuration
type PlannerConfig struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Agents     AgentsConfig     `yaml:"agents"`
	Places     PlacesConfig     `yaml:"places"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Response   ResponseConfig   `yaml:"response"`
}

// ClassifierConfig holds the ordered keyword table. Order matters: the first
// category with a matching keyword wins.
type ClassifierConfig struct {
	Categories []CategoryKeywords `yaml:"categories"`
}

type CategoryKeywords struct {
	Name     models.AgentCategory `yaml:"name"`
	Keywords []string             `yaml:"keywords"`
}

type AgentsConfig struct {
	Music StubAgentConfig `yaml:"music"`
	Food  StubAgentConfig `yaml:"food"`
}

type StubAgentConfig struct {
	Placeholder string `yaml:"placeholder"`
}

type PlacesConfig struct {
	BaseURL       string         `yaml:"base_url"`
	Concurrency   int            `yaml:"concurrency"`
	MaxCandidates int            `yaml:"max_candidates"`
	Timeout       time.Duration  `yaml:"timeout"`
	Location      *models.LatLng `yaml:"location"`
	RadiusMeters  int            `yaml:"radius_meters"`
	CacheTTL      time.Duration  `yaml:"cache_ttl"`
}

type EmptyPlacesMode string

const (
	EmptyPlacesShortCircuit EmptyPlacesMode = "short_circuit"
	EmptyPlacesGenerate     EmptyPlacesMode = "generate"
)

type PromptConfig struct {
	ModelID            string          `yaml:"model_id"`
	MaxTokens          int             `yaml:"max_tokens"`
	DefaultTemperature float64         `yaml:"default_temperature"`
	EmptyPlaces        EmptyPlacesMode `yaml:"empty_places"`
	NoPlacesMessage    string          `yaml:"no_places_message"`
	Template           string          `yaml:"template"`
}

type ResponseConfig struct {
	Preamble         string `yaml:"preamble"`
	IncludeRequestID bool   `yaml:"include_request_id"`
	TraceOutputLimit int    `yaml:"trace_output_limit"`
}
