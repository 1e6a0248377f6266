package models

import (
	"fmt"
	"strconv"
	"strings"
)

// NotAvailable is interpolated into the prompt for every missing place field
const NotAvailable = "N/A"

type AgentCategory string

const (
	AgentTravel  AgentCategory = "travel"
	AgentMusic   AgentCategory = "music"
	AgentFood    AgentCategory = "food"
	AgentDefault AgentCategory = "default"
)

// Handler is the category of the agent that serves c. Unclassified requests
// go to the travel agent.
func (c AgentCategory) Handler() AgentCategory {
	if c == AgentDefault {
		return AgentTravel
	}
	return c
}

type LatLng struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("%f,%f", l.Latitude, l.Longitude)
}

// PlaceQuery is the input of a place lookup. Location bias is applied only when
// both Location and RadiusMeters are set.
type PlaceQuery struct {
	Text         string
	Location     *LatLng
	RadiusMeters int
}

func (q PlaceQuery) HasLocationBias() bool {
	return q.Location != nil && q.RadiusMeters > 0
}

// Place is one enriched lookup result. Optional fields are nil when the
// upstream did not return them.
type Place struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  *int     `json:"review_count,omitempty"`
	PriceLevel   *int     `json:"price_level,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
}

func (p Place) AddressText() string {
	if strings.TrimSpace(p.Address) == "" {
		return NotAvailable
	}
	return p.Address
}

func (p Place) RatingText() string {
	if p.Rating == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*p.Rating, 'f', 1, 64)
}

func (p Place) ReviewCountText() string {
	if p.ReviewCount == nil {
		return NotAvailable
	}
	return strconv.Itoa(*p.ReviewCount)
}

func (p Place) PriceLevelText() string {
	if p.PriceLevel == nil {
		return NotAvailable
	}
	return strconv.Itoa(*p.PriceLevel)
}

func (p Place) OpeningHoursText() string {
	if len(p.OpeningHours) == 0 {
		return NotAvailable
	}
	return strings.Join(p.OpeningHours, "; ")
}

// RequestContext is created once per inbound request and flows unchanged
// through every stage.
type RequestContext struct {
	RequestID   string  `json:"request_id"`
	Timestamp   int64   `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	UserInput   string  `json:"user_input"`
}

type GenerationRequest struct {
	Prompt      string
	ModelID     string
	MaxTokens   int
	Temperature float64
	Stream      bool
}

type CompletionResult struct {
	Text  string         `json:"text"`
	Trace RequestContext `json:"trace"`
}

// AgentReply is what an agent hands back to the planner. Generated is false for
// stub and short-circuit replies, which are returned without the preamble.
type AgentReply struct {
	Category  AgentCategory
	Text      string
	Generated bool
}

// Input message

type PlanRequest struct {
	Message     string   `json:"message" description:"Free-form user request"`
	Timestamp   int64    `json:"timestamp,omitempty" description:"Epoch seconds (default: now)"`
	Temperature *float64 `json:"temperature,omitempty" description:"Sampling temperature 0.0-1.0 (default: 0.7)"`
	RequestID   string   `json:"request_id,omitempty" description:"Caller supplied request id (default: random UUID)"`
	MaxTokens   int      `json:"max_tokens,omitempty" description:"Output token budget (default: configured value)"`
}

func (r *PlanRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	if r.Temperature != nil && (*r.Temperature < 0.0 || *r.Temperature > 1.0) {
		return ErrInvalidTemperature
	}
	if r.MaxTokens < 0 || r.MaxTokens > 100000 {
		return ErrInvalidMaxTokens
	}
	if r.Timestamp < 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

type PlanResponse struct {
	RequestID   string        `json:"request_id" jsonschema:"request identifier used for tracing"`
	Timestamp   int64         `json:"timestamp" jsonschema:"request timestamp in epoch seconds"`
	Temperature float64       `json:"temperature" jsonschema:"sampling temperature used"`
	Agent       AgentCategory `json:"agent" jsonschema:"agent that handled the request"`
	Response    string        `json:"response" jsonschema:"formatted response text"`
}
