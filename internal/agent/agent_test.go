package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/prompt"
	"github.com/rs/zerolog"
)

type fakePlaces struct {
	places []models.Place
	err    error
	query  models.PlaceQuery
	calls  int
}

func (f *fakePlaces) Search(ctx context.Context, query models.PlaceQuery) ([]models.Place, error) {
	f.calls++
	f.query = query
	return f.places, f.err
}

type fakeCompleter struct {
	fragments []string
	err       error
	request   models.GenerationRequest
	calls     int
}

func (f *fakeCompleter) CompleteWithCallback(ctx context.Context, request models.GenerationRequest, onFragment completion.FragmentFunc) (string, error) {
	f.calls++
	f.request = request
	if f.err != nil {
		return "", f.err
	}
	for _, fragment := range f.fragments {
		if onFragment != nil {
			if err := onFragment(fragment); err != nil {
				return "", err
			}
		}
	}
	return strings.Join(f.fragments, ""), nil
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func ptr[T any](v T) *T {
	return &v
}

func newTravelAgent(t *testing.T, places *fakePlaces, completer *fakeCompleter, mutate func(*config.PlannerConfig)) *TravelAgent {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	builder, err := prompt.NewBuilder(cfg.Prompt)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	return NewTravelAgent(places, builder, completer, cfg.Places, cfg.Prompt, nopLogger())
}

func requestContext(input string) models.RequestContext {
	return models.RequestContext{
		RequestID:   "req-1",
		Timestamp:   1718000000,
		Temperature: 0.7,
		MaxTokens:   1024,
		UserInput:   input,
	}
}

func TestTravelAgent_FullPath(t *testing.T) {
	places := &fakePlaces{places: []models.Place{
		{Name: "Museum A", Rating: ptr(4.5), OpeningHours: []string{"9:00 AM – 5:00 PM"}},
		{Name: "Museum B", Rating: ptr(4.2), OpeningHours: []string{"10:00 AM – 6:00 PM"}},
	}}
	completer := &fakeCompleter{fragments: []string{"Stop 1: ", "**Museum A**"}}
	agent := newTravelAgent(t, places, completer, nil)

	var streamed []string
	reply, err := agent.Handle(context.Background(), requestContext("I want to visit a museum and a vacation"), func(f string) error {
		streamed = append(streamed, f)
		return nil
	})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if !reply.Generated || reply.Category != models.AgentTravel {
		t.Errorf("Unexpected reply %+v", reply)
	}
	if reply.Text != "Stop 1: **Museum A**" {
		t.Errorf("Unexpected text %q", reply.Text)
	}
	if len(streamed) != 2 {
		t.Errorf("Expected fragments to be forwarded, got %v", streamed)
	}

	if places.query.Text != "I want to visit a museum and a vacation" {
		t.Errorf("Expected raw input as query, got %q", places.query.Text)
	}
	if places.query.HasLocationBias() {
		t.Error("Expected global search without configured location")
	}

	for _, want := range []string{"req-1", "1718000000", "Place: Museum A", "Rating: 4.5", "Place: Museum B", "Rating: 4.2", "10:00 AM – 6:00 PM"} {
		if !strings.Contains(completer.request.Prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestTravelAgent_LocationBiasFromConfig(t *testing.T) {
	places := &fakePlaces{places: []models.Place{{Name: "Museum A"}}}
	agent := newTravelAgent(t, places, &fakeCompleter{fragments: []string{"ok"}}, func(cfg *config.PlannerConfig) {
		cfg.Places.Location = &models.LatLng{Latitude: 40.7, Longitude: -74.0}
		cfg.Places.RadiusMeters = 5000
	})

	if _, err := agent.Handle(context.Background(), requestContext("museum"), nil); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if !places.query.HasLocationBias() || places.query.RadiusMeters != 5000 {
		t.Errorf("Expected location bias, got %+v", places.query)
	}
}

func TestTravelAgent_NoPlaces_ShortCircuit(t *testing.T) {
	completer := &fakeCompleter{fragments: []string{"unused"}}
	agent := newTravelAgent(t, &fakePlaces{places: []models.Place{}}, completer, nil)

	reply, err := agent.Handle(context.Background(), requestContext("museum"), nil)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if reply.Generated {
		t.Error("Expected non generated reply")
	}
	if reply.Text != config.DefaultNoPlacesMessage {
		t.Errorf("Expected no places message, got %q", reply.Text)
	}
	if completer.calls != 0 {
		t.Error("Expected no completion call")
	}
}

func TestTravelAgent_NoPlaces_Generate(t *testing.T) {
	completer := &fakeCompleter{fragments: []string{"From general knowledge"}}
	agent := newTravelAgent(t, &fakePlaces{}, completer, func(cfg *config.PlannerConfig) {
		cfg.Prompt.EmptyPlaces = config.EmptyPlacesGenerate
	})

	reply, err := agent.Handle(context.Background(), requestContext("museum"), nil)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if !reply.Generated || completer.calls != 1 {
		t.Errorf("Expected generated reply, got %+v", reply)
	}
	if !strings.Contains(completer.request.Prompt, "general knowledge") {
		t.Error("Expected general knowledge prompt")
	}
}

func TestTravelAgent_LookupErrorPropagates(t *testing.T) {
	lookupErr := &models.LookupError{Status: 500, Body: "boom"}
	completer := &fakeCompleter{}
	agent := newTravelAgent(t, &fakePlaces{err: lookupErr}, completer, nil)

	_, err := agent.Handle(context.Background(), requestContext("museum"), nil)

	if !errors.Is(err, lookupErr) {
		t.Errorf("Expected lookup error unchanged, got %v", err)
	}
	if completer.calls != 0 {
		t.Error("Expected no completion call after lookup failure")
	}
}

func TestTravelAgent_GenerationErrorPropagates(t *testing.T) {
	genErr := &models.GenerationError{Reason: "stream terminated abnormally"}
	agent := newTravelAgent(t, &fakePlaces{places: []models.Place{{Name: "A"}}}, &fakeCompleter{err: genErr}, nil)

	_, err := agent.Handle(context.Background(), requestContext("museum"), nil)

	if !errors.Is(err, genErr) {
		t.Errorf("Expected generation error unchanged, got %v", err)
	}
}

func TestStubAgents(t *testing.T) {
	tests := []struct {
		agent    Agent
		category models.AgentCategory
		text     string
	}{
		{agent: NewMusicAgent("music soon"), category: models.AgentMusic, text: "music soon"},
		{agent: NewFoodAgent("food soon"), category: models.AgentFood, text: "food soon"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			reply, err := tt.agent.Handle(context.Background(), requestContext("x"), nil)
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if reply.Category != tt.category || reply.Text != tt.text || reply.Generated {
				t.Errorf("Unexpected reply %+v", reply)
			}
		})
	}
}

type recordingAgent struct {
	category models.AgentCategory
	calls    int
	err      error
}

func (r *recordingAgent) Category() models.AgentCategory { return r.category }

func (r *recordingAgent) Handle(ctx context.Context, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error) {
	r.calls++
	return models.AgentReply{Category: r.category, Text: string(r.category)}, r.err
}

func TestDispatcher_Routes(t *testing.T) {
	travel := &recordingAgent{category: models.AgentTravel}
	music := &recordingAgent{category: models.AgentMusic}
	food := &recordingAgent{category: models.AgentFood}

	d, err := NewDispatcher(nopLogger(), travel, music, food)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}

	tests := []struct {
		category models.AgentCategory
		want     *recordingAgent
	}{
		{category: models.AgentTravel, want: travel},
		{category: models.AgentMusic, want: music},
		{category: models.AgentFood, want: food},
		{category: models.AgentDefault, want: travel},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			before := tt.want.calls
			reply, err := d.Dispatch(context.Background(), tt.category, requestContext("x"), nil)
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}
			if tt.want.calls != before+1 {
				t.Errorf("Expected %s agent to be called", tt.want.category)
			}
			if reply.Category != tt.want.category {
				t.Errorf("Expected reply from %s, got %s", tt.want.category, reply.Category)
			}
		})
	}
}

func TestDispatcher_ErrorsPropagateWithoutFallback(t *testing.T) {
	boom := errors.New("boom")
	travel := &recordingAgent{category: models.AgentTravel, err: boom}
	music := &recordingAgent{category: models.AgentMusic}

	d, err := NewDispatcher(nopLogger(), travel, music)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}

	if _, err := d.Dispatch(context.Background(), models.AgentDefault, requestContext("x"), nil); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if music.calls != 0 {
		t.Error("Expected no fallback agent")
	}
}

func TestNewDispatcher_Validation(t *testing.T) {
	if _, err := NewDispatcher(nopLogger(), NewMusicAgent("m")); err == nil {
		t.Error("Expected error without travel agent")
	}

	travel := &recordingAgent{category: models.AgentTravel}
	if _, err := NewDispatcher(nopLogger(), travel, travel); err == nil {
		t.Error("Expected error for duplicate category")
	}

	d, err := NewDispatcher(nopLogger(), travel)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}
	if _, err := d.Dispatch(context.Background(), models.AgentFood, requestContext("x"), nil); err == nil {
		t.Error("Expected error for unregistered category")
	}
}
