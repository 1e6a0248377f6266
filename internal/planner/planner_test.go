package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/planner/mocks"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func ptr[T any](v T) *T {
	return &v
}

type plannerMocks struct {
	classifier *mocks.MockClassifier
	dispatcher *mocks.MockDispatcher
	formatter  *mocks.MockFormatter
	tracer     *mocks.MockTracer
}

func newPlanner(t *testing.T) (*Planner, plannerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := plannerMocks{
		classifier: mocks.NewMockClassifier(ctrl),
		dispatcher: mocks.NewMockDispatcher(ctrl),
		formatter:  mocks.NewMockFormatter(ctrl),
		tracer:     mocks.NewMockTracer(ctrl),
	}

	p := New(m.classifier, m.dispatcher, m.formatter, m.tracer, config.Default().Prompt, newTestLogger())
	p.now = func() time.Time { return time.Unix(1718000000, 0) }
	return p, m
}

func TestPlan_GeneratedReplyIsFormattedAndTraced(t *testing.T) {
	p, m := newPlanner(t)

	req := models.PlanRequest{
		Message:     "I want to visit a museum",
		RequestID:   "req-1",
		Timestamp:   1718000000,
		Temperature: ptr(0.3),
		MaxTokens:   512,
	}
	rc := models.RequestContext{
		RequestID:   "req-1",
		Timestamp:   1718000000,
		Temperature: 0.3,
		MaxTokens:   512,
		UserInput:   "I want to visit a museum",
	}

	gomock.InOrder(
		m.classifier.EXPECT().Classify("I want to visit a museum").Return(models.AgentTravel),
		m.dispatcher.EXPECT().Dispatch(gomock.Any(), models.AgentTravel, rc, gomock.Any()).
			Return(models.AgentReply{Category: models.AgentTravel, Text: "Stop 1: Cafe X", Generated: true}, nil),
		m.formatter.EXPECT().Format(rc, "Stop 1: Cafe X").Return("preamble\n\nStop 1: Cafe X"),
		m.tracer.EXPECT().Trace(rc, models.AgentTravel, "preamble\n\nStop 1: Cafe X"),
	)

	resp, err := p.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if resp.RequestID != "req-1" || resp.Timestamp != 1718000000 || resp.Temperature != 0.3 {
		t.Errorf("Unexpected trace metadata %+v", resp)
	}
	if resp.Agent != models.AgentTravel || resp.Response != "preamble\n\nStop 1: Cafe X" {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestPlan_StubReplyIsNotFormatted(t *testing.T) {
	p, m := newPlanner(t)

	m.classifier.EXPECT().Classify(gomock.Any()).Return(models.AgentMusic)
	m.dispatcher.EXPECT().Dispatch(gomock.Any(), models.AgentMusic, gomock.Any(), gomock.Any()).
		Return(models.AgentReply{Category: models.AgentMusic, Text: "soon"}, nil)
	m.formatter.EXPECT().Format(gomock.Any(), gomock.Any()).Times(0)
	m.tracer.EXPECT().Trace(gomock.Any(), models.AgentMusic, "soon")

	resp, err := p.Plan(context.Background(), models.PlanRequest{Message: "concert tonight"})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if resp.Response != "soon" {
		t.Errorf("Expected placeholder untouched, got %q", resp.Response)
	}
}

func TestPlan_DispatchErrorPropagates(t *testing.T) {
	p, m := newPlanner(t)
	lookupErr := &models.LookupError{Status: 403, Body: `{"error_message":"key invalid"}`}

	m.classifier.EXPECT().Classify(gomock.Any()).Return(models.AgentDefault)
	m.dispatcher.EXPECT().Dispatch(gomock.Any(), models.AgentDefault, gomock.Any(), gomock.Any()).
		Return(models.AgentReply{}, lookupErr)
	m.tracer.EXPECT().Trace(gomock.Any(), models.AgentTravel, UserMessage(lookupErr))

	resp, err := p.Plan(context.Background(), models.PlanRequest{Message: "hello", RequestID: "req-9"})

	if !errors.Is(err, lookupErr) {
		t.Errorf("Expected lookup error unchanged, got %v", err)
	}
	if resp.RequestID != "req-9" {
		t.Errorf("Expected request id on error response, got %q", resp.RequestID)
	}
}

func TestPlan_DispatchErrorKeepsExplicitCategory(t *testing.T) {
	p, m := newPlanner(t)
	boom := errors.New("agent unavailable")

	m.classifier.EXPECT().Classify(gomock.Any()).Return(models.AgentFood)
	m.dispatcher.EXPECT().Dispatch(gomock.Any(), models.AgentFood, gomock.Any(), gomock.Any()).
		Return(models.AgentReply{}, boom)
	m.tracer.EXPECT().Trace(gomock.Any(), models.AgentFood, UserMessage(boom))

	if _, err := p.Plan(context.Background(), models.PlanRequest{Message: "dinner"}); !errors.Is(err, boom) {
		t.Errorf("Expected agent error, got %v", err)
	}
}

func TestPlan_InvalidRequest(t *testing.T) {
	p, _ := newPlanner(t)

	_, err := p.Plan(context.Background(), models.PlanRequest{Message: ""})
	if !errors.Is(err, models.ErrEmptyMessage) {
		t.Errorf("Expected ErrEmptyMessage, got %v", err)
	}
}

func TestPlanStream_ForwardsCallback(t *testing.T) {
	p, m := newPlanner(t)

	var forwarded []string
	onFragment := func(f string) error {
		forwarded = append(forwarded, f)
		return nil
	}

	m.classifier.EXPECT().Classify(gomock.Any()).Return(models.AgentTravel)
	m.dispatcher.EXPECT().Dispatch(gomock.Any(), models.AgentTravel, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, category models.AgentCategory, rc models.RequestContext, cb completion.FragmentFunc) (models.AgentReply, error) {
			_ = cb("Here")
			_ = cb(" are")
			return models.AgentReply{Category: models.AgentTravel, Text: "Here are", Generated: true}, nil
		})
	m.formatter.EXPECT().Format(gomock.Any(), "Here are").Return("formatted")
	m.tracer.EXPECT().Trace(gomock.Any(), gomock.Any(), gomock.Any())

	if _, err := p.PlanStream(context.Background(), models.PlanRequest{Message: "trip"}, onFragment); err != nil {
		t.Fatalf("PlanStream failed: %v", err)
	}
	if strings.Join(forwarded, "") != "Here are" {
		t.Errorf("Expected fragments forwarded, got %v", forwarded)
	}
}

func TestRequestContext_Defaults(t *testing.T) {
	p, _ := newPlanner(t)

	rc := p.RequestContext(models.PlanRequest{Message: "trip"})

	if _, err := uuid.Parse(rc.RequestID); err != nil {
		t.Errorf("Expected UUID request id, got %q", rc.RequestID)
	}
	if rc.Timestamp != 1718000000 {
		t.Errorf("Expected clock timestamp, got %d", rc.Timestamp)
	}
	if rc.Temperature != config.DefaultTemperature {
		t.Errorf("Expected default temperature, got %f", rc.Temperature)
	}
	if rc.MaxTokens != config.DefaultMaxTokens {
		t.Errorf("Expected default max tokens, got %d", rc.MaxTokens)
	}

	other := p.RequestContext(models.PlanRequest{Message: "trip"})
	if other.RequestID == rc.RequestID {
		t.Error("Expected unique request ids")
	}
}

func TestRequestContext_ZeroTemperatureIsKept(t *testing.T) {
	p, _ := newPlanner(t)

	rc := p.RequestContext(models.PlanRequest{Message: "trip", Temperature: ptr(0.0)})
	if rc.Temperature != 0.0 {
		t.Errorf("Expected explicit zero temperature, got %f", rc.Temperature)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: models.ErrEmptyMessage, want: "Invalid request: message cannot be empty."},
		{name: "lookup", err: &models.LookupError{Status: 500, Body: "stack trace"}, want: "We couldn't look up places right now. Please try again later."},
		{name: "generation", err: &models.GenerationError{Reason: "empty completion"}, want: "We couldn't generate a plan right now. Please try again later."},
		{name: "cancelled lookup", err: &models.LookupError{Err: context.Canceled}, want: "The request was cancelled before a plan was ready."},
		{name: "unknown", err: errors.New("provider said: secret"), want: "Something went wrong while planning your day. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
