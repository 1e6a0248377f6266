package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

type fakeClient struct {
	stream  *llm.StaticStream
	err     error
	request models.GenerationRequest
}

func (f *fakeClient) Stream(ctx context.Context, request models.GenerationRequest) (llm.FragmentStream, error) {
	f.request = request
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func newAggregator(client llm.StreamingClient) *Aggregator {
	logger := zerolog.Nop()
	return NewAggregator(client, &logger)
}

func TestComplete_ConcatenatesInOrder(t *testing.T) {
	client := &fakeClient{stream: llm.NewStaticStream("Here", " are", " ideas")}
	agg := newAggregator(client)

	text, err := agg.Complete(context.Background(), models.GenerationRequest{Prompt: "p", ModelID: "m"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if text != "Here are ideas" {
		t.Errorf("Expected 'Here are ideas', got %q", text)
	}
	if !client.stream.Closed() {
		t.Error("Expected stream to be closed")
	}
	if client.request.ModelID != "m" {
		t.Errorf("Expected request to be forwarded, got %+v", client.request)
	}
}

func TestComplete_ZeroFragments(t *testing.T) {
	client := &fakeClient{stream: llm.NewStaticStream()}
	agg := newAggregator(client)

	text, err := agg.Complete(context.Background(), models.GenerationRequest{})

	var genErr *models.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected GenerationError, got %v", err)
	}
	if !errors.Is(err, models.ErrNoFragments) {
		t.Errorf("Expected ErrNoFragments, got %v", err)
	}
	if text != "" {
		t.Errorf("Expected no text, got %q", text)
	}
	if !client.stream.Closed() {
		t.Error("Expected stream to be closed")
	}
}

func TestComplete_MidStreamFailure(t *testing.T) {
	reset := errors.New("connection reset")
	client := &fakeClient{stream: llm.NewStaticStream("Here", " are").FailAfter(reset)}
	agg := newAggregator(client)

	text, err := agg.Complete(context.Background(), models.GenerationRequest{})

	var genErr *models.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected GenerationError, got %v", err)
	}
	if !errors.Is(err, reset) {
		t.Errorf("Expected cause to be wrapped, got %v", err)
	}
	if text != "" {
		t.Errorf("Expected no partial text, got %q", text)
	}
	if !client.stream.Closed() {
		t.Error("Expected stream to be closed")
	}
}

func TestComplete_OpenFailure(t *testing.T) {
	agg := newAggregator(&fakeClient{err: errors.New("unauthorized")})

	_, err := agg.Complete(context.Background(), models.GenerationRequest{})

	var genErr *models.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected GenerationError, got %v", err)
	}
}

func TestComplete_Cancelled(t *testing.T) {
	client := &fakeClient{stream: llm.NewStaticStream("Here")}
	agg := newAggregator(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Complete(ctx, models.GenerationRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if !client.stream.Closed() {
		t.Error("Expected stream to be closed")
	}
}

func TestCompleteWithCallback(t *testing.T) {
	client := &fakeClient{stream: llm.NewStaticStream("Here", " are", " ideas")}
	agg := newAggregator(client)

	var seen []string
	text, err := agg.CompleteWithCallback(context.Background(), models.GenerationRequest{}, func(fragment string) error {
		seen = append(seen, fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("CompleteWithCallback failed: %v", err)
	}

	if len(seen) != 3 || seen[2] != " ideas" {
		t.Errorf("Expected every fragment to reach the callback, got %v", seen)
	}
	if text != "Here are ideas" {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestCompleteWithCallback_CallbackError(t *testing.T) {
	client := &fakeClient{stream: llm.NewStaticStream("Here", " are")}
	agg := newAggregator(client)

	gone := errors.New("client gone")
	_, err := agg.CompleteWithCallback(context.Background(), models.GenerationRequest{}, func(string) error {
		return gone
	})

	if !errors.Is(err, gone) {
		t.Errorf("Expected callback error, got %v", err)
	}
	if !client.stream.Closed() {
		t.Error("Expected stream to be closed")
	}
}
