package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

type fakeIterator struct {
	responses []*genai.GenerateContentResponse
	err       error
}

func (f *fakeIterator) Next() (*genai.GenerateContentResponse, error) {
	if len(f.responses) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, iterator.Done
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestResponseStream(t *testing.T) {
	s := &responseStream{iter: &fakeIterator{responses: []*genai.GenerateContentResponse{
		textResponse("Here"),
		{},
		textResponse(" are", " ideas"),
	}}}

	var text string
	for s.Next() {
		text += s.Fragment()
	}

	if s.Err() != nil {
		t.Fatalf("Unexpected error: %v", s.Err())
	}
	if text != "Here are ideas" {
		t.Errorf("Expected 'Here are ideas', got %q", text)
	}
}

func TestResponseStream_Error(t *testing.T) {
	boom := errors.New("stream reset")
	s := &responseStream{iter: &fakeIterator{responses: []*genai.GenerateContentResponse{textResponse("Here")}, err: boom}}

	for s.Next() {
	}

	if !errors.Is(s.Err(), boom) {
		t.Errorf("Expected stream reset, got %v", s.Err())
	}
}

func TestResponseStream_Close(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &responseStream{
		iter:   &fakeIterator{responses: []*genai.GenerateContentResponse{textResponse("Here")}},
		cancel: cancel,
	}
	_ = s.Close()

	if s.Next() {
		t.Error("Expected no fragments after Close")
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("Expected Close to cancel the request context, got %v", ctx.Err())
	}
}
