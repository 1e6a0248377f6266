package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type Client struct {
	client  *genai.Client
	modelID string
}

func NewClient(ctx context.Context, apiKey string, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if modelID == "" {
		return nil, fmt.Errorf("Gemini model ID is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client:  client,
		modelID: modelID,
	}, nil
}

func (c *Client) Stream(ctx context.Context, request models.GenerationRequest) (llm.FragmentStream, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SetTemperature(float32(request.Temperature))
	if request.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(request.MaxTokens))
	}

	ctx, cancel := context.WithCancel(ctx)
	return &responseStream{
		iter:   model.GenerateContentStream(ctx, genai.Text(request.Prompt)),
		cancel: cancel,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

type responseIterator interface {
	Next() (*genai.GenerateContentResponse, error)
}

type responseStream struct {
	iter    responseIterator
	cancel  context.CancelFunc
	current string
	err     error
	done    bool
}

func (s *responseStream) Next() bool {
	for !s.done {
		resp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			s.done = true
			return false
		}
		if err != nil {
			s.err = err
			s.done = true
			return false
		}

		if text := responseText(resp); text != "" {
			s.current = text
			return true
		}
	}
	return false
}

func (s *responseStream) Fragment() string {
	return s.current
}

func (s *responseStream) Err() error {
	return s.err
}

// Close stops reading and cancels the streaming request. The iterator has no
// handle of its own to release.
func (s *responseStream) Close() error {
	s.done = true
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return sb.String()
}
