package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

const defaultMaxTokens = 1024

type Client struct {
	client  *anthropic.Client
	modelID string
}

func NewClient(apiKey string, modelID string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	options := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	client := anthropic.NewClient(options...)

	return &Client{
		client:  &client,
		modelID: modelID,
	}, nil
}

func (c *Client) Stream(ctx context.Context, request models.GenerationRequest) (llm.FragmentStream, error) {
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	stream := c.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(llm.ResolveModel(c.modelID, request)),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(request.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	})
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("failed to open message stream: %w", err)
	}

	return &eventStream{stream: stream}, nil
}

// eventStream yields text deltas and expects a message_stop event before EOF.
type eventStream struct {
	stream    *ssestream.Stream[anthropic.MessageStreamEventUnion]
	current   string
	stopped   bool
	exhausted bool
}

func (s *eventStream) Next() bool {
	for s.stream.Next() {
		switch event := s.stream.Current().AsAny().(type) {
		case anthropic.MessageStopEvent:
			s.stopped = true
		case anthropic.ContentBlockDeltaEvent:
			delta, ok := event.Delta.AsAny().(anthropic.TextDelta)
			if !ok || delta.Text == "" {
				continue
			}
			s.current = delta.Text
			return true
		}
	}
	s.exhausted = true
	return false
}

func (s *eventStream) Fragment() string {
	return s.current
}

func (s *eventStream) Err() error {
	if err := s.stream.Err(); err != nil {
		return err
	}
	if s.exhausted && !s.stopped {
		return llm.ErrIncompleteStream
	}
	return nil
}

func (s *eventStream) Close() error {
	return s.stream.Close()
}
