package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/ssestream"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

// DefaultBaseURL is the Hugging Face router, which serves open models behind
// an OpenAI compatible chat completions API.
const DefaultBaseURL = "https://router.huggingface.co/v1"

// Client streams chat completions from any OpenAI compatible endpoint.
type Client struct {
	client  *openai.Client
	modelID string
}

func NewClient(apiKey string, baseURL string, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &Client{
		client:  &c,
		modelID: modelID,
	}, nil
}

func (c *Client) Stream(ctx context.Context, request models.GenerationRequest) (llm.FragmentStream, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		Model:       openai.ChatModel(llm.ResolveModel(c.modelID, request)),
		Temperature: openai.Float(request.Temperature),
	}
	if request.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(request.MaxTokens))
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("unable to open chat completion stream: %w", err)
	}

	return &chunkStream{stream: stream}, nil
}

// chunkStream treats a non-empty finish_reason as the end of the completion.
type chunkStream struct {
	stream    *ssestream.Stream[openai.ChatCompletionChunk]
	current   string
	finished  bool
	exhausted bool
}

func (s *chunkStream) Next() bool {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			s.finished = true
		}
		if text := choice.Delta.Content; text != "" {
			s.current = text
			return true
		}
	}
	s.exhausted = true
	return false
}

func (s *chunkStream) Fragment() string {
	return s.current
}

func (s *chunkStream) Err() error {
	if err := s.stream.Err(); err != nil {
		return err
	}
	if s.exhausted && !s.finished {
		return llm.ErrIncompleteStream
	}
	return nil
}

func (s *chunkStream) Close() error {
	return s.stream.Close()
}
