package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

const anthropicVersion = "bedrock-2023-05-31"

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// streamChunk is one Claude event inside a Bedrock chunk. Only
// content_block_delta events carry text; message_stop ends the completion.
type streamChunk struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

func (c *Client) Stream(ctx context.Context, request models.GenerationRequest) (llm.FragmentStream, error) {
	body, err := c.marshal(request)
	if err != nil {
		return nil, err
	}
	modelID := llm.ResolveModel(c.modelID, request)

	if !request.Stream {
		return c.invoke(ctx, modelID, body)
	}

	output, err := c.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke model stream: %w", err)
	}

	return &chunkStream{stream: output.GetStream()}, nil
}

func (c *Client) invoke(ctx context.Context, modelID string, body []byte) (llm.FragmentStream, error) {
	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke model: %w", err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	var fragments []string
	for _, block := range response.Content {
		if block.Type == "text" && block.Text != "" {
			fragments = append(fragments, block.Text)
		}
	}

	return llm.NewStaticStream(fragments...), nil
}

func (c *Client) marshal(request models.GenerationRequest) ([]byte, error) {
	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        request.MaxTokens,
		Temperature:      request.Temperature,
		Messages: []claudeMessage{
			{
				Role:    "user",
				Content: request.Prompt,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return body, nil
}

type eventStream interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

type chunkStream struct {
	stream    eventStream
	current   string
	err       error
	stopped   bool
	exhausted bool
}

func (s *chunkStream) Next() bool {
	if s.err != nil {
		return false
	}

	for event := range s.stream.Events() {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}

		var payload streamChunk
		if err := json.Unmarshal(chunk.Value.Bytes, &payload); err != nil {
			s.err = fmt.Errorf("failed to decode stream chunk: %w", err)
			return false
		}

		switch {
		case payload.Type == "message_stop":
			s.stopped = true
		case payload.Type == "content_block_delta" && payload.Delta.Text != "":
			s.current = payload.Delta.Text
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
	if s.err != nil {
		return s.err
	}
	if err := s.stream.Err(); err != nil {
		return err
	}
	if s.exhausted && !s.stopped {
		return llm.ErrIncompleteStream
	}
	return nil
}

func (s *chunkStream) Close() error {
	return s.stream.Close()
}
