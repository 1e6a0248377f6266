package api

import (
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

// ChatRequest is the body the chat page posts.
type ChatRequest struct {
	Message string `json:"message" description:"Free-form user request"`
}

type ChatResponse struct {
	Response string `json:"response" description:"Formatted plan or a short error explanation"`
}

type SSEEvent struct {
	Event string `json:"-"`
	Data  any    `json:"-"`
}

type StreamStartEvent struct {
	RequestID string `json:"request_id"`
}

type StreamChunkEvent struct {
	Text string `json:"text"`
}

type StreamDoneEvent struct {
	Agent    models.AgentCategory `json:"agent"`
	Response string               `json:"response"`
}

type StreamErrorEvent struct {
	Error string `json:"error"`
}

func (e SSEEvent) Format() (string, error) {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, string(jsonData)), nil
}
