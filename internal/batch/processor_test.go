package batch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

type fakePlanner struct {
	mu       sync.Mutex
	inFlight int32
	maxSeen  int32
	delay    time.Duration
	fail     map[string]error
}

func (f *fakePlanner) Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if n > f.maxSeen {
		f.maxSeen = n
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if err := f.fail[req.Message]; err != nil {
		return models.PlanResponse{RequestID: "generated-" + req.Message}, err
	}
	return models.PlanResponse{RequestID: "id-" + req.Message, Agent: models.AgentTravel, Response: "plan for " + req.Message}, nil
}

func records(messages ...string) []InputRecord {
	out := make([]InputRecord, len(messages))
	for i, m := range messages {
		out[i] = InputRecord{LineNumber: i + 1, Request: models.PlanRequest{Message: m}}
	}
	return out
}

func collect(ch <-chan Result) []Result {
	var results []Result
	for r := range ch {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Line < results[j].Line })
	return results
}

func TestProcessor_AllRecordsPlanned(t *testing.T) {
	planner := &fakePlanner{}
	results := collect(NewProcessor(planner, 3, newTestLogger()).Process(context.Background(), records("a", "b", "c", "d")))

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Line != i+1 {
			t.Errorf("result %d has line %d", i, r.Line)
		}
		if r.Failed() {
			t.Errorf("line %d unexpectedly failed: %s", r.Line, r.Error)
		}
	}
	if results[1].Response != "plan for b" {
		t.Errorf("unexpected response: %q", results[1].Response)
	}
}

func TestProcessor_FailuresDoNotStopBatch(t *testing.T) {
	planner := &fakePlanner{fail: map[string]error{"b": errors.New("boom")}}
	p := NewProcessor(planner, 2, newTestLogger()).WithErrorMessage(func(error) string { return "rendered" })

	results := collect(p.Process(context.Background(), records("a", "b", "c")))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Error != "rendered" {
		t.Errorf("expected rendered error, got %q", results[1].Error)
	}
	if results[1].RequestID != "generated-b" {
		t.Errorf("failed result should keep the request id, got %q", results[1].RequestID)
	}
	if results[0].Failed() || results[2].Failed() {
		t.Error("other records should succeed")
	}
}

func TestProcessor_DecodeErrorsPassThrough(t *testing.T) {
	planner := &fakePlanner{}
	input := []InputRecord{
		{LineNumber: 1, Error: errors.New("line 1: bad json")},
		{LineNumber: 2, Request: models.PlanRequest{Message: "ok"}},
	}

	results := collect(NewProcessor(planner, 1, newTestLogger()).Process(context.Background(), input))

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != "line 1: bad json" {
		t.Errorf("expected decode error, got %q", results[0].Error)
	}
	if results[1].Failed() {
		t.Errorf("second record should succeed, got %q", results[1].Error)
	}
}

func TestProcessor_BoundedWorkers(t *testing.T) {
	planner := &fakePlanner{delay: 20 * time.Millisecond}
	results := collect(NewProcessor(planner, 2, newTestLogger()).Process(context.Background(), records("a", "b", "c", "d", "e", "f")))

	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	if planner.maxSeen > 2 {
		t.Errorf("expected at most 2 concurrent plans, saw %d", planner.maxSeen)
	}
}

func TestProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collect(NewProcessor(&fakePlanner{}, 2, newTestLogger()).Process(ctx, records("a", "b", "c")))
	if len(results) != 0 {
		t.Errorf("expected no results after cancellation, got %d", len(results))
	}
}
