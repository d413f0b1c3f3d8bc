package workflow

import (
	"devops-assistant-be/pkg/agent/nodes"
)

// AgentWorkflow is the orchestrator's own name on the wire.
const AgentWorkflow = "Workflow"

// Event statuses as they appear on the wire.
const (
	StatusStarting = "starting"
	StatusComplete = "complete"
	StatusError    = "error"
)

// Event is one progress frame describing an agent transition.
type Event struct {
	Agent       string                 `json:"agent"`
	Status      string                 `json:"status"`
	Description string                 `json:"description,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	UsingMCP    *bool                  `json:"using_mcp,omitempty"`
}

// EventSink receives events in state-machine order. Implementations must not
// fail the run; delivery problems are theirs to swallow.
type EventSink interface {
	Emit(event Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

var agentDescriptions = map[string]string{
	AgentWorkflow:          "Orchestrating the agent pipeline",
	nodes.AgentValidator:   "Checking guardrails and topic relevance",
	nodes.AgentNonDevOps:   "Redirecting off-topic query",
	nodes.AgentEvaluator:   "Classifying and reframing the query",
	nodes.AgentRetriever:   "Searching internal documentation",
	nodes.AgentSynthesizer: "Composing the final answer",
}

// Describe returns the human-readable description for an agent name.
func Describe(agent string) string {
	return agentDescriptions[agent]
}
