package websocket

import (
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/agent/workflow"
)

// Frame types as they appear on the wire.
const (
	frameTypeConnection   = "connection"
	frameTypeAgentEvent   = "agent_event"
	frameTypeChatResponse = "chatresponse"
	frameTypeError        = "error"
)

const guardrailBlockedMessage = "Query blocked by guardrail"

// connectionFrame acknowledges a successful upgrade.
type connectionFrame struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	User      string `json:"user"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// agentEventFrame is one pipeline progress event tagged with its frame type.
type agentEventFrame struct {
	Type string `json:"type"`
	workflow.Event
}

// ChatResponse is the terminal frame, exactly one per processed message.
type ChatResponse struct {
	Type       string       `json:"type"`
	Answer     string       `json:"answer,omitempty"`
	Error      string       `json:"error,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	AgentSteps []state.Step `json:"agent_steps"`
	UsedMCP    string       `json:"used_mcp,omitempty"`
	UsedDocs   bool         `json:"used_docs"`
	WebSources []string     `json:"web_sources,omitempty"`
}

func buildChatResponse(st *state.State, res workflow.Result) ChatResponse {
	resp := ChatResponse{
		Type:       frameTypeChatResponse,
		AgentSteps: st.Steps,
		UsedMCP:    res.UsedTool,
		UsedDocs:   len(st.RetrievalResults) > 0,
	}
	for _, sr := range st.SearchResults {
		if sr.Link != "" {
			resp.WebSources = append(resp.WebSources, sr.Link)
		}
	}

	switch res.Outcome {
	case workflow.OutcomeRejected:
		resp.Error = guardrailBlockedMessage
		resp.Reason = st.GuardrailReason
	case workflow.OutcomeError:
		resp.Error = res.Err.Error()
	default:
		resp.Answer = st.FinalAnswer
	}
	return resp
}
