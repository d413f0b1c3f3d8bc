package analytics

import (
	"context"
	"time"

	"devops-assistant-be/pkg/agent/state"
)

// TopicQuestionRecorded is the in-process topic the session loop publishes to.
const TopicQuestionRecorded = "QUESTION_RECORDED"

// Record captures everything worth keeping about one processed question.
type Record struct {
	Username    string       `json:"username"`
	Question    string       `json:"question"`
	AgentSteps  []state.Step `json:"agent_steps"`
	FinalAnswer string       `json:"final_answer"`
	UsedMCP     string       `json:"used_mcp,omitempty"`
	WebSources  []string     `json:"web_sources,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Recorder persists analytics records. Callers treat failures as non-fatal;
// a chat answer is never blocked on analytics.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}
