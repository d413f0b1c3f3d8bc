package state

import (
	"devops-assistant-be/pkg/llm"
	"devops-assistant-be/pkg/mcp"
	"devops-assistant-be/pkg/search"
)

// QueryType is the closed set of classifications the Evaluator can produce.
type QueryType int

const (
	QueryTypeUnset QueryType = iota
	QueryTypeGeneral
	QueryTypeDebug
)

func (t QueryType) String() string {
	switch t {
	case QueryTypeGeneral:
		return "general"
	case QueryTypeDebug:
		return "debug"
	default:
		return "unset"
	}
}

// User identifies the authenticated owner of a chat session.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Step is one append-only audit entry describing what an agent did.
type Step struct {
	Agent  string                 `json:"agent"`
	Status string                 `json:"status"`
	Detail map[string]interface{} `json:"detail,omitempty"`
}

// State is the working record for a single user message. Each message gets a
// fresh State; only ChatHistory carries over between messages, by value.
type State struct {
	Query     string
	SessionID string
	User      User

	GuardrailPassed bool
	GuardrailReason string
	IsOnTopic       bool
	QueryType       QueryType

	// ReframedQuery is never empty after evaluation; it falls back to Query.
	ReframedQuery string
	Reasoning     string

	ChatHistory []llm.Message

	RetrievalResults []search.Result
	SearchResults    []mcp.SearchResult

	FinalAnswer string

	Steps []Step
}

// New builds a fresh State for one message. The history slice is copied so
// later pipeline stages never observe appends made by the session loop.
func New(query, sessionID string, user User, history []llm.Message) *State {
	copied := make([]llm.Message, len(history))
	copy(copied, history)

	return &State{
		Query:       query,
		SessionID:   sessionID,
		User:        user,
		ChatHistory: copied,
		Steps:       make([]Step, 0, 6),
	}
}

func (s *State) AddStep(agent, status string, detail map[string]interface{}) {
	s.Steps = append(s.Steps, Step{
		Agent:  agent,
		Status: status,
		Detail: detail,
	})
}

// EffectiveQuery returns the reframed query when present, else the original.
func (s *State) EffectiveQuery() string {
	if s.ReframedQuery != "" {
		return s.ReframedQuery
	}
	return s.Query
}

// RecentHistory returns the last n history entries (oldest first).
func (s *State) RecentHistory(n int) []llm.Message {
	if n <= 0 || len(s.ChatHistory) == 0 {
		return nil
	}
	if len(s.ChatHistory) <= n {
		return s.ChatHistory
	}
	return s.ChatHistory[len(s.ChatHistory)-n:]
}
