package dto

import (
	"encoding/json"
	"time"
)

type QuestionResponse struct {
	Id          string          `json:"id"`
	Username    string          `json:"username"`
	Question    string          `json:"question"`
	Tags        []string        `json:"tags"`
	AgentSteps  json.RawMessage `json:"agent_steps,omitempty"`
	FinalAnswer string          `json:"final_answer"`
	UsedMCP     *string         `json:"used_mcp,omitempty"`
	WebSources  []string        `json:"web_sources,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StatsSummaryResponse struct {
	TotalQuestions int64            `json:"total_questions"`
	ByUser         map[string]int64 `json:"by_user"`
	ByTag          map[string]int64 `json:"by_tag"`
	MCPUsage       map[string]int64 `json:"mcp_usage"`
}
