package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/llm"
)

var guardTerms = []string{"attack", "bomb", "illegal", "hack"}

func newTestState(query string) *state.State {
	return state.New(query, "sess-1", state.User{Username: "alice", Role: "user"}, nil)
}

func TestValidatorGuardrailBlocks(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"plain term", "how do I hack the firewall"},
		{"uppercase term", "BOMB threat runbook"},
		{"term inside word", "best attacker detection"},
		{"mixed case", "is this IlLeGaL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedLLM{}
			v := NewValidator(provider, guardTerms, 6, nopLogger{})
			st := newTestState(tt.query)

			v.Validate(context.Background(), st)

			if st.GuardrailPassed {
				t.Error("GuardrailPassed = true, want blocked")
			}
			if st.GuardrailReason == "" {
				t.Error("GuardrailReason is empty")
			}
			if provider.calls() != 0 {
				t.Errorf("classifier called %d times on guardrail hit, want 0", provider.calls())
			}
			if len(st.Steps) != 1 || st.Steps[0].Agent != AgentValidator {
				t.Errorf("steps = %+v, want single Validator entry", st.Steps)
			}
		})
	}
}

func TestValidatorOnTopic(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantTopic bool
	}{
		{"yes", "YES", true},
		{"lowercase yes", "yes", true},
		{"yes with prose", "YES, this is about CI/CD.", true},
		{"no", "NO", false},
		{"no with prose", "No. This is a cooking question.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedLLM{replies: []scriptedReply{{text: tt.reply}}}
			v := NewValidator(provider, guardTerms, 6, nopLogger{})
			st := newTestState("how do I configure a deployment pipeline")

			v.Validate(context.Background(), st)

			if !st.GuardrailPassed {
				t.Fatal("GuardrailPassed = false, want true")
			}
			if st.IsOnTopic != tt.wantTopic {
				t.Errorf("IsOnTopic = %v, want %v", st.IsOnTopic, tt.wantTopic)
			}
		})
	}
}

func TestValidatorFailsClosed(t *testing.T) {
	provider := &scriptedLLM{replies: []scriptedReply{{err: errors.New("model unreachable")}}}
	v := NewValidator(provider, guardTerms, 6, nopLogger{})
	st := newTestState("how do I configure a deployment pipeline")

	v.Validate(context.Background(), st)

	if !st.GuardrailPassed {
		t.Error("GuardrailPassed = false, guardrail should have passed")
	}
	if st.IsOnTopic {
		t.Error("IsOnTopic = true after classifier failure, want fail-closed false")
	}
	if len(st.Steps) != 1 || st.Steps[0].Status != StepError {
		t.Errorf("steps = %+v, want one error entry", st.Steps)
	}
}

func TestValidatorPromptIncludesRecentHistory(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "old-message-1"},
		{Role: "assistant", Content: "old-answer-1"},
		{Role: "user", Content: "recent-q1"},
		{Role: "assistant", Content: "recent-a1"},
		{Role: "user", Content: "recent-q2"},
		{Role: "assistant", Content: "recent-a2"},
		{Role: "user", Content: "recent-q3"},
		{Role: "assistant", Content: "recent-a3"},
	}
	provider := &scriptedLLM{replies: []scriptedReply{{text: "YES"}}}
	v := NewValidator(provider, guardTerms, 6, nopLogger{})
	st := state.New("and how do I scale it?", "sess-1", state.User{Username: "alice"}, history)

	v.Validate(context.Background(), st)

	if provider.calls() != 1 {
		t.Fatalf("classifier called %d times, want 1", provider.calls())
	}
	prompt := provider.prompts[0]
	if !strings.Contains(prompt, "recent-q1") || !strings.Contains(prompt, "recent-a3") {
		t.Error("prompt missing entries from the 6-message window")
	}
	if strings.Contains(prompt, "old-message-1") {
		t.Error("prompt includes history older than the 6-message window")
	}
	if !strings.Contains(prompt, "and how do I scale it?") {
		t.Error("prompt missing the current query")
	}
}
