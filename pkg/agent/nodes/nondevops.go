package nodes

import (
	"devops-assistant-be/pkg/agent/state"
)

// RedirectMessage is the fixed answer for off-topic queries.
const RedirectMessage = "I can only answer DevOps-related queries. Please ask something related to deployment, infrastructure, CI/CD, or similar topics."

// NonDevOps is the terminal responder for queries the Validator marked
// off-topic. It never calls a model.
type NonDevOps struct{}

func NewNonDevOps() *NonDevOps {
	return &NonDevOps{}
}

func (n *NonDevOps) Respond(st *state.State) string {
	st.FinalAnswer = RedirectMessage
	st.AddStep(AgentNonDevOps, StepDone, nil)
	return RedirectMessage
}
