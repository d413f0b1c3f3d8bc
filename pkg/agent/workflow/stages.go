package workflow

import (
	"devops-assistant-be/pkg/agent/state"
)

// Stage is the closed set of workflow positions. Routing between stages is
// decided only by the predicates below, never by free-form strings.
type Stage int

const (
	StageStart Stage = iota
	StageValidating
	StageRejected
	StageNonTopic
	StageEvaluating
	StageGeneralBranch
	StageDebugBranch
	StageSynthesizing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageValidating:
		return "validating"
	case StageRejected:
		return "rejected"
	case StageNonTopic:
		return "non_topic"
	case StageEvaluating:
		return "evaluating"
	case StageGeneralBranch:
		return "general_branch"
	case StageDebugBranch:
		return "debug_branch"
	case StageSynthesizing:
		return "synthesizing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// StageAfterValidation routes a validated state: guardrail failures reject,
// off-topic queries divert, everything else proceeds to evaluation.
func StageAfterValidation(st *state.State) Stage {
	if !st.GuardrailPassed {
		return StageRejected
	}
	if !st.IsOnTopic {
		return StageNonTopic
	}
	return StageEvaluating
}

// StageAfterEvaluation picks the branch: debug-typed queries retrieve
// internal documentation first, general-typed queries go straight to
// synthesis.
func StageAfterEvaluation(st *state.State) Stage {
	if st.QueryType == state.QueryTypeDebug {
		return StageDebugBranch
	}
	return StageGeneralBranch
}
