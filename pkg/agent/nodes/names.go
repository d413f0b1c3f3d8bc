package nodes

// Agent names as they appear in steps and on the wire.
const (
	AgentValidator   = "Validator"
	AgentNonDevOps   = "NonDevOpsAgent"
	AgentEvaluator   = "Evaluator"
	AgentRetriever   = "RetrieverAgent"
	AgentSynthesizer = "Synthesizer"
)

// Step statuses recorded in the audit log.
const (
	StepDone  = "done"
	StepError = "error"
)
