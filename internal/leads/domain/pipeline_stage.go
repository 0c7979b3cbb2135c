// Package domain provides core business rules for the leads bounded context.
package domain

const (
	// StageUnchanged is a sentinel indicating that a derivation function
	// intentionally does not prescribe a pipeline stage. The caller must
	// substitute the lead's current stage.
	StageUnchanged = ""

	StageColdCall        = "cold_call"
	StageQualified       = "qualified"
	StageHighlyQualified = "highly_qualified"
	StageProposalSent    = "proposal_sent"
	StageWon             = "won"
	StageOutOfScope      = "out_of_scope"
)

var knownPipelineStages = map[string]struct{}{
	StageColdCall:        {},
	StageQualified:       {},
	StageHighlyQualified: {},
	StageProposalSent:    {},
	StageWon:             {},
	StageOutOfScope:      {},
}

func IsKnownPipelineStage(stage string) bool {
	_, ok := knownPipelineStages[stage]
	return ok
}

// terminalPipelineStages are stages where the lead's journey is over.
var terminalPipelineStages = map[string]bool{
	StageWon:        true,
	StageOutOfScope: true,
}

// IsTerminalStage returns true if no further qualification is expected.
func IsTerminalStage(stage string) bool {
	return terminalPipelineStages[stage]
}
