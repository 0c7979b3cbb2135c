package domain

import "errors"

// Qualification outcomes a salesperson can report when resolving a follow-up.
const (
	OutcomeQualified       = "qualified"
	OutcomeHighlyQualified = "highly_qualified"
	OutcomeProposalSent    = "proposal_sent"
	OutcomeWon             = "won"
	OutcomeNeedsFollowUp   = "needs_follow_up"
	OutcomeNotInterested   = "not_interested"
	OutcomeOutOfScope      = "out_of_scope"
)

// StageUnchanged signals that an outcome leaves the pipeline stage alone.
const StageUnchanged = ""

// ErrUnknownOutcome rejects an outcome outside the enumerated set.
var ErrUnknownOutcome = errors.New("unknown qualification outcome")

// OutcomeEffect describes what resolving a follow-up with a given outcome
// does to the lead.
type OutcomeEffect struct {
	// Stage is the pipeline stage to set, or StageUnchanged.
	Stage string
	// RequiresNext means the outcome implies continued engagement and a
	// follow-up date must be supplied.
	RequiresNext bool
	// AcceptsDealValue means a deal value may be recorded with this outcome.
	AcceptsDealValue bool
}

// EffectForOutcome maps a qualification outcome to its pipeline effect.
func EffectForOutcome(outcome string) (OutcomeEffect, error) {
	switch outcome {
	case OutcomeQualified:
		return OutcomeEffect{Stage: "qualified"}, nil
	case OutcomeHighlyQualified:
		return OutcomeEffect{Stage: "highly_qualified"}, nil
	case OutcomeProposalSent:
		return OutcomeEffect{Stage: "proposal_sent", AcceptsDealValue: true}, nil
	case OutcomeWon:
		return OutcomeEffect{Stage: "won", AcceptsDealValue: true}, nil
	case OutcomeNeedsFollowUp:
		return OutcomeEffect{Stage: StageUnchanged, RequiresNext: true}, nil
	case OutcomeNotInterested, OutcomeOutOfScope:
		return OutcomeEffect{Stage: "out_of_scope"}, nil
	default:
		return OutcomeEffect{}, ErrUnknownOutcome
	}
}
