// Package domain holds the campaign lifecycle state machine.
// Pure logic, no storage or transport concerns.
package domain

import "errors"

// Status is a campaign's operational state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusArchived  Status = "archived"
)

// Operation is a lifecycle action requested by a caller.
type Operation string

const (
	OpStart     Operation = "start"
	OpPause     Operation = "pause"
	OpResume    Operation = "resume"
	OpStop      Operation = "stop"
	OpArchive   Operation = "archive"
	OpUnarchive Operation = "unarchive"
)

var (
	// ErrInvalidTransition rejects an operation from a disallowed state.
	ErrInvalidTransition = errors.New("invalid campaign transition")
	// ErrUnknownOperation rejects an operation name outside the lifecycle.
	ErrUnknownOperation = errors.New("unknown campaign operation")
	// ErrNoPriorStatus rejects unarchive when no pre-archive state was recorded.
	ErrNoPriorStatus = errors.New("no status recorded before archiving")
)

// Type is the campaign's outreach channel.
type Type string

const (
	TypeEmail    Type = "email"
	TypePhoning  Type = "phoning"
	TypeSMS      Type = "sms"
	TypeWhatsApp Type = "whatsapp"
)

// IsKnownType reports whether t is a supported outreach channel.
func IsKnownType(t Type) bool {
	switch t {
	case TypeEmail, TypePhoning, TypeSMS, TypeWhatsApp:
		return true
	}
	return false
}

// IsKnownOperation reports whether op is a lifecycle operation.
func IsKnownOperation(op Operation) bool {
	switch op {
	case OpStart, OpPause, OpResume, OpStop, OpArchive, OpUnarchive:
		return true
	}
	return false
}

// allowed maps each operation to the states it may start from.
var allowed = map[Operation][]Status{
	OpStart:  {StatusDraft, StatusScheduled},
	OpPause:  {StatusActive},
	OpResume: {StatusPaused},
	OpStop:   {StatusActive, StatusPaused},
}

// destinations for the simple transitions above.
var destinations = map[Operation]Status{
	OpStart:  StatusActive,
	OpPause:  StatusPaused,
	OpResume: StatusActive,
	OpStop:   StatusStopped,
}

// Transition computes the next status for an operation. previous is the
// status held immediately before archiving and is only consulted by
// unarchive, which restores it. A stopped campaign stays stopped: no
// operation leads out of it except archive.
func Transition(current Status, previous *Status, op Operation) (Status, error) {
	switch op {
	case OpArchive:
		if current == StatusDraft || current == StatusArchived {
			return "", ErrInvalidTransition
		}
		return StatusArchived, nil
	case OpUnarchive:
		if current != StatusArchived {
			return "", ErrInvalidTransition
		}
		if previous == nil {
			return "", ErrNoPriorStatus
		}
		return *previous, nil
	case OpStart, OpPause, OpResume, OpStop:
		for _, from := range allowed[op] {
			if current == from {
				return destinations[op], nil
			}
		}
		return "", ErrInvalidTransition
	default:
		return "", ErrUnknownOperation
	}
}

// CanDelete reports whether a campaign in the given state may be deleted.
// Anything running must be stopped first.
func CanDelete(current Status) bool {
	return current == StatusDraft || current == StatusStopped
}
