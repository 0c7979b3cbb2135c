package domain

import (
	"errors"
	"testing"
)

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		op      Operation
		want    Status
		wantErr bool
	}{
		{"start from draft", StatusDraft, OpStart, StatusActive, false},
		{"start from scheduled", StatusScheduled, OpStart, StatusActive, false},
		{"start from active", StatusActive, OpStart, "", true},
		{"pause from active", StatusActive, OpPause, StatusPaused, false},
		{"pause from paused", StatusPaused, OpPause, "", true},
		{"resume from paused", StatusPaused, OpResume, StatusActive, false},
		{"resume from active", StatusActive, OpResume, "", true},
		{"stop from active", StatusActive, OpStop, StatusStopped, false},
		{"stop from paused", StatusPaused, OpStop, StatusStopped, false},
		{"stop from draft", StatusDraft, OpStop, "", true},
		{"archive from active", StatusActive, OpArchive, StatusArchived, false},
		{"archive from completed", StatusCompleted, OpArchive, StatusArchived, false},
		{"archive from stopped", StatusStopped, OpArchive, StatusArchived, false},
		{"archive from draft", StatusDraft, OpArchive, "", true},
		{"archive from archived", StatusArchived, OpArchive, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, nil, tt.op)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected invalid transition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTransition_StopIsIrreversible(t *testing.T) {
	for _, op := range []Operation{OpStart, OpPause, OpResume, OpStop} {
		if _, err := Transition(StatusStopped, nil, op); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected %s from stopped to be rejected, got %v", op, err)
		}
	}
}

func TestTransition_UnarchiveRestoresPriorStatus(t *testing.T) {
	prior := StatusStopped
	got, err := Transition(StatusArchived, &prior, OpUnarchive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusStopped {
		t.Fatalf("expected the pre-archive status back, got %s", got)
	}

	if _, err := Transition(StatusArchived, nil, OpUnarchive); !errors.Is(err, ErrNoPriorStatus) {
		t.Fatalf("expected missing prior status error, got %v", err)
	}

	if _, err := Transition(StatusActive, &prior, OpUnarchive); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected unarchive outside archived to be rejected, got %v", err)
	}
}

func TestTransition_UnknownOperation(t *testing.T) {
	if _, err := Transition(StatusActive, nil, Operation("restart")); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected unknown operation error, got %v", err)
	}
}

func TestCanDelete(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusDraft:    true,
		StatusStopped:  true,
		StatusActive:   false,
		StatusPaused:   false,
		StatusArchived: false,
	} {
		if got := CanDelete(status); got != want {
			t.Fatalf("CanDelete(%s) = %v, want %v", status, got, want)
		}
	}
}
