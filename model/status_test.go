package model

import "testing"

func TestApplicationTransitions(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		ok       bool
	}{
		{ApplicationSubmitted, ApplicationUnderReview, true},
		{ApplicationSubmitted, ApplicationApproved, true},
		{ApplicationSubmitted, ApplicationRejected, true},
		{ApplicationUnderReview, ApplicationApproved, true},
		{ApplicationUnderReview, ApplicationRejected, true},
		{ApplicationUnderReview, ApplicationSubmitted, false},
		{ApplicationApproved, ApplicationRejected, false},
		{ApplicationApproved, ApplicationUnderReview, false},
		{ApplicationRejected, ApplicationApproved, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestApplicationTerminal(t *testing.T) {
	if ApplicationSubmitted.Terminal() || ApplicationUnderReview.Terminal() {
		t.Error("pending statuses must not be terminal")
	}
	if !ApplicationApproved.Terminal() || !ApplicationRejected.Terminal() {
		t.Error("decisions must be terminal")
	}
}

func TestProjectTransitions(t *testing.T) {
	if !ProjectSubmitted.CanTransitionTo(ProjectRejected) {
		t.Error("direct rejection from SUBMITTED must be allowed")
	}
	if ProjectApproved.CanTransitionTo(ProjectUnderReview) {
		t.Error("terminal project statuses must be immutable")
	}
	if ProjectRejected.CanTransitionTo(ProjectApproved) {
		t.Error("a rejected project cannot be approved afterwards")
	}
}

func TestTaskTransitions(t *testing.T) {
	if !TaskPending.CanTransitionTo(TaskInProgress) || !TaskInProgress.CanTransitionTo(TaskPending) {
		t.Error("tasks may move back and forth before completion")
	}
	if TaskCompleted.CanTransitionTo(TaskPending) || TaskCompleted.CanTransitionTo(TaskInProgress) {
		t.Error("completed tasks are immutable")
	}
}

func TestStatusValidity(t *testing.T) {
	if ApplicationStatus("BOGUS").Valid() {
		t.Error("unknown application status must be invalid")
	}
	if TaskStatus("BOGUS").Valid() {
		t.Error("unknown task status must be invalid")
	}
	if !Availability("BUSY").Valid() {
		t.Error("BUSY is a known availability")
	}
	if TaskPriority("URGENT").Valid() {
		t.Error("unknown priority must be invalid")
	}
}
