package service

import (
	"fmt"
	"testing"

	"internportal/model"
	"internportal/ws"
)

func TestAssignClaimsCapacitySlot(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{}
	engine := NewEngine(db, pub)

	intern := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	mentor := seedMentor(t, db, "EMP001", 1)

	assignment, err := engine.Assign(intern.ID, mentor.ID, "")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !assignment.IsActive {
		t.Error("assignment should be active")
	}
	if assignment.Department != mentor.Department {
		t.Errorf("department = %q, want mentor's %q", assignment.Department, mentor.Department)
	}

	reloaded := getMentor(t, db, mentor.ID)
	if reloaded.CurrentInterns != 1 {
		t.Errorf("current_interns = %d, want 1", reloaded.CurrentInterns)
	}
	if reloaded.Availability != model.MentorBusy {
		t.Errorf("availability = %s, want BUSY at capacity", reloaded.Availability)
	}
	if got := getIntern(t, db, intern.ID).Status; got != model.InternActive {
		t.Errorf("intern status = %s, want ACTIVE", got)
	}

	updates := pub.all()
	if len(updates) != 1 {
		t.Fatalf("published %d updates, want 1", len(updates))
	}
	if updates[0].Type != ws.EventApplicationStatus || updates[0].Status != "ACTIVE" {
		t.Errorf("unexpected update %+v", updates[0])
	}
}

func TestAssignRejectsFullMentor(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	first := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	second := seedIntern(t, db, "IOCL-000002", model.InternApproved)
	mentor := seedMentor(t, db, "EMP001", 1)

	if _, err := engine.Assign(first.ID, mentor.ID, ""); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	_, err := engine.Assign(second.ID, mentor.ID, "")
	wantCode(t, err, CodeCapacityExceeded)

	if got := getMentor(t, db, mentor.ID).CurrentInterns; got != 1 {
		t.Errorf("current_interns = %d, want 1 after rejected assign", got)
	}
	// The rejected intern is untouched.
	if got := getIntern(t, db, second.ID).Status; got != model.InternApproved {
		t.Errorf("intern status = %s, want APPROVED", got)
	}
}

func TestAssignRequiresApprovedIntern(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternSubmitted)
	mentor := seedMentor(t, db, "EMP001", 3)

	_, err := engine.Assign(intern.ID, mentor.ID, "")
	wantCode(t, err, CodeValidation)

	if got := getMentor(t, db, mentor.ID).CurrentInterns; got != 0 {
		t.Errorf("current_interns = %d, want 0", got)
	}
}

func TestAssignRejectsSecondActiveAssignment(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	mentorA := seedMentor(t, db, "EMP001", 3)
	mentorB := seedMentor(t, db, "EMP002", 3)

	if _, err := engine.Assign(intern.ID, mentorA.ID, ""); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	// An active intern cannot be assigned again, to any mentor.
	var reactivated model.Intern
	if err := db.First(&reactivated, intern.ID).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&reactivated).Update("status", model.InternApproved).Error; err != nil {
		t.Fatal(err)
	}
	_, err := engine.Assign(intern.ID, mentorB.ID, "")
	wantCode(t, err, CodeConflict)

	if got := getMentor(t, db, mentorB.ID).CurrentInterns; got != 0 {
		t.Errorf("mentor B current_interns = %d, want 0", got)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	mentor := seedMentor(t, db, "EMP001", 1)

	assignment, err := engine.Assign(intern.ID, mentor.ID, "")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got := getMentor(t, db, mentor.ID).Availability; got != model.MentorBusy {
		t.Fatalf("availability = %s, want BUSY", got)
	}

	if err := engine.Release(assignment.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := engine.Release(assignment.ID); err != nil {
		t.Fatalf("second release: %v", err)
	}

	reloaded := getMentor(t, db, mentor.ID)
	if reloaded.CurrentInterns != 0 {
		t.Errorf("current_interns = %d, want 0 after double release", reloaded.CurrentInterns)
	}
	if reloaded.Availability != model.MentorAvailable {
		t.Errorf("availability = %s, want AVAILABLE with free slot", reloaded.Availability)
	}
}

func TestCompleteReleasesAssignment(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	mentor := seedMentor(t, db, "EMP001", 2)

	assignment, err := engine.Assign(intern.ID, mentor.ID, "")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := engine.Complete(intern.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if got := getIntern(t, db, intern.ID).Status; got != model.InternCompleted {
		t.Errorf("intern status = %s, want COMPLETED", got)
	}
	var reloaded model.Assignment
	if err := db.First(&reloaded, assignment.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.IsActive {
		t.Error("assignment should be inactive after completion")
	}
	if got := getMentor(t, db, mentor.ID).CurrentInterns; got != 0 {
		t.Errorf("current_interns = %d, want 0", got)
	}

	// Completing twice is rejected, not re-applied.
	err = engine.Complete(intern.ID)
	wantCode(t, err, CodeValidation)
}

func TestManualUnavailableIsSticky(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	mentor := seedMentor(t, db, "EMP001", 2)

	assignment, err := engine.Assign(intern.ID, mentor.ID, "")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := engine.SetAvailability(mentor.ID, model.MentorUnavailable); err != nil {
		t.Fatalf("set availability: %v", err)
	}

	// Freeing a slot never clears a manual override.
	if err := engine.Release(assignment.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := getMentor(t, db, mentor.ID).Availability; got != model.MentorUnavailable {
		t.Errorf("availability = %s, want sticky UNAVAILABLE", got)
	}

	// BUSY is derived and cannot be set by hand.
	_, err = engine.SetAvailability(mentor.ID, model.MentorBusy)
	wantCode(t, err, CodeValidation)
}

func TestCounterTracksActiveAssignments(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	mentor := seedMentor(t, db, "EMP001", 5)

	var assignments []*model.Assignment
	for i := 0; i < 4; i++ {
		intern := seedIntern(t, db, fmt.Sprintf("IOCL-%06d", i+1), model.InternApproved)
		a, err := engine.Assign(intern.ID, mentor.ID, "")
		if err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
		assignments = append(assignments, a)
	}
	if err := engine.Release(assignments[0].ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := engine.Release(assignments[2].ID); err != nil {
		t.Fatalf("release: %v", err)
	}

	var active int64
	if err := db.Model(&model.Assignment{}).
		Where("mentor_id = ? AND is_active = ?", mentor.ID, true).
		Count(&active).Error; err != nil {
		t.Fatal(err)
	}
	if got := getMentor(t, db, mentor.ID).CurrentInterns; int64(got) != active {
		t.Errorf("current_interns = %d, active assignments = %d", got, active)
	}
}

func TestAssignWithoutPublisherStillCommits(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternApproved)
	mentor := seedMentor(t, db, "EMP001", 3)

	if _, err := engine.Assign(intern.ID, mentor.ID, ""); err != nil {
		t.Fatalf("assign with nil publisher: %v", err)
	}
	if got := getIntern(t, db, intern.ID).Status; got != model.InternActive {
		t.Errorf("intern status = %s, want ACTIVE", got)
	}
}
