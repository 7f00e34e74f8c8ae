package service

import (
	"testing"
	"time"

	"internportal/model"
	"internportal/ws"

	"gorm.io/gorm"
)

var admin = Actor{UserID: 1, EmpID: "ADM001", Role: model.RoleAdmin}

func seedApplication(t *testing.T, db *gorm.DB, internID uint, status model.ApplicationStatus) *model.Application {
	t.Helper()
	application := &model.Application{InternID: internID, Status: status}
	if err := db.Create(application).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return application
}

func seedProject(t *testing.T, db *gorm.DB, internID, mentorID uint, status model.ProjectStatus) *model.Project {
	t.Helper()
	project := &model.Project{
		InternID:    internID,
		MentorID:    mentorID,
		Title:       "Pipeline Monitoring Dashboard",
		Status:      status,
		SubmittedAt: time.Now(),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func TestApplicationApprovalCascadesToIntern(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{}
	workflow := NewWorkflow(db, pub)

	intern := seedIntern(t, db, "IOCL-000001", model.InternSubmitted)
	application := seedApplication(t, db, intern.ID, model.ApplicationSubmitted)

	reviewed, err := workflow.TransitionApplication(application.ID, model.ApplicationApproved, admin, "Looks good")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reviewed.Status != model.ApplicationApproved {
		t.Errorf("status = %s, want APPROVED", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != admin.UserID {
		t.Error("reviewer should be stamped")
	}
	if reviewed.ReviewNotes != "Looks good" {
		t.Errorf("review_notes = %q", reviewed.ReviewNotes)
	}
	if got := getIntern(t, db, intern.ID).Status; got != model.InternApproved {
		t.Errorf("intern status = %s, want APPROVED", got)
	}

	updates := pub.all()
	if len(updates) != 1 || updates[0].Type != ws.EventApplicationStatus {
		t.Fatalf("unexpected updates %+v", updates)
	}
	if updates[0].Status != "APPROVED" {
		t.Errorf("update status = %s", updates[0].Status)
	}
}

func TestApplicationDirectRejectFromSubmitted(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflow(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternSubmitted)
	application := seedApplication(t, db, intern.ID, model.ApplicationSubmitted)

	// Review may skip UNDER_REVIEW entirely.
	reviewed, err := workflow.TransitionApplication(application.ID, model.ApplicationRejected, admin, "")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if reviewed.Status != model.ApplicationRejected {
		t.Errorf("status = %s, want REJECTED", reviewed.Status)
	}
	if got := getIntern(t, db, intern.ID).Status; got != model.InternRejected {
		t.Errorf("intern status = %s, want REJECTED", got)
	}
}

func TestApplicationTerminalStatesAreImmutable(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflow(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternSubmitted)
	application := seedApplication(t, db, intern.ID, model.ApplicationSubmitted)

	if _, err := workflow.TransitionApplication(application.ID, model.ApplicationApproved, admin, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := workflow.TransitionApplication(application.ID, model.ApplicationRejected, admin, "")
	wantCode(t, err, CodeInvalidTransition)

	// The decision and the cascade are untouched.
	var reloaded model.Application
	if err := db.First(&reloaded, application.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != model.ApplicationApproved {
		t.Errorf("status = %s, want APPROVED to stand", reloaded.Status)
	}
	if got := getIntern(t, db, intern.ID).Status; got != model.InternApproved {
		t.Errorf("intern status = %s, want APPROVED", got)
	}
}

func TestApplicationReviewRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflow(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternSubmitted)
	application := seedApplication(t, db, intern.ID, model.ApplicationSubmitted)

	mentorActor := Actor{UserID: 2, EmpID: "EMP001", Role: model.RoleMentor}
	_, err := workflow.TransitionApplication(application.ID, model.ApplicationApproved, mentorActor, "")
	wantCode(t, err, CodeForbidden)
}

func TestProjectApprovalStampsReviewedAt(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{}
	workflow := NewWorkflow(db, pub)

	intern := seedIntern(t, db, "IOCL-000001", model.InternActive)
	mentor := seedMentor(t, db, "EMP001", 3)
	project := seedProject(t, db, intern.ID, mentor.ID, model.ProjectSubmitted)

	mentorActor := Actor{UserID: 2, EmpID: mentor.EmpID, Role: model.RoleMentor}
	reviewed, err := workflow.TransitionProject(project.ID, model.ProjectApproved, mentorActor, "Solid work", "A")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reviewed.ReviewedAt == nil {
		t.Error("reviewed_at should be stamped on a terminal status")
	}
	if reviewed.Grade != "A" || reviewed.Feedback != "Solid work" {
		t.Errorf("grade = %q feedback = %q", reviewed.Grade, reviewed.Feedback)
	}

	updates := pub.all()
	if len(updates) != 1 || updates[0].Type != ws.EventProjectStatus {
		t.Fatalf("unexpected updates %+v", updates)
	}
	if updates[0].UserID != intern.InternID {
		t.Errorf("update userId = %s, want intern id %s", updates[0].UserID, intern.InternID)
	}
}

func TestProjectUnderReviewIsNotTerminal(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflow(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternActive)
	mentor := seedMentor(t, db, "EMP001", 3)
	project := seedProject(t, db, intern.ID, mentor.ID, model.ProjectSubmitted)

	moved, err := workflow.TransitionProject(project.ID, model.ProjectUnderReview, admin, "", "")
	if err != nil {
		t.Fatalf("move to review: %v", err)
	}
	if moved.ReviewedAt != nil {
		t.Error("reviewed_at must stay empty until a decision")
	}

	if _, err := workflow.TransitionProject(project.ID, model.ProjectRejected, admin, "Incomplete", ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	_, err = workflow.TransitionProject(project.ID, model.ProjectApproved, admin, "", "")
	wantCode(t, err, CodeInvalidTransition)
}

func TestProjectReviewRequiresOwningMentor(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflow(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternActive)
	owner := seedMentor(t, db, "EMP001", 3)
	other := seedMentor(t, db, "EMP002", 3)
	project := seedProject(t, db, intern.ID, owner.ID, model.ProjectSubmitted)

	otherActor := Actor{UserID: 3, EmpID: other.EmpID, Role: model.RoleMentor}
	_, err := workflow.TransitionProject(project.ID, model.ProjectApproved, otherActor, "", "")
	wantCode(t, err, CodeForbidden)
}

func TestTaskStatusOwnTaskOnly(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflow(db, nil)

	intern := seedIntern(t, db, "IOCL-000001", model.InternActive)
	other := seedIntern(t, db, "IOCL-000002", model.InternActive)
	mentor := seedMentor(t, db, "EMP001", 3)

	task := &model.Task{
		InternID: intern.ID,
		MentorID: mentor.ID,
		Title:    "Read the pipeline SCADA docs",
		Status:   model.TaskPending,
		Priority: model.PriorityMedium,
		DueDate:  time.Now().AddDate(0, 0, 7),
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatal(err)
	}

	ownActor := Actor{UserID: 4, EmpID: intern.InternID, Role: model.RoleIntern}
	moved, err := workflow.TransitionTask(task.ID, model.TaskInProgress, ownActor)
	if err != nil {
		t.Fatalf("own task: %v", err)
	}
	if moved.Status != model.TaskInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", moved.Status)
	}

	// Re-sending the current status is a no-op, not an error.
	if _, err := workflow.TransitionTask(task.ID, model.TaskInProgress, ownActor); err != nil {
		t.Fatalf("same-status update: %v", err)
	}

	otherActor := Actor{UserID: 5, EmpID: other.InternID, Role: model.RoleIntern}
	_, err = workflow.TransitionTask(task.ID, model.TaskCompleted, otherActor)
	wantCode(t, err, CodeForbidden)

	if _, err := workflow.TransitionTask(task.ID, model.TaskCompleted, ownActor); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, err = workflow.TransitionTask(task.ID, model.TaskPending, ownActor)
	wantCode(t, err, CodeInvalidTransition)
}
