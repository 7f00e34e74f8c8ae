package service

import (
	"errors"
	"time"

	"internportal/logutils"
	"internportal/model"
	"internportal/ws"

	"gorm.io/gorm"
)

// Workflow validates and applies status transitions for applications,
// projects and tasks, cascading side effects to related records inside the
// same transaction. Notification fan-out happens after commit and is
// best-effort: a delivery failure never rolls anything back.
type Workflow struct {
	db  *gorm.DB
	pub ws.Publisher
}

func NewWorkflow(db *gorm.DB, pub ws.Publisher) *Workflow {
	return &Workflow{db: db, pub: pub}
}

// TransitionApplication moves an application to a new status, stamping the
// reviewer and optional notes. Approval or rejection mirrors onto the
// intern's status in the same transaction and is terminal.
func (w *Workflow) TransitionApplication(applicationID uint, next model.ApplicationStatus, actor Actor, notes string) (*model.Application, error) {
	if !actor.IsAdmin() {
		return nil, NewError(CodeForbidden, "Only admins can review applications")
	}
	if !next.Valid() {
		return nil, NewError(CodeValidation, "Unknown application status")
	}

	var application model.Application
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Intern").First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Application not found")
			}
			return Internal(err)
		}

		if !application.Status.CanTransitionTo(next) {
			if application.Status.Terminal() {
				return NewError(CodeInvalidTransition, "Application has already been reviewed")
			}
			return NewError(CodeInvalidTransition, "Illegal application status transition")
		}

		updates := map[string]any{
			"status":       next,
			"reviewed_by":  actor.UserID,
			"review_notes": notes,
		}
		if err := tx.Model(&model.Application{}).Where("id = ?", applicationID).
			Updates(updates).Error; err != nil {
			return Internal(err)
		}

		// Intern status tracks the application in lockstep for terminal
		// outcomes.
		switch next {
		case model.ApplicationApproved:
			if err := tx.Model(&model.Intern{}).Where("id = ?", application.InternID).
				Update("status", model.InternApproved).Error; err != nil {
				return Internal(err)
			}
		case model.ApplicationRejected:
			if err := tx.Model(&model.Intern{}).Where("id = ?", application.InternID).
				Update("status", model.InternRejected).Error; err != nil {
				return Internal(err)
			}
		case model.ApplicationUnderReview:
			if err := tx.Model(&model.Intern{}).Where("id = ?", application.InternID).
				Update("status", model.InternUnderReview).Error; err != nil {
				return Internal(err)
			}
		}

		return tx.Preload("Intern").First(&application, applicationID).Error
	})
	if err != nil {
		return nil, err
	}

	w.publish(ws.StatusUpdate{
		Type:   ws.EventApplicationStatus,
		ID:     application.ID,
		Status: string(next),
		UserID: internUserID(&application.Intern),
	})

	logutils.Log.WithFields(logutils.Fields{
		"application_id": applicationID,
		"status":         next,
		"reviewed_by":    actor.UserID,
	}).Info("Application reviewed")

	return &application, nil
}

// TransitionProject moves a project submission through review. Entering a
// terminal status stamps reviewed_at. A grade is stored on any outcome; it
// only carries display meaning on approval.
func (w *Workflow) TransitionProject(projectID uint, next model.ProjectStatus, actor Actor, feedback, grade string) (*model.Project, error) {
	if !next.Valid() {
		return nil, NewError(CodeValidation, "Unknown project status")
	}

	var project model.Project
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Intern").First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Project not found")
			}
			return Internal(err)
		}

		if err := w.authorizeMentorOrAdmin(tx, actor, project.MentorID); err != nil {
			return err
		}

		if !project.Status.CanTransitionTo(next) {
			if project.Status.Terminal() {
				return NewError(CodeInvalidTransition, "Project has already been reviewed")
			}
			return NewError(CodeInvalidTransition, "Illegal project status transition")
		}

		updates := map[string]any{"status": next}
		if feedback != "" {
			updates["feedback"] = feedback
		}
		if grade != "" {
			updates["grade"] = grade
		}
		if next.Terminal() {
			updates["reviewed_at"] = time.Now()
		}
		if err := tx.Model(&model.Project{}).Where("id = ?", projectID).
			Updates(updates).Error; err != nil {
			return Internal(err)
		}

		return tx.Preload("Intern").First(&project, projectID).Error
	})
	if err != nil {
		return nil, err
	}

	w.publish(ws.StatusUpdate{
		Type:   ws.EventProjectStatus,
		ID:     project.ID,
		Status: string(next),
		UserID: project.Intern.InternID,
	})

	logutils.Log.WithFields(logutils.Fields{
		"project_id": projectID,
		"status":     next,
	}).Info("Project reviewed")

	return &project, nil
}

// TransitionTask updates a task's status. Mentors and admins may move any
// task they own; interns may move only their own tasks.
func (w *Workflow) TransitionTask(taskID uint, next model.TaskStatus, actor Actor) (*model.Task, error) {
	if !next.Valid() {
		return nil, NewError(CodeValidation, "Unknown task status")
	}

	var task model.Task
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Intern").First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Task not found")
			}
			return Internal(err)
		}

		if actor.IsIntern() {
			if task.Intern.InternID != actor.EmpID {
				return NewError(CodeForbidden, "Access denied")
			}
		} else if err := w.authorizeMentorOrAdmin(tx, actor, task.MentorID); err != nil {
			return err
		}

		if task.Status != next && !task.Status.CanTransitionTo(next) {
			return NewError(CodeInvalidTransition, "Illegal task status transition")
		}

		if err := tx.Model(&model.Task{}).Where("id = ?", taskID).
			Update("status", next).Error; err != nil {
			return Internal(err)
		}

		return tx.Preload("Intern").First(&task, taskID).Error
	})
	if err != nil {
		return nil, err
	}

	w.publish(ws.StatusUpdate{
		Type:   ws.EventTaskStatus,
		ID:     task.ID,
		Status: string(next),
		UserID: task.Intern.InternID,
	})

	return &task, nil
}

// authorizeMentorOrAdmin passes admins through and requires mentors to own
// the record. Everyone else is rejected.
func (w *Workflow) authorizeMentorOrAdmin(tx *gorm.DB, actor Actor, mentorID uint) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsMentor() {
		return NewError(CodeForbidden, "Access denied")
	}

	var mentor model.Mentor
	if err := tx.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeForbidden, "Mentor record not found")
		}
		return Internal(err)
	}
	if mentor.ID != mentorID {
		return NewError(CodeForbidden, "Access denied")
	}
	return nil
}

func (w *Workflow) publish(update ws.StatusUpdate) {
	if w.pub == nil {
		return
	}
	w.pub.Publish(update)
}
