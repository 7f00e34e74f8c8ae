package service

import (
	"errors"
	"fmt"
	"time"

	"internportal/logutils"
	"internportal/model"
	"internportal/ws"

	"gorm.io/gorm"
)

// Engine assigns interns to mentors under capacity constraints and keeps the
// mentor's current_interns counter equal to the count of active assignments.
// Every mutation runs inside a single transaction.
type Engine struct {
	db  *gorm.DB
	pub ws.Publisher
}

func NewEngine(db *gorm.DB, pub ws.Publisher) *Engine {
	return &Engine{db: db, pub: pub}
}

// Assign links an approved intern to a mentor with spare capacity.
// Preconditions are checked in order and the first failure wins: intern
// approved, mentor exists, no active assignment, capacity left. The capacity
// claim is a conditional update so two racing calls cannot both take the
// last slot.
func (e *Engine) Assign(internID, mentorID uint, department string) (*model.Assignment, error) {
	var assignment model.Assignment
	var intern model.Intern

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&intern, internID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Intern not found")
			}
			return Internal(err)
		}
		if intern.Status != model.InternApproved {
			return NewError(CodeValidation, "Intern must be approved before mentor assignment")
		}

		var mentor model.Mentor
		if err := tx.First(&mentor, mentorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Mentor not found")
			}
			return Internal(err)
		}

		var active int64
		if err := tx.Model(&model.Assignment{}).
			Where("intern_id = ? AND is_active = ?", internID, true).
			Count(&active).Error; err != nil {
			return Internal(err)
		}
		if active > 0 {
			return NewError(CodeConflict, "Intern already has an active mentor assignment")
		}

		// Conditional claim on the capacity slot. Zero rows affected means
		// the mentor is full, possibly because a concurrent assign won.
		res := tx.Model(&model.Mentor{}).
			Where("id = ? AND current_interns < max_capacity", mentorID).
			UpdateColumn("current_interns", gorm.Expr("current_interns + 1"))
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return NewError(CodeCapacityExceeded, "Mentor has reached maximum capacity")
		}

		if department == "" {
			department = mentor.Department
		}
		assignment = model.Assignment{
			InternID:   internID,
			MentorID:   mentorID,
			Department: department,
			AssignedAt: time.Now(),
			IsActive:   true,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return Internal(err)
		}

		if err := tx.Model(&model.Intern{}).Where("id = ?", internID).
			Update("status", model.InternActive).Error; err != nil {
			return Internal(err)
		}

		return refreshAvailability(tx, mentorID)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ws.StatusUpdate{
		Type:   ws.EventApplicationStatus,
		ID:     intern.ID,
		Status: string(model.InternActive),
		UserID: internUserID(&intern),
	})

	logutils.Log.WithFields(logutils.Fields{
		"intern_id": internID,
		"mentor_id": mentorID,
	}).Info("Mentor assigned")

	return &assignment, nil
}

// Release deactivates an assignment and gives the capacity slot back. An
// already-inactive assignment is a no-op, so double release never drives the
// counter negative. The intern's status is left to the caller.
func (e *Engine) Release(assignmentID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var assignment model.Assignment
		if err := tx.First(&assignment, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Assignment not found")
			}
			return Internal(err)
		}

		res := tx.Model(&model.Assignment{}).
			Where("id = ? AND is_active = ?", assignmentID, true).
			Update("is_active", false)
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			// Already released.
			return nil
		}

		if err := tx.Model(&model.Mentor{}).
			Where("id = ? AND current_interns > 0", assignment.MentorID).
			UpdateColumn("current_interns", gorm.Expr("current_interns - 1")).Error; err != nil {
			return Internal(err)
		}

		return refreshAvailability(tx, assignment.MentorID)
	})
}

// Complete marks an active intern as completed and releases their mentor
// assignment in the same transaction.
func (e *Engine) Complete(internID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var intern model.Intern
		if err := tx.First(&intern, internID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Intern not found")
			}
			return Internal(err)
		}
		if intern.Status != model.InternActive {
			return NewError(CodeValidation, "Only active interns can be completed")
		}

		if err := tx.Model(&model.Intern{}).Where("id = ?", internID).
			Update("status", model.InternCompleted).Error; err != nil {
			return Internal(err)
		}

		var assignment model.Assignment
		err := tx.Where("intern_id = ? AND is_active = ?", internID, true).
			First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return Internal(err)
		}

		if err := tx.Model(&model.Assignment{}).Where("id = ?", assignment.ID).
			Update("is_active", false).Error; err != nil {
			return Internal(err)
		}
		if err := tx.Model(&model.Mentor{}).
			Where("id = ? AND current_interns > 0", assignment.MentorID).
			UpdateColumn("current_interns", gorm.Expr("current_interns - 1")).Error; err != nil {
			return Internal(err)
		}

		return refreshAvailability(tx, assignment.MentorID)
	})
}

// SetAvailability applies a manual availability override. BUSY is derived
// from capacity and cannot be set by hand; an UNAVAILABLE override is sticky
// until the admin clears it.
func (e *Engine) SetAvailability(mentorID uint, availability model.Availability) (*model.Mentor, error) {
	if availability != model.MentorAvailable && availability != model.MentorUnavailable {
		return nil, NewError(CodeValidation, "Availability must be AVAILABLE or UNAVAILABLE")
	}

	var mentor model.Mentor
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&mentor, mentorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "Mentor not found")
			}
			return Internal(err)
		}

		if err := tx.Model(&model.Mentor{}).Where("id = ?", mentorID).
			Update("availability", availability).Error; err != nil {
			return Internal(err)
		}
		if err := refreshAvailability(tx, mentorID); err != nil {
			return err
		}
		return tx.First(&mentor, mentorID).Error
	})
	if err != nil {
		return nil, err
	}
	return &mentor, nil
}

// refreshAvailability recomputes the derived availability after a counter
// change: at capacity always reads BUSY; dropping under capacity flips BUSY
// back to AVAILABLE but never touches a manual UNAVAILABLE.
func refreshAvailability(tx *gorm.DB, mentorID uint) error {
	var mentor model.Mentor
	if err := tx.First(&mentor, mentorID).Error; err != nil {
		return Internal(err)
	}

	next := mentor.Availability
	if mentor.CurrentInterns >= mentor.MaxCapacity {
		next = model.MentorBusy
	} else if mentor.Availability == model.MentorBusy {
		next = model.MentorAvailable
	}

	if next == mentor.Availability {
		return nil
	}
	if err := tx.Model(&model.Mentor{}).Where("id = ?", mentorID).
		Update("availability", next).Error; err != nil {
		return Internal(err)
	}
	return nil
}

func (e *Engine) publish(update ws.StatusUpdate) {
	if e.pub == nil {
		return
	}
	e.pub.Publish(update)
}

func internUserID(intern *model.Intern) string {
	if intern.UserID == nil {
		return ""
	}
	return fmt.Sprint(*intern.UserID)
}
