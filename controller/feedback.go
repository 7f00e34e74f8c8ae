package controller

import (
	"errors"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FeedbackRequest struct {
	InternID      uint   `json:"intern_id"`
	Rating        int    `json:"rating"`
	Communication int    `json:"communication"`
	Technical     int    `json:"technical"`
	Teamwork      int    `json:"teamwork"`
	Initiative    int    `json:"initiative"`
	Comments      string `json:"comments"`
}

func (r *FeedbackRequest) validateRatings() string {
	ratings := map[string]int{
		"rating":        r.Rating,
		"communication": r.Communication,
		"technical":     r.Technical,
		"teamwork":      r.Teamwork,
		"initiative":    r.Initiative,
	}
	for name, v := range ratings {
		if v < 1 || v > 10 {
			return "Rating '" + name + "' must be between 1 and 10"
		}
	}
	return ""
}

// CreateFeedback records mentor feedback. The mentor must hold the intern's
// active assignment.
func CreateFeedback(c *fiber.Ctx) error {
	req := new(FeedbackRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.InternID == 0 {
		return badRequest(c, "Intern is required")
	}
	if msg := req.validateRatings(); msg != "" {
		return badRequest(c, msg)
	}
	if len(req.Comments) < 10 {
		return badRequest(c, "Comments must be at least 10 characters")
	}

	actor := actorFromCtx(c)
	mentorID, err := resolveMentorID(actor, req.InternID)
	if err != nil {
		return svcError(c, err)
	}

	var assignment model.Assignment
	err = middleware.DBConn.
		Where("intern_id = ? AND mentor_id = ? AND is_active = ?", req.InternID, mentorID, true).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return forbidden(c)
	} else if err != nil {
		return dbError(c, err)
	}

	feedback := model.Feedback{
		InternID:      req.InternID,
		MentorID:      mentorID,
		Rating:        req.Rating,
		Communication: req.Communication,
		Technical:     req.Technical,
		Teamwork:      req.Teamwork,
		Initiative:    req.Initiative,
		Comments:      req.Comments,
	}
	if err := middleware.DBConn.Create(&feedback).Error; err != nil {
		return dbError(c, err)
	}

	if err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(&feedback, feedback.ID).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(feedback, "Feedback submitted successfully"))
}

func GetAllFeedback(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := middleware.DBConn.Model(&model.Feedback{}).
		Preload("Intern").
		Preload("Mentor")

	if internID := c.Query("intern_id"); internID != "" {
		query = query.Where("intern_id = ?", internID)
	}

	if actor.IsMentor() {
		var mentor model.Mentor
		if err := middleware.DBConn.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err == nil {
			query = query.Where("mentor_id = ?", mentor.ID)
		}
	}
	if actor.IsIntern() {
		var intern model.Intern
		if err := middleware.DBConn.Where("intern_id = ?", actor.EmpID).First(&intern).Error; err == nil {
			query = query.Where("intern_id = ?", intern.ID)
		}
	}

	var feedback []model.Feedback
	if err := query.Order("created_at DESC").Find(&feedback).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(feedback, ""))
}

// EditFeedback is restricted to the authoring mentor or an admin; feedback
// is otherwise immutable.
func EditFeedback(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var feedback model.Feedback
	err := middleware.DBConn.Preload("Mentor").First(&feedback, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Feedback not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if !actor.IsAdmin() {
		if !actor.IsMentor() || feedback.Mentor.EmpID != actor.EmpID {
			return forbidden(c)
		}
	}

	req := new(FeedbackRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if msg := req.validateRatings(); msg != "" {
		return badRequest(c, msg)
	}

	updates := map[string]any{
		"rating":        req.Rating,
		"communication": req.Communication,
		"technical":     req.Technical,
		"teamwork":      req.Teamwork,
		"initiative":    req.Initiative,
	}
	if req.Comments != "" {
		updates["comments"] = req.Comments
	}

	if err := middleware.DBConn.Model(&feedback).Updates(updates).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(feedback, "Feedback updated successfully"))
}
