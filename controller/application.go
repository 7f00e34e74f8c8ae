package controller

import (
	"errors"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"
	"internportal/notify"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetAllApplications(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := middleware.DBConn.Model(&model.Application{}).
		Preload("Intern").
		Preload("Reviewer")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if department := c.Query("department"); department != "" {
		query = query.Where("intern_id IN (?)",
			middleware.DBConn.Model(&model.Intern{}).Select("id").
				Where("department = ?", department))
	}

	// Employees only see applications for interns they referred.
	if actor.Role == model.RoleEmployee {
		query = query.Where("intern_id IN (?)",
			middleware.DBConn.Model(&model.Intern{}).Select("id").
				Where("referred_by_emp_id = ?", actor.EmpID))
	}

	var applications []model.Application
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(applications, ""))
}

func GetApplication(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var application model.Application
	err := middleware.DBConn.Preload("Intern").Preload("Reviewer").
		First(&application, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Application not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.Role == model.RoleEmployee && application.Intern.ReferredByEmpID != actor.EmpID {
		return forbidden(c)
	}
	if actor.IsIntern() && application.Intern.InternID != actor.EmpID {
		return forbidden(c)
	}

	return c.JSON(response.OK(application, ""))
}

func GetPendingApplications(c *fiber.Ctx) error {
	var applications []model.Application
	err := middleware.DBConn.Preload("Intern").
		Where("status = ?", model.ApplicationSubmitted).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(applications, ""))
}

func GetApplicationByIntern(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var application model.Application
	err := middleware.DBConn.Preload("Intern").Preload("Reviewer").
		Joins("JOIN interns ON interns.id = applications.intern_id").
		Where("interns.intern_id = ?", c.Params("internId")).
		First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Application not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsIntern() && application.Intern.InternID != actor.EmpID {
		return forbidden(c)
	}

	return c.JSON(response.OK(application, ""))
}

// ReviewApplication runs the status workflow and, on a decision, notifies
// the intern by email and push. Both are best-effort and never fail the
// review.
func ReviewApplication(c *fiber.Ctx) error {
	type ReviewRequest struct {
		Status      model.ApplicationStatus `json:"status"`
		ReviewNotes string                  `json:"review_notes"`
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid application id")
	}

	req := new(ReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := actorFromCtx(c)
	application, err := workflow().TransitionApplication(uint(id), req.Status, actor, req.ReviewNotes)
	if err != nil {
		return svcError(c, err)
	}

	if req.Status == model.ApplicationApproved || req.Status == model.ApplicationRejected {
		intern := application.Intern
		go func() {
			_ = notify.SendApplicationDecision(intern.Email, intern.Name, req.Status, req.ReviewNotes)
			if intern.UserID != nil {
				_ = notify.PushToUser(middleware.DBConn, *intern.UserID,
					"Application "+string(req.Status),
					"Your internship application status has changed.")
			}
		}()
	}

	return c.JSON(response.OK(application, "Application "+string(req.Status)+" successfully"))
}
