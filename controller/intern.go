package controller

import (
	"errors"
	"fmt"
	"time"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"
	"internportal/ws"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateInternRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Institute       string `json:"institute"`
	Course          string `json:"course"`
	Semester        string `json:"semester"`
	RollNumber      string `json:"roll_number"`
	Department      string `json:"department"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Address         string `json:"address"`
	ReferredBy      string `json:"referred_by"`
	ReferredByEmpID string `json:"referred_by_emp_id"`
	Documents       string `json:"documents"`
}

// CreateIntern registers a referred intern and opens the initial SUBMITTED
// application in the same transaction.
func CreateIntern(c *fiber.Ctx) error {
	req := new(CreateInternRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Department == "" {
		return badRequest(c, "Name, email and department are required")
	}
	if req.ReferredBy == "" || req.ReferredByEmpID == "" {
		return badRequest(c, "Referrer details are required")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return badRequest(c, "Invalid start date format. Use YYYY-MM-DD.")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return badRequest(c, "Invalid end date format. Use YYYY-MM-DD.")
	}
	if !endDate.After(startDate) {
		return badRequest(c, "End date must be after start date")
	}

	intern := model.Intern{
		InternID:        fmt.Sprintf("IOCL-%06d", time.Now().UnixMilli()%1000000),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Institute:       req.Institute,
		Course:          req.Course,
		Semester:        req.Semester,
		RollNumber:      req.RollNumber,
		Department:      req.Department,
		StartDate:       startDate,
		EndDate:         endDate,
		Address:         req.Address,
		Status:          model.InternSubmitted,
		ReferredBy:      req.ReferredBy,
		ReferredByEmpID: req.ReferredByEmpID,
		Documents:       req.Documents,
	}

	var application model.Application
	err = middleware.DBConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&intern).Error; err != nil {
			return err
		}
		application = model.Application{
			InternID: intern.ID,
			Status:   model.ApplicationSubmitted,
		}
		return tx.Create(&application).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	if Hub != nil {
		Hub.Publish(ws.StatusUpdate{
			Type:   ws.EventApplicationStatus,
			ID:     application.ID,
			Status: string(model.ApplicationSubmitted),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(intern, "Intern created successfully"))
}

func GetAllInterns(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := middleware.DBConn.Model(&model.Intern{}).
		Preload("Assignments", "is_active = ?", true).
		Preload("Assignments.Mentor")

	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Mentors only see their assigned interns.
	if actor.IsMentor() {
		var mentor model.Mentor
		if err := middleware.DBConn.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err != nil {
			return notFound(c, "Mentor record not found")
		}
		query = query.Where("id IN (?)",
			middleware.DBConn.Model(&model.Assignment{}).Select("intern_id").
				Where("mentor_id = ? AND is_active = ?", mentor.ID, true))
	} else if mentorID := c.Query("mentor_id"); mentorID != "" && actor.IsAdmin() {
		query = query.Where("id IN (?)",
			middleware.DBConn.Model(&model.Assignment{}).Select("intern_id").
				Where("mentor_id = ? AND is_active = ?", mentorID, true))
	}

	var interns []model.Intern
	if err := query.Order("created_at DESC").Find(&interns).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(interns, ""))
}

func GetSingleIntern(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var intern model.Intern
	err := middleware.DBConn.
		Preload("Assignments", "is_active = ?", true).
		Preload("Assignments.Mentor").
		Preload("Applications").
		Preload("Tasks").
		Preload("Projects").
		Preload("Feedback").
		Preload("Meetings").
		First(&intern, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Intern not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsMentor() && !mentorAssignedTo(actor.EmpID, intern.ID) {
		return forbidden(c)
	}
	if actor.IsIntern() && intern.InternID != actor.EmpID {
		return forbidden(c)
	}

	return c.JSON(response.OK(intern, ""))
}

func EditIntern(c *fiber.Ctx) error {
	var intern model.Intern
	if err := middleware.DBConn.First(&intern, c.Params("id")).Error; err != nil {
		return notFound(c, "Intern not found")
	}

	req := new(CreateInternRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Institute != "" {
		updates["institute"] = req.Institute
	}
	if req.Course != "" {
		updates["course"] = req.Course
	}
	if req.Semester != "" {
		updates["semester"] = req.Semester
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if len(updates) == 0 {
		return badRequest(c, "Nothing to update")
	}

	if err := middleware.DBConn.Model(&intern).Updates(updates).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(intern, "Intern updated successfully"))
}

// DeleteIntern is a soft delete: rejections are a status, never a row
// removal.
func DeleteIntern(c *fiber.Ctx) error {
	var intern model.Intern
	if err := middleware.DBConn.First(&intern, c.Params("id")).Error; err != nil {
		return notFound(c, "Intern not found")
	}

	if err := middleware.DBConn.Model(&intern).
		Update("status", model.InternRejected).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(nil, "Intern deleted successfully"))
}

// CompleteIntern closes out an internship and frees the mentor's slot.
func CompleteIntern(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid intern id")
	}

	if err := engine().Complete(uint(id)); err != nil {
		return svcError(c, err)
	}

	return c.JSON(response.OK(nil, "Intern marked as completed"))
}

// mentorAssignedTo reports whether the mentor with the given employee id has
// an active assignment for the intern.
func mentorAssignedTo(empID string, internID uint) bool {
	var mentor model.Mentor
	if err := middleware.DBConn.Where("emp_id = ?", empID).First(&mentor).Error; err != nil {
		return false
	}
	var count int64
	middleware.DBConn.Model(&model.Assignment{}).
		Where("intern_id = ? AND mentor_id = ? AND is_active = ?", internID, mentor.ID, true).
		Count(&count)
	return count > 0
}
