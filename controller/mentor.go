package controller

import (
	"errors"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MentorRequest struct {
	EmpID       string `json:"emp_id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Experience  string `json:"experience"`
	MaxCapacity int    `json:"max_capacity"`
}

func CreateMentor(c *fiber.Ctx) error {
	req := new(MentorRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.EmpID == "" || req.Name == "" || req.Department == "" {
		return badRequest(c, "Employee ID, name and department are required")
	}
	if req.MaxCapacity < 1 || req.MaxCapacity > 10 {
		if req.MaxCapacity == 0 {
			req.MaxCapacity = 3
		} else {
			return badRequest(c, "Max capacity must be between 1 and 10")
		}
	}

	var existing model.Mentor
	err := middleware.DBConn.Where("emp_id = ?", req.EmpID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(response.Err("Mentor with this employee ID already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dbError(c, err)
	}

	mentor := model.Mentor{
		EmpID:        req.EmpID,
		Name:         req.Name,
		Department:   req.Department,
		Email:        req.Email,
		Phone:        req.Phone,
		Experience:   req.Experience,
		MaxCapacity:  req.MaxCapacity,
		Availability: model.MentorAvailable,
	}
	if err := middleware.DBConn.Create(&mentor).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(mentor, "Mentor created successfully"))
}

// GetAllMentors lists mentors with the active assignment detail the
// dashboard renders. The stored counter is reconciled against the live
// assignment count on read so drift never survives a listing.
func GetAllMentors(c *fiber.Ctx) error {
	query := middleware.DBConn.Model(&model.Mentor{}).
		Preload("Assignments", "is_active = ?", true).
		Preload("Assignments.Intern")

	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}
	if availability := c.Query("availability"); availability != "" {
		query = query.Where("availability = ?", availability)
	}

	var mentors []model.Mentor
	if err := query.Order("name ASC").Find(&mentors).Error; err != nil {
		return dbError(c, err)
	}

	for i := range mentors {
		live := len(mentors[i].Assignments)
		if mentors[i].CurrentInterns != live {
			middleware.DBConn.Model(&mentors[i]).Update("current_interns", live)
			mentors[i].CurrentInterns = live
		}
	}

	return c.JSON(response.OK(mentors, ""))
}

// GetAvailableMentors returns the mentors in a department that still have
// capacity, least loaded first.
func GetAvailableMentors(c *fiber.Ctx) error {
	var mentors []model.Mentor
	err := middleware.DBConn.
		Preload("Assignments", "is_active = ?", true).
		Preload("Assignments.Intern").
		Where("department = ? AND availability IN ?", c.Params("department"),
			[]model.Availability{model.MentorAvailable, model.MentorBusy}).
		Order("current_interns ASC").
		Order("name ASC").
		Find(&mentors).Error
	if err != nil {
		return dbError(c, err)
	}

	available := make([]model.Mentor, 0, len(mentors))
	for _, m := range mentors {
		if len(m.Assignments) < m.MaxCapacity {
			available = append(available, m)
		}
	}

	return c.JSON(response.OK(available, ""))
}

func EditMentor(c *fiber.Ctx) error {
	var mentor model.Mentor
	if err := middleware.DBConn.First(&mentor, c.Params("id")).Error; err != nil {
		return notFound(c, "Mentor not found")
	}

	req := new(MentorRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	// current_interns is derived and never updated directly here.
	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Experience != "" {
		updates["experience"] = req.Experience
	}
	if req.MaxCapacity > 0 {
		if req.MaxCapacity > 10 {
			return badRequest(c, "Max capacity must be between 1 and 10")
		}
		updates["max_capacity"] = req.MaxCapacity
	}
	if len(updates) == 0 {
		return badRequest(c, "Nothing to update")
	}

	if err := middleware.DBConn.Model(&mentor).Updates(updates).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(mentor, "Mentor updated successfully"))
}

func DeleteMentor(c *fiber.Ctx) error {
	var mentor model.Mentor
	if err := middleware.DBConn.First(&mentor, c.Params("id")).Error; err != nil {
		return notFound(c, "Mentor not found")
	}

	var active int64
	middleware.DBConn.Model(&model.Assignment{}).
		Where("mentor_id = ? AND is_active = ?", mentor.ID, true).
		Count(&active)
	if active > 0 {
		return badRequest(c, "Cannot delete mentor with active assignments")
	}

	if err := middleware.DBConn.Delete(&mentor).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(nil, "Mentor deleted successfully"))
}

func SetMentorAvailability(c *fiber.Ctx) error {
	type AvailabilityRequest struct {
		Availability model.Availability `json:"availability"`
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid mentor id")
	}

	req := new(AvailabilityRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	mentor, err := engine().SetAvailability(uint(id), req.Availability)
	if err != nil {
		return svcError(c, err)
	}

	return c.JSON(response.OK(mentor, "Availability updated successfully"))
}

// AssignMentor runs the assignment engine for an approved intern.
func AssignMentor(c *fiber.Ctx) error {
	type AssignRequest struct {
		InternID   uint   `json:"intern_id"`
		MentorID   uint   `json:"mentor_id"`
		Department string `json:"department"`
	}

	req := new(AssignRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.InternID == 0 || req.MentorID == 0 {
		return badRequest(c, "Intern and mentor are required")
	}

	assignment, err := engine().Assign(req.InternID, req.MentorID, req.Department)
	if err != nil {
		return svcError(c, err)
	}

	if err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(assignment, assignment.ID).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(assignment, "Mentor assigned successfully"))
}

// ReleaseAssignment deactivates an assignment, freeing the mentor's slot.
// The intern keeps their current status; reassignment or completion is a
// separate call.
func ReleaseAssignment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("assignmentId")
	if err != nil {
		return badRequest(c, "Invalid assignment id")
	}

	if err := engine().Release(uint(id)); err != nil {
		return svcError(c, err)
	}

	return c.JSON(response.OK(nil, "Assignment released successfully"))
}

func GetMentorInterns(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid mentor id")
	}

	if actor.IsMentor() {
		var mentor model.Mentor
		if err := middleware.DBConn.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err != nil {
			return forbidden(c)
		}
		if mentor.ID != uint(id) {
			return forbidden(c)
		}
	} else if !actor.IsAdmin() {
		return forbidden(c)
	}

	var assignments []model.Assignment
	err = middleware.DBConn.
		Preload("Intern").
		Preload("Intern.Tasks", "mentor_id = ?", id).
		Preload("Intern.Projects", "mentor_id = ?", id).
		Preload("Intern.Feedback", "mentor_id = ?", id).
		Preload("Intern.Meetings", "mentor_id = ?", id).
		Where("mentor_id = ? AND is_active = ?", id, true).
		Order("assigned_at DESC").
		Find(&assignments).Error
	if err != nil {
		return dbError(c, err)
	}

	interns := make([]fiber.Map, 0, len(assignments))
	for _, a := range assignments {
		interns = append(interns, fiber.Map{
			"intern":      a.Intern,
			"assigned_at": a.AssignedAt,
		})
	}

	return c.JSON(response.OK(interns, ""))
}
