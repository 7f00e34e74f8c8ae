package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateProject records a project submission. The mentor comes from the
// intern's active assignment, never from the request.
func CreateProject(c *fiber.Ctx) error {
	type ProjectRequest struct {
		InternID    uint   `json:"intern_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	req := new(ProjectRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}

	actor := actorFromCtx(c)

	internID := req.InternID
	if actor.IsIntern() {
		var intern model.Intern
		if err := middleware.DBConn.Where("intern_id = ?", actor.EmpID).First(&intern).Error; err != nil {
			return notFound(c, "Intern record not found")
		}
		internID = intern.ID
	}
	if internID == 0 {
		return badRequest(c, "Intern is required")
	}

	var assignment model.Assignment
	err := middleware.DBConn.Preload("Intern").
		Where("intern_id = ? AND is_active = ?", internID, true).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "No active mentor assignment found")
	} else if err != nil {
		return dbError(c, err)
	}

	project := model.Project{
		InternID:    internID,
		MentorID:    assignment.MentorID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ProjectSubmitted,
		SubmittedAt: time.Now(),
	}
	if err := middleware.DBConn.Create(&project).Error; err != nil {
		return dbError(c, err)
	}

	if err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(&project, project.ID).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(project, "Project submitted successfully"))
}

func GetAllProjects(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := middleware.DBConn.Model(&model.Project{}).
		Preload("Intern").
		Preload("Mentor")

	if internID := c.Query("intern_id"); internID != "" {
		query = query.Where("intern_id = ?", internID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if actor.IsMentor() {
		var mentor model.Mentor
		if err := middleware.DBConn.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err == nil {
			query = query.Where("mentor_id = ?", mentor.ID)
		}
	} else if mentorID := c.Query("mentor_id"); mentorID != "" && actor.IsAdmin() {
		query = query.Where("mentor_id = ?", mentorID)
	}

	if actor.IsIntern() {
		var intern model.Intern
		if err := middleware.DBConn.Where("intern_id = ?", actor.EmpID).First(&intern).Error; err == nil {
			query = query.Where("intern_id = ?", intern.ID)
		}
	}

	var projects []model.Project
	if err := query.Order("submitted_at DESC").Find(&projects).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(projects, ""))
}

func GetProject(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var project model.Project
	err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(&project, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Project not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsMentor() && project.Mentor.EmpID != actor.EmpID {
		return forbidden(c)
	}
	if actor.IsIntern() && project.Intern.InternID != actor.EmpID {
		return forbidden(c)
	}

	return c.JSON(response.OK(project, ""))
}

// ReviewProject runs the project status workflow.
func ReviewProject(c *fiber.Ctx) error {
	type ReviewRequest struct {
		Status   model.ProjectStatus `json:"status"`
		Feedback string              `json:"feedback"`
		Grade    string              `json:"grade"`
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	req := new(ReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := actorFromCtx(c)
	project, err := workflow().TransitionProject(uint(id), req.Status, actor, req.Feedback, req.Grade)
	if err != nil {
		return svcError(c, err)
	}

	return c.JSON(response.OK(project, "Project "+string(req.Status)+" successfully"))
}

// UploadProjectFile stores the submitted report under ./uploads/projects and
// records the logical path on the project.
func UploadProjectFile(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var project model.Project
	err := middleware.DBConn.Preload("Intern").First(&project, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Project not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsIntern() && project.Intern.InternID != actor.EmpID {
		return forbidden(c)
	}
	if !actor.IsIntern() && !actor.IsAdmin() {
		return forbidden(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Project file is required")
	}

	allowedExtensions := map[string]bool{
		".pdf":  true,
		".docx": true,
		".zip":  true,
		".pptx": true,
	}
	ext := filepath.Ext(file.Filename)
	if !allowedExtensions[ext] {
		return badRequest(c, "Invalid file format. Only PDF, DOCX, ZIP and PPTX allowed.")
	}

	dir := filepath.Join("uploads", "projects", fmt.Sprint(project.ID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dbError(c, err)
	}

	fileURL := filepath.Join(dir, "project-report"+ext)
	if err := c.SaveFile(file, fileURL); err != nil {
		return dbError(c, err)
	}

	if err := middleware.DBConn.Model(&project).Update("file_url", "/"+fileURL).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(fiber.Map{"url": "/" + fileURL}, "Project file uploaded successfully"))
}
