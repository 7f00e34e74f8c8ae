package controller

import (
	"errors"
	"time"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskRequest struct {
	InternID    uint               `json:"intern_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DueDate     string             `json:"due_date"`
	Priority    model.TaskPriority `json:"priority"`
	Status      model.TaskStatus   `json:"status"`
}

func CreateTask(c *fiber.Ctx) error {
	req := new(TaskRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.InternID == 0 || req.Title == "" {
		return badRequest(c, "Intern and title are required")
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !req.Priority.Valid() {
		return badRequest(c, "Priority must be LOW, MEDIUM or HIGH")
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return badRequest(c, "Invalid due date format. Use YYYY-MM-DD.")
	}

	actor := actorFromCtx(c)
	mentorID, err := resolveMentorID(actor, req.InternID)
	if err != nil {
		return svcError(c, err)
	}

	var intern model.Intern
	if err := middleware.DBConn.First(&intern, req.InternID).Error; err != nil {
		return notFound(c, "Intern not found")
	}

	task := model.Task{
		InternID:    req.InternID,
		MentorID:    mentorID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      model.TaskPending,
		Priority:    req.Priority,
	}
	if err := middleware.DBConn.Create(&task).Error; err != nil {
		return dbError(c, err)
	}

	if err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(&task, task.ID).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(task, "Task created successfully"))
}

func GetAllTasks(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := middleware.DBConn.Model(&model.Task{}).
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

	var tasks []model.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(tasks, ""))
}

func GetTask(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var task model.Task
	err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(&task, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Task not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsMentor() && task.Mentor.EmpID != actor.EmpID {
		return forbidden(c)
	}
	if actor.IsIntern() && task.Intern.InternID != actor.EmpID {
		return forbidden(c)
	}

	return c.JSON(response.OK(task, ""))
}

// UpdateTask updates a task. Status changes flow through the workflow so
// the transition table applies and TASK_STATUS is fanned out; interns may
// change nothing but the status of their own tasks.
func UpdateTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	req := new(TaskRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := actorFromCtx(c)

	if !actor.IsIntern() {
		var task model.Task
		err := middleware.DBConn.Preload("Mentor").First(&task, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Task not found")
		} else if err != nil {
			return dbError(c, err)
		}
		if actor.IsMentor() && task.Mentor.EmpID != actor.EmpID {
			return forbidden(c)
		}

		updates := map[string]any{}
		if req.Title != "" {
			updates["title"] = req.Title
		}
		if req.Description != "" {
			updates["description"] = req.Description
		}
		if req.Priority != "" {
			if !req.Priority.Valid() {
				return badRequest(c, "Priority must be LOW, MEDIUM or HIGH")
			}
			updates["priority"] = req.Priority
		}
		if req.DueDate != "" {
			dueDate, err := time.Parse("2006-01-02", req.DueDate)
			if err != nil {
				return badRequest(c, "Invalid due date format. Use YYYY-MM-DD.")
			}
			updates["due_date"] = dueDate
		}
		if len(updates) > 0 {
			if err := middleware.DBConn.Model(&model.Task{}).Where("id = ?", id).
				Updates(updates).Error; err != nil {
				return dbError(c, err)
			}
		}
	}

	if req.Status != "" {
		task, err := workflow().TransitionTask(uint(id), req.Status, actor)
		if err != nil {
			return svcError(c, err)
		}
		return c.JSON(response.OK(task, "Task updated successfully"))
	}

	var task model.Task
	if err := middleware.DBConn.Preload("Intern").Preload("Mentor").
		First(&task, id).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(response.OK(task, "Task updated successfully"))
}

func DeleteTask(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var task model.Task
	err := middleware.DBConn.Preload("Mentor").First(&task, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Task not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsMentor() && task.Mentor.EmpID != actor.EmpID {
		return forbidden(c)
	}

	if err := middleware.DBConn.Delete(&task).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(nil, "Task deleted successfully"))
}
