package controller

import (
	"internportal/logutils"
	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"
	"internportal/service"
	"internportal/ws"

	"github.com/gofiber/fiber/v2"
)

// Hub is the shared fan-out hub, wired in main before routes are served.
var Hub *ws.Hub

func publisher() ws.Publisher {
	if Hub == nil {
		return nil
	}
	return Hub
}

func engine() *service.Engine {
	return service.NewEngine(middleware.DBConn, publisher())
}

func workflow() *service.Workflow {
	return service.NewWorkflow(middleware.DBConn, publisher())
}

// actorFromCtx builds the caller identity from the claims JWTMiddleware
// stored in context.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	userID, _ := c.Locals("user_id").(uint)
	empID, _ := c.Locals("emp_id").(string)
	role, _ := c.Locals("role").(string)
	return service.Actor{UserID: userID, EmpID: empID, Role: role}
}

// svcError renders a service error with its mapped HTTP status.
func svcError(c *fiber.Ctx, err error) error {
	if service.Is(err, service.CodeInternal) {
		logutils.Log.WithError(err).Error("Request failed")
	}
	return c.Status(service.HTTPStatus(err)).JSON(response.Err(service.UserMessage(err)))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(response.Err(message))
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(response.Err(message))
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(response.Err("Access denied"))
}

func dbError(c *fiber.Ctx, err error) error {
	logutils.Log.WithError(err).Error("Database error")
	return c.Status(fiber.StatusInternalServerError).JSON(response.Err("Internal server error"))
}

// resolveMentorID finds the mentor a task/feedback record belongs to: a
// mentor acts as themselves, an admin acts as the intern's actively assigned
// mentor.
func resolveMentorID(actor service.Actor, internID uint) (uint, error) {
	if actor.IsAdmin() {
		var assignment model.Assignment
		err := middleware.DBConn.
			Where("intern_id = ? AND is_active = ?", internID, true).
			First(&assignment).Error
		if err != nil {
			return 0, service.NewError(service.CodeNotFound, "No active mentor assignment found for this intern")
		}
		return assignment.MentorID, nil
	}

	var mentor model.Mentor
	if err := middleware.DBConn.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err != nil {
		return 0, service.NewError(service.CodeNotFound, "Mentor record not found")
	}
	return mentor.ID, nil
}
