package routes

import (
	"time"

	"internportal/controller"
	"internportal/middleware"
	"internportal/model"
	"internportal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func AppRoutes(app *fiber.App) {
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// LOGIN
	app.Post("/api/auth/login", controller.Login)

	api := app.Group("/api", middleware.JWTMiddleware())

	api.Post("/auth/logout", controller.Logout)
	api.Put("/auth/change-password", controller.ChangePassword)

	// INTERNS
	api.Post("/interns", middleware.RequireRoles(model.RoleAdmin, model.RoleEmployee), controller.CreateIntern)
	api.Get("/interns", controller.GetAllInterns)
	api.Get("/interns/:id", controller.GetSingleIntern)
	api.Put("/interns/:id/complete", middleware.RequireRoles(model.RoleAdmin), controller.CompleteIntern)
	api.Put("/interns/:id", middleware.RequireRoles(model.RoleAdmin), controller.EditIntern)
	api.Delete("/interns/:id", middleware.RequireRoles(model.RoleAdmin), controller.DeleteIntern)

	// APPLICATIONS
	api.Get("/applications", controller.GetAllApplications)
	api.Get("/applications/status/pending", middleware.RequireRoles(model.RoleAdmin), controller.GetPendingApplications)
	api.Get("/applications/intern/:internId", controller.GetApplicationByIntern)
	api.Get("/applications/:id", controller.GetApplication)
	api.Put("/applications/:id", middleware.RequireRoles(model.RoleAdmin), controller.ReviewApplication)

	// MENTORS & ASSIGNMENTS
	api.Post("/mentors", middleware.RequireRoles(model.RoleAdmin), controller.CreateMentor)
	api.Get("/mentors", controller.GetAllMentors)
	api.Get("/mentors/available/:department", middleware.RequireRoles(model.RoleAdmin), controller.GetAvailableMentors)
	api.Post("/mentors/assign", middleware.RequireRoles(model.RoleAdmin), controller.AssignMentor)
	api.Put("/mentors/release/:assignmentId", middleware.RequireRoles(model.RoleAdmin), controller.ReleaseAssignment)
	api.Put("/mentors/:id/availability", middleware.RequireRoles(model.RoleAdmin), controller.SetMentorAvailability)
	api.Get("/mentors/:id/interns", controller.GetMentorInterns)
	api.Put("/mentors/:id", middleware.RequireRoles(model.RoleAdmin), controller.EditMentor)
	api.Delete("/mentors/:id", middleware.RequireRoles(model.RoleAdmin), controller.DeleteMentor)

	// TASKS
	api.Post("/tasks", middleware.RequireRoles(model.RoleAdmin, model.RoleMentor), controller.CreateTask)
	api.Get("/tasks", controller.GetAllTasks)
	api.Get("/tasks/:id", controller.GetTask)
	api.Put("/tasks/:id", controller.UpdateTask)
	api.Delete("/tasks/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleMentor), controller.DeleteTask)

	// PROJECTS
	api.Post("/projects", middleware.RequireRoles(model.RoleAdmin, model.RoleIntern), controller.CreateProject)
	api.Get("/projects", controller.GetAllProjects)
	api.Get("/projects/:id", controller.GetProject)
	api.Put("/projects/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleMentor), controller.ReviewProject)
	api.Post("/projects/:id/upload", controller.UploadProjectFile)

	// FEEDBACK
	api.Post("/feedback", middleware.RequireRoles(model.RoleAdmin, model.RoleMentor), controller.CreateFeedback)
	api.Get("/feedback", controller.GetAllFeedback)
	api.Put("/feedback/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleMentor), controller.EditFeedback)

	// MEETINGS
	api.Post("/meetings", middleware.RequireRoles(model.RoleAdmin, model.RoleMentor), controller.CreateMeeting)
	api.Get("/meetings", controller.GetAllMeetings)
	api.Put("/meetings/:id", controller.UpdateMeetingStatus)

	// DOCUMENT UPLOADS
	api.Post("/upload/documents/:internId", middleware.RequireRoles(model.RoleAdmin, model.RoleEmployee), controller.UploadInternDocument)
	api.Get("/upload/documents/:internId", controller.GetInternDocuments)
	app.Static("/uploads", "./uploads")

	// CERTIFICATES
	api.Get("/certificates/approval-letter/:applicationId", middleware.RequireRoles(model.RoleAdmin), controller.ApprovalLetterPDF)
	api.Get("/certificates/completion/:internId", middleware.RequireRoles(model.RoleAdmin, model.RoleIntern), controller.CompletionCertificatePDF)

	// PUSH NOTIFICATIONS
	api.Post("/notifications/token", controller.RegisterDeviceToken)
	api.Delete("/notifications/token", controller.RemoveDeviceToken)

	// LIVE STATUS UPDATES
	app.Use("/ws", ws.UpgradeRequired, middleware.JWTMiddleware())
	app.Get("/ws", controller.Hub.Handler())
}
