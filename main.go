package main

import (
	"internportal/config"
	"internportal/controller"
	"internportal/logutils"
	"internportal/middleware"
	"internportal/routes"
	"internportal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	if middleware.ConnectDB() {
		logutils.Log.WithError(middleware.DBErr).Fatal("Database connection failed")
	}

	config.InitializeFirebase()

	controller.Hub = ws.NewHub()

	app := fiber.New(fiber.Config{
		AppName: "Internship Portal",
	})
	app.Use(logger.New())

	routes.AppRoutes(app)

	port := middleware.GetEnvDefault("APP_PORT", "5000")
	logutils.Log.WithFields(logutils.Fields{"port": port}).Info("Starting server")
	if err := app.Listen(":" + port); err != nil {
		logutils.Log.WithError(err).Fatal("Server stopped")
	}
}
