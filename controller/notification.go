package controller

import (
	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterDeviceToken stores an FCM device token for the authenticated user
// so push notifications can reach all of their devices.
func RegisterDeviceToken(c *fiber.Ctx) error {
	type TokenRequest struct {
		Token string `json:"token"`
	}

	req := new(TokenRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Token == "" {
		return badRequest(c, "Token is required")
	}

	actor := actorFromCtx(c)

	// Re-registering a token moves it to the current user.
	token := model.DeviceToken{UserID: actor.UserID, Token: req.Token}
	err := middleware.DBConn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id"}),
	}).Create(&token).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(nil, "Device token registered"))
}

// RemoveDeviceToken deletes a device token, typically on logout.
func RemoveDeviceToken(c *fiber.Ctx) error {
	type TokenRequest struct {
		Token string `json:"token"`
	}

	req := new(TokenRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := actorFromCtx(c)
	err := middleware.DBConn.
		Where("user_id = ? AND token = ?", actor.UserID, req.Token).
		Delete(&model.DeviceToken{}).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return dbError(c, err)
	}

	return c.JSON(response.OK(nil, "Device token removed"))
}
