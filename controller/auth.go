package controller

import (
	"errors"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	var user model.User
	result := middleware.DBConn.Preload("Role").Where("username = ?", req.Username).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(response.Err("Invalid credentials"))
	} else if result.Error != nil {
		return dbError(c, result.Error)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(response.Err("Invalid credentials"))
	}

	token, err := middleware.GenerateJWT(user.ID, user.EmpID, user.Role.RoleName)
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":             user.ID,
			"username":       user.Username,
			"name":           user.Name,
			"email":          user.Email,
			"emp_id":         user.EmpID,
			"role":           user.Role.RoleName,
			"department":     user.Department,
			"is_first_login": user.IsFirstLogin,
		},
	}, "Login successful"))
}

func Logout(c *fiber.Ctx) error {
	token := middleware.TokenFromRequest(c)
	if token != "" {
		middleware.BlacklistToken(token)
	}
	return c.JSON(response.OK(nil, "Logged out successfully"))
}

func ChangePassword(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if len(req.NewPassword) < 8 {
		return badRequest(c, "New password must be at least 8 characters")
	}

	actor := actorFromCtx(c)

	var user model.User
	if err := middleware.DBConn.First(&user, actor.UserID).Error; err != nil {
		return notFound(c, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(response.Err("Current password is incorrect"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return dbError(c, err)
	}

	if err := middleware.DBConn.Model(&user).Updates(map[string]any{
		"password":       string(hashed),
		"is_first_login": false,
	}).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(nil, "Password changed successfully"))
}
