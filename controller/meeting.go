package controller

import (
	"time"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
)

func CreateMeeting(c *fiber.Ctx) error {
	type MeetingRequest struct {
		InternID uint              `json:"intern_id"`
		Title    string            `json:"title"`
		Date     string            `json:"date"`
		Time     string            `json:"time"`
		Type     model.MeetingType `json:"type"`
		Agenda   string            `json:"agenda"`
	}

	req := new(MeetingRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.InternID == 0 || req.Title == "" {
		return badRequest(c, "Intern and title are required")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return badRequest(c, "Invalid date format. Use YYYY-MM-DD.")
	}

	actor := actorFromCtx(c)
	mentorID, err := resolveMentorID(actor, req.InternID)
	if err != nil {
		return svcError(c, err)
	}

	if req.Type == "" {
		req.Type = model.MeetingWeeklyReview
	}

	meeting := model.Meeting{
		InternID: req.InternID,
		MentorID: mentorID,
		Title:    req.Title,
		Date:     date,
		Time:     req.Time,
		Type:     req.Type,
		Status:   model.MeetingScheduled,
		Agenda:   req.Agenda,
	}
	if err := middleware.DBConn.Create(&meeting).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response.OK(meeting, "Meeting scheduled successfully"))
}

func GetAllMeetings(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := middleware.DBConn.Model(&model.Meeting{}).
		Preload("Intern").
		Preload("Mentor")

	if internID := c.Query("intern_id"); internID != "" {
		query = query.Where("intern_id = ?", internID)
	}

	if actor.IsMentor() {
		var mentor model.Mentor
		if err := middleware.DBConn.Where("emp_id = ?", actor.EmpID).First(&mentor).Error; err == nil {
			query = query.Where("mentor_id = ?", mentor.ID)
		}
	}
	if actor.IsIntern() {
		var intern model.Intern
		if err := middleware.DBConn.Where("intern_id = ?", actor.EmpID).First(&intern).Error; err == nil {
			query = query.Where("intern_id = ?", intern.ID)
		}
	}

	var meetings []model.Meeting
	if err := query.Order("date DESC").Find(&meetings).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(meetings, ""))
}

func UpdateMeetingStatus(c *fiber.Ctx) error {
	type StatusRequest struct {
		Status model.MeetingStatus `json:"status"`
		Notes  string              `json:"notes"`
	}

	req := new(StatusRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Status != model.MeetingScheduled && req.Status != model.MeetingCompleted &&
		req.Status != model.MeetingCancelled {
		return badRequest(c, "Status must be SCHEDULED, COMPLETED or CANCELLED")
	}

	var meeting model.Meeting
	if err := middleware.DBConn.Preload("Mentor").First(&meeting, c.Params("id")).Error; err != nil {
		return notFound(c, "Meeting not found")
	}

	actor := actorFromCtx(c)
	if actor.IsMentor() && meeting.Mentor.EmpID != actor.EmpID {
		return forbidden(c)
	}
	if actor.IsIntern() {
		return forbidden(c)
	}

	updates := map[string]any{"status": req.Status}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if err := middleware.DBConn.Model(&meeting).Updates(updates).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(meeting, "Meeting updated successfully"))
}
