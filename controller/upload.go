package controller

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"internportal/middleware"
	"internportal/model"
	"internportal/model/response"

	"github.com/gofiber/fiber/v2"
)

var allowedDocumentExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadInternDocument stores a referral document (resume, marksheet, id
// proof) under ./uploads/documents and records its logical path on the
// intern record keyed by document type.
func UploadInternDocument(c *fiber.Ctx) error {
	var intern model.Intern
	if err := middleware.DBConn.First(&intern, c.Params("internId")).Error; err != nil {
		return notFound(c, "Intern not found")
	}

	docType := c.FormValue("type")
	if docType == "" {
		return badRequest(c, "Document type is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Document file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExtensions[ext] {
		return badRequest(c, "Invalid file format. Only PDF, DOCX, JPG and PNG allowed.")
	}

	dir := filepath.Join("uploads", "documents", intern.InternID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dbError(c, err)
	}

	path := filepath.Join(dir, docType+ext)
	if err := c.SaveFile(file, path); err != nil {
		return dbError(c, err)
	}

	documents := map[string]string{}
	if intern.Documents != "" {
		_ = json.Unmarshal([]byte(intern.Documents), &documents)
	}
	documents[docType] = "/" + path

	encoded, err := json.Marshal(documents)
	if err != nil {
		return dbError(c, err)
	}
	if err := middleware.DBConn.Model(&intern).
		Update("documents", string(encoded)).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(response.OK(fiber.Map{"url": "/" + path}, "Document uploaded successfully"))
}

// GetInternDocuments returns the recorded document paths for an intern.
func GetInternDocuments(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var intern model.Intern
	if err := middleware.DBConn.First(&intern, c.Params("internId")).Error; err != nil {
		return notFound(c, "Intern not found")
	}

	if actor.IsMentor() && !mentorAssignedTo(actor.EmpID, intern.ID) {
		return forbidden(c)
	}
	if actor.IsIntern() && intern.InternID != actor.EmpID {
		return forbidden(c)
	}

	documents := map[string]string{}
	if intern.Documents != "" {
		_ = json.Unmarshal([]byte(intern.Documents), &documents)
	}

	return c.JSON(response.OK(fiber.Map{
		"intern_id": intern.InternID,
		"name":      intern.Name,
		"documents": documents,
	}, ""))
}
