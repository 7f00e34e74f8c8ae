package controller

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"internportal/middleware"
	"internportal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

var approvalConditions = []string{
	"That this arrangement shall be purely temporary in nature and the student will not be allowed to continue beyond the specified end date.",
	"The student will arrange on their own, requisite facility for virtual meeting.",
	"That the student concerned should not have any claim for employment in Corporation during / after completion of training.",
	"That the student concerned shall not be entitled to any benefit, whatsoever from the Corporation.",
	"That the training of the student concerned shall be governed by the rules prescribed in this regard by the management for timings, accessibility of records, discipline etc.",
	"That the Corporation shall not be responsible for delay in completion of aforesaid training.",
	"That the student shall submit a copy of his/her project with the respective officer, under whose supervision he/she shall undergo his/her training.",
	"That the student shall not be allowed to include / write anything in study report, which is detrimental to the interest of the Corporation.",
	"That the student concerned should bear all type of expenses related to his/her project.",
	"If, at any stage, it is found that student is indulging in activities, which are detrimental to the interest of the Corporation, the student shall not be allowed to continue with his/her training.",
	"Copyright in any document whether in form of project report, research document or otherwise, developed by the Intern during period of his/her internship and connected to his/her internship with IOCL shall be owned exclusively by IOCL and IOCL shall be free to use the same in any manner whatsoever. However, Intern shall have a right to use the same for non-commercial academic purposes.",
}

// embedVerificationQR renders a QR code carrying the verification reference
// in the bottom-right corner of the current page.
func embedVerificationQR(pdf *gofpdf.Fpdf, reference string) error {
	png, err := qrcode.Encode(reference, qrcode.Medium, 256)
	if err != nil {
		return err
	}

	name := "verify-qr"
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	pageWidth, pageHeight := pdf.GetPageSize()
	pdf.ImageOptions(name, pageWidth-45, pageHeight-45, 28, 28, false, opts, 0, "")
	pdf.SetFont("Arial", "", 7)
	pdf.SetXY(pageWidth-47, pageHeight-16)
	pdf.CellFormat(32, 4, "Scan to verify", "", 0, "C", false, 0, "")
	return nil
}

func sendPDF(c *fiber.Ctx, pdf *gofpdf.Fpdf, filename string) error {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return dbError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}

// ApprovalLetterPDF generates the internship approval letter for an approved
// application, addressed to the intern's institute.
func ApprovalLetterPDF(c *fiber.Ctx) error {
	var application model.Application
	err := middleware.DBConn.Preload("Intern").
		First(&application, c.Params("applicationId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Application not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if application.Status != model.ApplicationApproved {
		return badRequest(c, "Application must be approved to generate approval letter")
	}

	intern := application.Intern
	today := time.Now().Format("02/01/2006")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, "INDIAN OIL CORPORATION LIMITED", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 6, "Pipelines Division, Noida", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(85, 6, "Ref. No: PL/TRG/15", "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, "Date: "+today, "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.CellFormat(0, 6, "To", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, intern.Institute, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "BU", 12)
	pdf.CellFormat(0, 7, "Sub: Approval for Industrial Internship", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Sir/Ma'am,", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	body := fmt.Sprintf(
		"We are pleased to inform you that IndianOil Management has accorded the approval for Mr./Ms. %s, to undertake industrial internship from %s to %s at Indian Oil Corporation Ltd., Pipelines Division, Noida. During the internship, the student will be assigned a Project under the %s Department, subject to the following conditions:",
		intern.Name,
		intern.StartDate.Format("02/01/2006"),
		intern.EndDate.Format("02/01/2006"),
		intern.Department,
	)
	pdf.MultiCell(0, 5.5, body, "", "J", false)
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	for i, condition := range approvalConditions {
		pdf.MultiCell(0, 5, fmt.Sprintf("%d. %s", i+1, condition), "", "J", false)
		pdf.Ln(1)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Thanking you.", "", 1, "L", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(85, 6, "Date: "+today, "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, "L&D Section Head", "", 1, "R", false, 0, "")

	reference := fmt.Sprintf("IOCL-APPROVAL:%s:%d", intern.InternID, application.ID)
	if err := embedVerificationQR(pdf, reference); err != nil {
		return dbError(c, err)
	}

	return sendPDF(c, pdf, fmt.Sprintf("approval-letter-%s.pdf", intern.InternID))
}

// CompletionCertificatePDF generates the internship completion certificate.
// The intern must have completed the internship and hold an approved project.
func CompletionCertificatePDF(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var intern model.Intern
	err := middleware.DBConn.
		Where("intern_id = ?", c.Params("internId")).First(&intern).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "Intern not found")
	} else if err != nil {
		return dbError(c, err)
	}

	if actor.IsIntern() && intern.InternID != actor.EmpID {
		return forbidden(c)
	}
	if intern.Status != model.InternCompleted {
		return badRequest(c, "Internship must be completed to generate certificate")
	}

	var project model.Project
	err = middleware.DBConn.Preload("Mentor").
		Where("intern_id = ? AND status = ?", intern.ID, model.ProjectApproved).
		Order("reviewed_at DESC").
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, "No approved project found for certificate generation")
	} else if err != nil {
		return dbError(c, err)
	}

	grade := project.Grade
	if grade == "" {
		grade = "N/A"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	// Double border.
	pageWidth, pageHeight := pdf.GetPageSize()
	pdf.Rect(10, 10, pageWidth-20, pageHeight-20, "D")
	pdf.Rect(13, 13, pageWidth-26, pageHeight-26, "D")

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 9, "INDIAN OIL CORPORATION LIMITED", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 7, "Pipelines Division, Noida", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "BU", 15)
	pdf.CellFormat(0, 8, "INDUSTRIAL INTERNSHIP COMPLETION CERTIFICATE", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	body := fmt.Sprintf(
		"This is to certify that the below student has successfully completed the Industrial Internship Project for the period from %s to %s at Indian Oil Corporation Limited, Pipelines Division, Noida.",
		intern.StartDate.Format("02/01/2006"),
		intern.EndDate.Format("02/01/2006"),
	)
	pdf.MultiCell(0, 6, body, "", "J", false)
	pdf.Ln(6)

	details := [][2]string{
		{"Name of the Student", intern.Name},
		{"Intern ID", intern.InternID},
		{"Department", intern.Department},
		{"Project Title", project.Title},
		{"Grade", grade},
		{"Name of the Industry Mentor", project.Mentor.Name},
		{"Email ID of the Industry Mentor", project.Mentor.Email},
		{"Contact No of the Industry Mentor", project.Mentor.Phone},
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 9, "Particulars", "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 9, "Details", "1", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, row := range details {
		pdf.CellFormat(80, 9, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 9, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "We wish him/her all the best in his/her future endeavors.", "", 1, "L", false, 0, "")
	pdf.Ln(14)
	pdf.CellFormat(55, 6, "Date: "+time.Now().Format("02/01/2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "OFFICIAL SEAL", "", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "L&D Section Head", "", 1, "R", false, 0, "")

	reference := fmt.Sprintf("IOCL-COMPLETION:%s:%d", intern.InternID, project.ID)
	if err := embedVerificationQR(pdf, reference); err != nil {
		return dbError(c, err)
	}

	return sendPDF(c, pdf, fmt.Sprintf("completion-certificate-%s.pdf", intern.InternID))
}
