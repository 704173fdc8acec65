package service

import (
	"bytes"
	"fmt"

	"clinic-backend/internal/domain/entity"

	"github.com/jung-kurt/gofpdf"
)

// PrescriptionRenderer produces a printable PDF for a prescription.
type PrescriptionRenderer interface {
	Render(prescription *entity.Prescription) ([]byte, error)
}

type pdfPrescriptionRenderer struct{}

func NewPDFPrescriptionRenderer() PrescriptionRenderer {
	return &pdfPrescriptionRenderer{}
}

func (r *pdfPrescriptionRenderer) Render(p *entity.Prescription) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Clinic letterhead
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 70, 120)
	pdf.CellFormat(0, 10, p.ClinicName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, p.DoctorName, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Prescription", "1", 1, "C", false, 0, "")

	addDetailRow(pdf, "Patient", p.PatientName, false)
	addDetailRow(pdf, "Age / Gender", fmt.Sprintf("%d / %s", p.PatientAge, p.PatientGender), false)
	addDetailRow(pdf, "Phone", p.PatientPhone, false)
	addDetailRow(pdf, "Date", p.CreatedAt.Format("02 Jan 2006"), false)
	pdf.Ln(6)

	// Medicine table
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(10, 9, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 9, "Medicine", "1", 0, "", true, 0, "")
	pdf.CellFormat(25, 9, "Days", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 9, "Dosage", "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 9, "Notes", "1", 1, "", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range p.Items {
		pdf.CellFormat(10, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(75, 8, item.Medicine, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Days), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, entity.FormatDosagePattern(item.Pattern), "1", 0, "C", false, 0, "")
		pdf.CellFormat(0, 8, item.Notes, "1", 1, "", false, 0, "")
	}

	pdf.SetY(pdf.GetY() + 15)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 8, "Dosage reads as morning-afternoon-night, e.g. 1-0-1.", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, p.DoctorName, "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addDetailRow(pdf *gofpdf.Fpdf, label, value string, highlight bool) {
	if highlight {
		pdf.SetFont("Arial", "B", 11)
	} else {
		pdf.SetFont("Arial", "", 10)
	}
	pdf.CellFormat(45, 9, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 9, value, "1", 1, "", false, 0, "")
}
