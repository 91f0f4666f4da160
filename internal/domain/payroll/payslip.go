package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PayslipData is everything the renderer needs for one statement. Period
// display strings are supplied by the caller; the engine never formats
// period boundaries itself.
type PayslipData struct {
	EmployeeName string
	BankName     string
	IBAN         string
	BIC          string
	Project      string
	Currency     string
	PeriodFrom   string
	PeriodTo     string
	Rows         []Row
	Summary      Summary
	GeneratedAt  time.Time
}

// RenderPayslip writes an A4 payroll statement PDF: header, day table,
// summary block and signature lines.
func RenderPayslip(w io.Writer, data PayslipData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "PAYROLL STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s", data.EmployeeName))
	pdf.Ln(5)
	if data.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", data.Project))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", data.PeriodFrom, data.PeriodTo))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Hourly rate: %.2f %s", data.Summary.Rate, data.Currency))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(40, 7, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 7, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Hours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		pdf.CellFormat(40, 7, row.DateUI, "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 7, row.Weekday, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f", row.Hours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", row.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total hours: %.1f", data.Summary.TotalHours))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Gross amount: %.2f %s", data.Summary.GrossAmount, data.Currency))
	pdf.Ln(5)
	if data.Summary.HousingDeduction != 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Housing deduction: -%.2f %s", data.Summary.HousingDeduction, data.Currency))
		pdf.Ln(5)
	}
	if data.Summary.UtilitiesDeduction != 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Utilities deduction: -%.2f %s", data.Summary.UtilitiesDeduction, data.Currency))
		pdf.Ln(5)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Net amount: %.2f %s", data.Summary.NetAmount, data.Currency))
	pdf.Ln(11)

	if data.BankName != "" || data.IBAN != "" {
		pdf.SetFont("Helvetica", "", 9)
		if data.BankName != "" {
			pdf.Cell(0, 5, fmt.Sprintf("Bank: %s", data.BankName))
			pdf.Ln(4)
		}
		if data.IBAN != "" {
			pdf.Cell(0, 5, fmt.Sprintf("IBAN: %s", data.IBAN))
			pdf.Ln(4)
		}
		if data.BIC != "" {
			pdf.Cell(0, 5, fmt.Sprintf("BIC: %s", data.BIC))
			pdf.Ln(4)
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(80, 7, "Employer signature:")
	pdf.Cell(40, 7, "__________________")
	pdf.Ln(8)
	pdf.Cell(80, 7, "Employee signature:")
	pdf.Cell(40, 7, "__________________")
	pdf.Ln(14)

	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated on %s", generated.Format(dateLayoutUI)))

	return pdf.Output(w)
}
