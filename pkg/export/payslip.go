package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PayslipData carries everything printed on a monthly payslip.
type PayslipData struct {
	CompanyName  string
	EmployeeNo   string
	EmployeeName string
	Department   string
	Year         int
	Month        time.Month
	BasicAmount  float64
	Allowances   float64
	Deductions   float64
	NetAmount    float64
	PaidAt       *time.Time
	GeneratedAt  time.Time
}

// PayslipRenderer renders monthly payslips as PDF documents.
type PayslipRenderer struct{}

// NewPayslipRenderer constructs a payslip renderer.
func NewPayslipRenderer() *PayslipRenderer {
	return &PayslipRenderer{}
}

// Render produces the PDF bytes for one payslip.
func (r *PayslipRenderer) Render(data PayslipData) ([]byte, error) {
	if data.EmployeeNo == "" || data.EmployeeName == "" {
		return nil, fmt.Errorf("payslip requires employee identity")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, data.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Payslip for %s %d", data.Month, data.Year), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	identity := [][2]string{
		{"Employee No", data.EmployeeNo},
		{"Name", data.EmployeeName},
		{"Department", data.Department},
	}
	for _, row := range identity {
		pdf.CellFormat(40, 7, row[0], "", 0, "", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 8, "Component", "1", 0, "", false, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	components := []struct {
		label  string
		amount float64
	}{
		{"Basic salary", data.BasicAmount},
		{"Allowances", data.Allowances},
		{"Deductions", -data.Deductions},
	}
	for _, c := range components {
		pdf.CellFormat(120, 7, c.label, "1", 0, "", false, 0, "")
		pdf.CellFormat(60, 7, fmt.Sprintf("%.2f", c.amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 8, "Net pay", "1", 0, "", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("%.2f", data.NetAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "I", 8)
	if data.PaidAt != nil {
		pdf.CellFormat(0, 5, "Paid on "+data.PaidAt.Format("2 January 2006"), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Generated "+data.GeneratedAt.Format("2 January 2006 15:04 MST"), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
