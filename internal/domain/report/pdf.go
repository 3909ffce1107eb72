package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// ErrNoEvaluations rejects a report request for an employee with no
// matching evaluation records.
var ErrNoEvaluations = errors.New("no evaluation records for employee")

// GenerateEmployeeReport renders the employee dashboard as a PDF file and
// returns its path.
func (s *Service) GenerateEmployeeReport(ctx context.Context, employeeID string, years []int) (string, error) {
	dashboard, err := s.EmployeeDashboard(ctx, employeeID, years)
	if err != nil {
		return "", err
	}
	if !dashboard.HasData {
		return "", ErrNoEvaluations
	}

	if err := os.MkdirAll(s.ReportsDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.ReportsDir, "evaluation-"+employeeID+"-"+uuid.NewString()+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "360 Evaluation Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", dashboard.Employee.Name, dashboard.Employee.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", dashboard.Employee.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Years: %s", joinYears(dashboard.Years)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Evaluators: %d", dashboard.EvaluatorCount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Average Scores")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range dashboard.Averages {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %.2f", row.CaptionEN, row.Score))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Top Strengths")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range dashboard.TopStrengths {
		pdf.Cell(0, 7, fmt.Sprintf("%s (%.2f)", row.Criteria, row.Score))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Improvement Opportunities")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range dashboard.Opportunities {
		pdf.Cell(0, 7, fmt.Sprintf("%s (%.2f)", row.Criteria, row.Score))
		pdf.Ln(6)
	}

	if len(dashboard.SelfVsOthers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Self vs Others")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range dashboard.SelfVsOthers {
			pdf.Cell(0, 7, fmt.Sprintf("%s: self %s, others %s", row.Caption, formatScore(row.Self), formatScore(row.Others)))
			pdf.Ln(6)
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func joinYears(years []int) string {
	if len(years) == 0 {
		return "all"
	}
	out := ""
	for i, year := range years {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(year)
	}
	return out
}

// formatScore renders a possibly-missing mean; absent sides are printed as
// a dash, never as zero.
func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
