package employee

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var workbookColumns = []string{"employee_id", "name", "department"}

// ParseWorkbook reads employee rows from the first sheet of an uploaded
// .xlsx workbook. The header row must contain employee_id, name and
// department columns (any order, case-insensitive); extra columns are
// ignored. Rows with a blank employee id are skipped, other blank fields
// are reported with their row number.
func ParseWorkbook(r io.Reader) ([]Employee, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty, expected a header row with columns %s", sheets[0], strings.Join(workbookColumns, ", "))
	}

	columns, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var employees []Employee
	for i, row := range rows[1:] {
		rowNum := i + 2
		emp := Employee{
			EmployeeID: strings.TrimSpace(cell(row, columns["employee_id"])),
			Name:       strings.TrimSpace(cell(row, columns["name"])),
			Department: strings.TrimSpace(cell(row, columns["department"])),
		}
		if emp.EmployeeID == "" && emp.Name == "" && emp.Department == "" {
			continue
		}
		if emp.EmployeeID == "" {
			return nil, fmt.Errorf("row %d: employee_id is empty", rowNum)
		}
		if emp.Name == "" {
			return nil, fmt.Errorf("row %d: name is empty for employee %s", rowNum, emp.EmployeeID)
		}
		if emp.Department == "" {
			return nil, fmt.Errorf("row %d: department is empty for employee %s", rowNum, emp.EmployeeID)
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(workbookColumns))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, required := range workbookColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("workbook is missing required column(s): %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

// DedupeKeepLast collapses duplicate employee ids within one upload; the
// last occurrence wins, matching how appended uploads overwrite earlier
// rows.
func DedupeKeepLast(employees []Employee) []Employee {
	lastIndex := make(map[string]int, len(employees))
	for i, emp := range employees {
		lastIndex[emp.EmployeeID] = i
	}
	deduped := make([]Employee, 0, len(lastIndex))
	for i, emp := range employees {
		if lastIndex[emp.EmployeeID] == i {
			deduped = append(deduped, emp)
		}
	}
	return deduped
}
