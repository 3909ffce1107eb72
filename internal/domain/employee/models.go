package employee

type Employee struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// ImportMode controls how a bulk upload is merged with the existing
// registry.
type ImportMode string

const (
	// ImportReplace drops the current registry and keeps only the
	// uploaded rows.
	ImportReplace ImportMode = "replace"
	// ImportAppend merges uploaded rows into the registry; an uploaded row
	// with an existing employee id wins over the stored one.
	ImportAppend ImportMode = "append"
)
