package employee

import "errors"

var (
	ErrDuplicateID = errors.New("employee id already exists")
	ErrNotFound    = errors.New("employee not found")
)
