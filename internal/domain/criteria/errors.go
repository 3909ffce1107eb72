package criteria

import "errors"

var (
	ErrDepartmentRequired = errors.New("department must not be empty")
	ErrDuplicateKey       = errors.New("criteria key defined more than once in scope")
)
