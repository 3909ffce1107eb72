package report

import "errors"

var (
	// ErrNoTarget means progress cannot be computed because the criterion
	// has no usable target (absent or zero). Distinct from a measured
	// zero-progress result.
	ErrNoTarget = errors.New("criterion has no usable target value")
	// ErrNoData means no numeric records exist for the criterion, so no
	// ratio can be derived at all.
	ErrNoData = errors.New("no numeric records for criterion")
)
