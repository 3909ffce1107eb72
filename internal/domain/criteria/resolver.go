package criteria

import (
	"fmt"
	"strings"
)

// Resolve returns the criteria applicable to one department: Core rows
// first, then the department's own rows, each group in source order. That
// order is what the evaluation form presents and what reports group by, so
// it must not be re-sorted. A department with no rows of its own resolves
// to the Core list alone; that is a valid (possibly empty) result.
func Resolve(department string, source []Definition) ([]Definition, error) {
	if strings.TrimSpace(department) == "" {
		return nil, ErrDepartmentRequired
	}

	resolved := make([]Definition, 0, len(source))
	for _, def := range source {
		if def.Department == DepartmentCore {
			resolved = append(resolved, normalize(def))
		}
	}
	if department != DepartmentCore {
		for _, def := range source {
			if def.Department == department {
				resolved = append(resolved, normalize(def))
			}
		}
	}

	seen := make(map[string]struct{}, len(resolved))
	for _, def := range resolved {
		if _, dup := seen[def.Key]; dup {
			return nil, fmt.Errorf("criteria key %q appears more than once for department %q: %w", def.Key, department, ErrDuplicateKey)
		}
		seen[def.Key] = struct{}{}
	}

	return resolved, nil
}

// normalize fills the storage-optional fields: answer type falls back to
// rating, captions fall back to the raw key.
func normalize(def Definition) Definition {
	if def.Type == "" {
		def.Type = AnswerRating
	}
	if strings.TrimSpace(def.CaptionEN) == "" {
		def.CaptionEN = def.Key
	}
	if strings.TrimSpace(def.CaptionTH) == "" {
		def.CaptionTH = def.Key
	}
	return def
}

// Captions returns display labels keyed by criteria key for a resolved list.
func Captions(resolved []Definition) map[string]string {
	captions := make(map[string]string, len(resolved))
	for _, def := range resolved {
		captions[def.Key] = def.CaptionEN
	}
	return captions
}

// Keys returns the resolved criteria keys in presentation order.
func Keys(resolved []Definition) []string {
	keys := make([]string, 0, len(resolved))
	for _, def := range resolved {
		keys = append(keys, def.Key)
	}
	return keys
}
