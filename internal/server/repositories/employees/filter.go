package employees

import "github.com/dmitrijs2005/staffkeeper/internal/server/apperr"

// FilterKind selects which fields a search matches on.
type FilterKind int

const (
	// ByDesignation matches the designation field only.
	ByDesignation FilterKind = iota + 1
	// ByDepartment matches the department field only.
	ByDepartment
	// ByEither matches employees whose designation OR department matches.
	// Union, not intersection: two terms widen the result set.
	ByEither
)

// SearchFilter is an explicit search variant. Matching is case-insensitive
// substring on the selected field(s).
type SearchFilter struct {
	Kind        FilterKind
	Designation string
	Department  string
}

// NewSearchFilter builds the filter variant from the optional search terms.
// Both terms absent is a caller error.
func NewSearchFilter(designation, department string) (SearchFilter, error) {
	switch {
	case designation != "" && department != "":
		return SearchFilter{Kind: ByEither, Designation: designation, Department: department}, nil
	case designation != "":
		return SearchFilter{Kind: ByDesignation, Designation: designation}, nil
	case department != "":
		return SearchFilter{Kind: ByDepartment, Department: department}, nil
	default:
		return SearchFilter{}, apperr.BadRequest("provide designation or department to search")
	}
}
