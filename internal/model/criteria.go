package model

// Criteria holds the user's filter selections across the four filter
// dimensions. An empty set for any dimension means "no constraint on that
// dimension", never "exclude all".
type Criteria struct {
	// Organizations selects owner ids or logins.
	Organizations []string

	// Repositories selects repository ids. When non-empty it takes
	// precedence over Organizations and narrows to exactly those
	// repositories.
	Repositories []string

	// SubjectTypes selects subject kinds.
	SubjectTypes []SubjectType

	// Reasons selects notification reasons.
	Reasons []Reason
}

// IsEmpty reports whether no dimension carries a selection.
func (c Criteria) IsEmpty() bool {
	return len(c.Organizations) == 0 &&
		len(c.Repositories) == 0 &&
		len(c.SubjectTypes) == 0 &&
		len(c.Reasons) == 0
}
