package model

// DisplayItem is a Thread prepared for presentation, with its canonical
// web URL already resolved.
type DisplayItem struct {
	Thread

	// WebURL is the browser link for the thread's subject.
	WebURL string
}

// DisplayGroup is an ordered set of display items for one repository.
// Items are sorted by UpdatedAt descending.
type DisplayGroup struct {
	// RepositoryKey is the repository full name the group covers.
	RepositoryKey string

	// Items are the group's notifications, most recently updated first.
	Items []DisplayItem
}

// CountItems returns the total number of items across groups.
func CountItems(groups []DisplayGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}
