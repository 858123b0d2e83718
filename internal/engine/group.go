package engine

import (
	"sort"
	"strings"

	"github.com/hubtray/hubtray/internal/model"
)

// Group partitions threads into display groups by repository full name.
// Within a group, items are sorted by UpdatedAt descending; groups are
// sorted by repository name ascending. Both orderings are stable, so the
// same input always yields the same output regardless of input order.
func Group(threads []model.Thread) []model.DisplayGroup {
	byRepo := make(map[string][]model.DisplayItem)
	for _, t := range threads {
		item := model.DisplayItem{
			Thread: t,
			WebURL: CanonicalURL(t),
		}
		byRepo[t.Repository.FullName] = append(
			byRepo[t.Repository.FullName], item,
		)
	}

	groups := make([]model.DisplayGroup, 0, len(byRepo))
	for repo, items := range byRepo {
		sort.SliceStable(items, func(i, j int) bool {
			if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
				return items[i].UpdatedAt.After(items[j].UpdatedAt)
			}
			// Tie-break on id so equal timestamps stay deterministic.
			return items[i].ID < items[j].ID
		})
		groups = append(groups, model.DisplayGroup{
			RepositoryKey: repo,
			Items:         items,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].RepositoryKey < groups[j].RepositoryKey
	})

	return groups
}

// CanonicalURL computes the browser link for a thread's subject from its
// subject type and the identifier in the final path segment of the
// subject API URL. Unknown subject types fall back to the bare repository
// URL.
func CanonicalURL(t model.Thread) string {
	repoURL := "https://github.com/" + t.Repository.FullName

	n := lastPathSegment(t.SubjectAPIURL)
	if n == "" {
		return repoURL
	}

	switch t.SubjectType {
	case model.SubjectIssue:
		return repoURL + "/issues/" + n
	case model.SubjectPullRequest:
		return repoURL + "/pull/" + n
	case model.SubjectCommit:
		return repoURL + "/commit/" + n
	case model.SubjectRelease:
		return repoURL + "/releases/tag/" + n
	case model.SubjectDiscussion:
		return repoURL + "/discussions/" + n
	default:
		return repoURL
	}
}

// lastPathSegment returns the final non-empty path segment of a URL.
func lastPathSegment(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	return trimmed[idx+1:]
}
