// Package engine implements the notification pipeline: filtering,
// reconciliation against the previous fetch, display grouping, alert
// decisions, and read-state mutation.
package engine

import "github.com/hubtray/hubtray/internal/model"

// Filter applies the compound filter criteria to a set of threads. It is
// pure and deterministic; order and content of matching records are
// preserved.
//
// Dimensions combine with logical AND; selections within one dimension
// combine with logical OR. An empty selection set imposes no constraint on
// its dimension. Repository selections take precedence over organization
// selections: selecting any repository narrows to exactly those
// repositories regardless of the organization set.
func Filter(threads []model.Thread, criteria model.Criteria) []model.Thread {
	if criteria.IsEmpty() {
		return threads
	}

	repos := stringSet(criteria.Repositories)
	orgs := stringSet(criteria.Organizations)
	types := make(map[model.SubjectType]struct{}, len(criteria.SubjectTypes))
	for _, t := range criteria.SubjectTypes {
		types[t] = struct{}{}
	}
	reasons := make(map[model.Reason]struct{}, len(criteria.Reasons))
	for _, r := range criteria.Reasons {
		reasons[r] = struct{}{}
	}

	out := make([]model.Thread, 0, len(threads))
	for _, t := range threads {
		// Fail closed: a thread without a usable repository reference
		// never matches a constrained view.
		if !t.HasRepository() {
			continue
		}
		if !matchesRepoDimension(t, repos, orgs) {
			continue
		}
		if len(types) > 0 {
			if _, ok := types[t.SubjectType]; !ok {
				continue
			}
		}
		if len(reasons) > 0 {
			if _, ok := reasons[t.Reason]; !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// matchesRepoDimension evaluates the combined repository/organization
// dimension for one thread.
func matchesRepoDimension(
	t model.Thread,
	repos map[string]struct{},
	orgs map[string]struct{},
) bool {
	if len(repos) > 0 {
		_, ok := repos[t.Repository.ID]
		return ok
	}
	if len(orgs) > 0 {
		owner := t.Repository.Owner
		if owner == nil {
			return false
		}
		if _, ok := orgs[owner.ID]; ok {
			return true
		}
		_, ok := orgs[owner.Login]
		return ok
	}
	return true
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
