package model

import "time"

// SubjectType identifies the kind of GitHub entity a notification concerns.
type SubjectType string

const (
	SubjectIssue       SubjectType = "Issue"
	SubjectPullRequest SubjectType = "PullRequest"
	SubjectCommit      SubjectType = "Commit"
	SubjectRelease     SubjectType = "Release"
	SubjectDiscussion  SubjectType = "Discussion"
)

// SubjectTypes lists all known subject types in display order.
var SubjectTypes = []SubjectType{
	SubjectIssue,
	SubjectPullRequest,
	SubjectCommit,
	SubjectRelease,
	SubjectDiscussion,
}

// Reason is GitHub's classification of why a notification was generated.
type Reason string

const (
	ReasonAssign          Reason = "assign"
	ReasonAuthor          Reason = "author"
	ReasonComment         Reason = "comment"
	ReasonInvitation      Reason = "invitation"
	ReasonManual          Reason = "manual"
	ReasonMention         Reason = "mention"
	ReasonPush            Reason = "push"
	ReasonReviewRequested Reason = "review_requested"
	ReasonSecurityAlert   Reason = "security_alert"
	ReasonStateChange     Reason = "state_change"
	ReasonSubscribed      Reason = "subscribed"
	ReasonTeamMention     Reason = "team_mention"
)

// Owner identifies the user or organization that owns a repository.
type Owner struct {
	// ID is the owner's numeric GitHub id as a string.
	ID string

	// Login is the owner's account name.
	Login string
}

// Repository references the repository a notification thread belongs to.
// Owner is nil when the feed did not include an owner object; callers that
// filter by organization must treat a nil Owner as "does not match".
type Repository struct {
	// ID is the repository's numeric GitHub id as a string.
	ID string

	// FullName is the "owner/name" form of the repository.
	FullName string

	// Owner is the owning user or organization, if known.
	Owner *Owner
}

// Thread is the unified representation of one GitHub notification thread.
// Its ID is stable across fetches for the same underlying subject, and
// UpdatedAt is non-decreasing for a given ID while the thread is open.
type Thread struct {
	// ID is the notification thread identifier assigned by GitHub.
	ID string

	// Repository is the repository the thread belongs to.
	Repository Repository

	// SubjectType is the kind of entity the thread concerns.
	SubjectType SubjectType

	// SubjectTitle is the title of the underlying issue, PR, etc.
	SubjectTitle string

	// SubjectAPIURL is the REST API URL of the underlying subject. The
	// numeric identifier in its final path segment is used to derive the
	// canonical web URL.
	SubjectAPIURL string

	// Reason is why this notification was generated.
	Reason Reason

	// Unread reports whether GitHub still considers the thread unread.
	Unread bool

	// UpdatedAt is when the thread was last updated upstream.
	UpdatedAt time.Time
}

// HasRepository reports whether the thread carries a usable repository
// reference. Threads without one are excluded from filtered views.
func (t Thread) HasRepository() bool {
	return t.Repository.ID != "" && t.Repository.FullName != ""
}
