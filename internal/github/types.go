package github

import (
	"encoding/json"
	"time"

	"github.com/hubtray/hubtray/internal/model"
)

// apiOwner mirrors the owner object embedded in a notification's
// repository.
type apiOwner struct {
	ID    json.Number `json:"id"`
	Login string      `json:"login"`
}

// apiRepository mirrors the repository object of a notification thread.
type apiRepository struct {
	ID       json.Number `json:"id"`
	FullName string      `json:"full_name"`
	Owner    *apiOwner   `json:"owner"`
}

// apiSubject mirrors the subject object of a notification thread.
type apiSubject struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// apiThread mirrors one element of the GET /notifications response.
type apiThread struct {
	ID         string        `json:"id"`
	Repository apiRepository `json:"repository"`
	Subject    apiSubject    `json:"subject"`
	Reason     string        `json:"reason"`
	Unread     bool          `json:"unread"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// toThread validates a wire thread and converts it to the internal model.
// It returns false when the record is malformed (missing id, repository,
// or subject type); such records are dropped from the batch rather than
// failing the whole fetch.
func (t apiThread) toThread() (model.Thread, bool) {
	if t.ID == "" {
		return model.Thread{}, false
	}
	if t.Repository.ID.String() == "" || t.Repository.FullName == "" {
		return model.Thread{}, false
	}
	if t.Subject.Type == "" {
		return model.Thread{}, false
	}

	repo := model.Repository{
		ID:       t.Repository.ID.String(),
		FullName: t.Repository.FullName,
	}
	if t.Repository.Owner != nil && t.Repository.Owner.Login != "" {
		repo.Owner = &model.Owner{
			ID:    t.Repository.Owner.ID.String(),
			Login: t.Repository.Owner.Login,
		}
	}

	return model.Thread{
		ID:            t.ID,
		Repository:    repo,
		SubjectType:   model.SubjectType(t.Subject.Type),
		SubjectTitle:  t.Subject.Title,
		SubjectAPIURL: t.Subject.URL,
		Reason:        model.Reason(t.Reason),
		Unread:        t.Unread,
		UpdatedAt:     t.UpdatedAt,
	}, true
}
