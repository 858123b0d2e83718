// Package testutil provides helpers shared by package tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// FeedServer is a fake GitHub notifications endpoint backed by httptest.
// Pages holds the successive pages served for GET /notifications; mark
// operations are recorded for assertions.
type FeedServer struct {
	*httptest.Server

	// MarkedThreads records ids of PATCH /notifications/threads/{id}
	// calls in order.
	MarkedThreads []string

	// MarkedAll counts PUT /notifications calls.
	MarkedAll int

	// FailThreads holds thread ids whose PATCH should fail with 502.
	FailThreads map[string]bool

	pages [][]map[string]interface{}
}

// NewFeedServer creates a fake feed serving the given pages. The server
// closes automatically when the test completes.
func NewFeedServer(
	t *testing.T,
	pages [][]map[string]interface{},
) *FeedServer {
	t.Helper()

	fs := &FeedServer{
		pages:       pages,
		FailThreads: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			fs.MarkedAll++
			w.WriteHeader(http.StatusResetContent)
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		if page > len(fs.pages) {
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
			return
		}
		_ = json.NewEncoder(w).Encode(fs.pages[page-1])
	})
	mux.HandleFunc("/notifications/threads/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/notifications/threads/"):]
		if fs.FailThreads[id] {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fs.MarkedThreads = append(fs.MarkedThreads, id)
		w.WriteHeader(http.StatusResetContent)
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Server.Close)

	return fs
}

// WireThread builds one notification record in the API's wire shape.
func WireThread(
	id, repoID, fullName, ownerLogin, subjectType, apiURL, reason string,
	updatedAt string,
) map[string]interface{} {
	repo := map[string]interface{}{
		"id":        json.Number(repoID),
		"full_name": fullName,
	}
	if ownerLogin != "" {
		repo["owner"] = map[string]interface{}{
			"id":    json.Number("99"),
			"login": ownerLogin,
		}
	}
	return map[string]interface{}{
		"id":         id,
		"repository": repo,
		"subject": map[string]interface{}{
			"title": "subject " + id,
			"url":   apiURL,
			"type":  subjectType,
		},
		"reason":     reason,
		"unread":     true,
		"updated_at": updatedAt,
	}
}
