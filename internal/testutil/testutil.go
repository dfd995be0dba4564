// Package testutil provides fake Todoist and GitHub upstreams for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/victorprouff/envrac/internal/github"
)

// Repository owner and name every fake GitHub server answers for.
const (
	Owner = "victorprouff"
	Repo  = "blog.victorprouff.fr"
)

// RecordedCommit is one PUT captured by the fake GitHub server.
type RecordedCommit struct {
	Path    string
	Request github.CommitRequest
}

// GitHubState backs a fake contents API: directory listings to serve and the
// commits received so far.
type GitHubState struct {
	mu       sync.Mutex
	Listings map[string][]github.Entry
	commits  []RecordedCommit

	// PutStatus, when non-zero, is returned for every commit instead of 201.
	PutStatus int
	// PutBody is the response body sent along with PutStatus.
	PutBody string
}

// Commits returns a copy of the recorded commits.
func (s *GitHubState) Commits() []RecordedCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedCommit(nil), s.commits...)
}

// NewGitHubServer starts a fake contents API for Owner/Repo, closed on test
// cleanup. Listings are keyed by directory path (e.g. "content/en-vracs").
func NewGitHubServer(t *testing.T, state *GitHubState) *httptest.Server {
	t.Helper()

	prefix := "/repos/" + Owner + "/" + Repo + "/contents/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, prefix)

		switch r.Method {
		case http.MethodGet:
			state.mu.Lock()
			entries, ok := state.Listings[path]
			state.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(entries)

		case http.MethodPut:
			var commit github.CommitRequest
			if err := json.NewDecoder(r.Body).Decode(&commit); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			state.mu.Lock()
			status, body := state.PutStatus, state.PutBody
			if status == 0 {
				state.commits = append(state.commits, RecordedCommit{Path: path, Request: commit})
			}
			state.mu.Unlock()
			if status != 0 {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(body))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"content":{"path":"` + path + `"}}`))

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewTodoistServer starts a fake task API that answers GET /tasks with the
// given payload, closed on test cleanup.
func NewTodoistServer(t *testing.T, status int, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}
