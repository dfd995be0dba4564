// Package github is a minimal client for the GitHub repository contents API,
// covering the two calls the pipeline needs: listing a directory and
// committing a new file.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/victorprouff/envrac/internal/apperr"
)

// DefaultBaseURL is the production GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

const apiVersion = "2022-11-28"

// Entry is one element of a directory listing.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Entry types as reported by the contents API.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// Committer identifies who signs a commit.
type Committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitRequest is the payload of a contents-API file creation. Content must
// be base64-encoded.
type CommitRequest struct {
	Message   string    `json:"message"`
	Committer Committer `json:"committer"`
	Author    Committer `json:"author"`
	Content   string    `json:"content"`
	Branch    string    `json:"branch"`
}

// Client calls the contents API of one repository. GitHub requires a
// User-Agent on every request.
type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	userAgent string
	owner     string
	repo      string
	timeout   time.Duration
}

// NewClient creates a contents-API client for owner/repo. An empty baseURL
// selects the production endpoint.
func NewClient(baseURL, token, userAgent, owner, repo string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:      &http.Client{},
		baseURL:   baseURL,
		token:     token,
		userAgent: userAgent,
		owner:     owner,
		repo:      repo,
		timeout:   timeout,
	}
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, path)
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	return req, nil
}

// ListDir lists the entries of a repository directory.
func (c *Client) ListDir(ctx context.Context, dir string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, c.contentsURL(dir), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.UpstreamError{Service: "github", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.UpstreamError{Service: "github", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.UpstreamError{Service: "github", Status: resp.StatusCode, Body: string(body)}
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("github: decode listing of %s: %w", dir, err)
	}
	return entries, nil
}

// CreateFile commits a new file to the repository. The remote reports a
// conflict itself when the path already exists.
func (c *Client) CreateFile(ctx context.Context, path string, commit CommitRequest) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(commit)
	if err != nil {
		return fmt.Errorf("github: encode commit: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &apperr.PublishError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.PublishError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperr.PublishError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}
