// Package todoist fetches open tasks from the Todoist REST API.
package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/victorprouff/envrac/internal/apperr"
	"github.com/victorprouff/envrac/internal/category"
)

// DefaultBaseURL is the production Todoist REST endpoint.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// Classifier assigns a category to a raw section id.
type Classifier func(sectionID string) category.Category

// SectionID tolerates both the string and numeric encodings the API has used
// across versions.
type SectionID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (s *SectionID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SectionID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("section id: %w", err)
	}
	*s = SectionID(n.String())
	return nil
}

// Task is one open item of the watched project. Category is attached once,
// right after deserialization, and read-only afterwards.
type Task struct {
	Content     string            `json:"content"`
	Description string            `json:"description"`
	SectionID   SectionID         `json:"section_id"`
	Category    category.Category `json:"-"`
}

// Client calls the Todoist REST API with a bearer token and a per-call
// deadline.
type Client struct {
	http     *http.Client
	baseURL  string
	token    string
	timeout  time.Duration
	classify Classifier
}

// NewClient creates a Todoist client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL, token string, timeout time.Duration, classify Classifier) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:     &http.Client{},
		baseURL:  baseURL,
		token:    token,
		timeout:  timeout,
		classify: classify,
	}
}

// ListOpenTasks fetches the open tasks of a project and classifies each one
// by its raw section id. Any non-2xx response fails the call with the remote
// body preserved verbatim.
func (c *Client) ListOpenTasks(ctx context.Context, projectID string) ([]Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/tasks?project_id=%s", c.baseURL, url.QueryEscape(projectID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.UpstreamError{Service: "todoist", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.UpstreamError{Service: "todoist", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.UpstreamError{Service: "todoist", Status: resp.StatusCode, Body: string(body)}
	}

	tasks, err := decodeTasks(body)
	if err != nil {
		return nil, fmt.Errorf("todoist: decode tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].Category = c.classify(string(tasks[i].SectionID))
	}
	return tasks, nil
}

// decodeTasks accepts both response shapes the API has used over time: a
// results envelope and a bare array.
func decodeTasks(body []byte) ([]Task, error) {
	var envelope struct {
		Results []Task `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results, nil
	}

	var tasks []Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
