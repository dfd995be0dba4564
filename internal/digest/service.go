package digest

import (
	"context"
	"time"

	"github.com/victorprouff/envrac/internal/todoist"
)

// TaskSource lists the open tasks of a project, already classified.
type TaskSource interface {
	ListOpenTasks(ctx context.Context, projectID string) ([]todoist.Task, error)
}

// Service runs the aggregation pipeline end to end. Each invocation is an
// independent run; the only shared state is the publisher's in-flight guard.
type Service struct {
	locator   *Locator
	composer  *Composer
	publisher *Publisher
	tasks     TaskSource
	projectID string
	now       func() time.Time
}

// NewService wires the pipeline. A nil clock falls back to time.Now.
func NewService(locator *Locator, composer *Composer, publisher *Publisher, tasks TaskSource, projectID string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		locator:   locator,
		composer:  composer,
		publisher: publisher,
		tasks:     tasks,
		projectID: projectID,
		now:       now,
	}
}

// Compose runs every step short of publishing and returns the article text.
// The last-two lookup runs first: without enough history there is nothing to
// compose and no task fetch happens.
func (s *Service) Compose(ctx context.Context) (string, error) {
	last1, last2, err := s.locator.LastTwo(ctx)
	if err != nil {
		return "", err
	}

	tasks, err := s.tasks.ListOpenTasks(ctx, s.projectID)
	if err != nil {
		return "", err
	}

	groups := GroupByCategory(tasks)
	return s.composer.Head(s.now(), last1, last2) + s.composer.Body(groups), nil
}

// Run composes and publishes the digest, returning the committed path.
// Either the whole pipeline completes and one commit is made, or nothing is
// published.
func (s *Service) Run(ctx context.Context) (string, error) {
	article, err := s.Compose(ctx)
	if err != nil {
		return "", err
	}
	return s.publisher.Publish(ctx, s.now(), article)
}
