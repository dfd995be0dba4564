package digest

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/victorprouff/envrac/internal/apperr"
	"github.com/victorprouff/envrac/internal/category"
	"github.com/victorprouff/envrac/internal/github"
	"github.com/victorprouff/envrac/internal/todoist"
)

type fakeTasks struct {
	tasks []todoist.Task
	err   error
	calls int
}

func (f *fakeTasks) ListOpenTasks(context.Context, string) ([]todoist.Task, error) {
	f.calls++
	return f.tasks, f.err
}

func fixedClock(date string) func() time.Time {
	return func() time.Time {
		now, _ := time.Parse("2006-01-02", date)
		return now
	}
}

func historyListings() map[string][]github.Entry {
	return map[string][]github.Entry{
		"content/en-vracs": {dir("2024")},
		"content/en-vracs/2024": {
			file("2024-06-11-envrac.md"),
			file("2024-06-04-envrac.md"),
		},
	}
}

func testService(repo *fakeRepo, tasks *fakeTasks, date string) *Service {
	locator := NewLocator(repo, "content/en-vracs")
	composer := NewComposer(blogURL)
	publisher := NewPublisher(repo, "content/en-vracs", "main", "Nouvel article En Vrac",
		github.Committer{Name: "Victor Prouff", Email: "victor@example.com"})
	return NewService(locator, composer, publisher, tasks, "2332182173", fixedClock(date))
}

func TestFilenamePattern(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-envrac\.md$`)
	name := Filename(time.Date(2024, 6, 18, 23, 59, 0, 0, time.UTC))
	if !pattern.MatchString(name) {
		t.Errorf("Filename = %q", name)
	}
	if name != "2024-06-18-envrac.md" {
		t.Errorf("Filename = %q, want 2024-06-18-envrac.md", name)
	}
}

func TestRunPublishesComposedArticle(t *testing.T) {
	repo := &fakeRepo{listings: historyListings()}
	tasks := &fakeTasks{tasks: []todoist.Task{
		{Content: "Une vidéo", Description: "géniale", Category: category.Video},
		{Content: "Ignoré", Category: category.Deferred},
	}}
	svc := testService(repo, tasks, "2024-06-18")

	published, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if published != "content/en-vracs/2024/2024-06-18-envrac.md" {
		t.Errorf("published = %q", published)
	}
	if len(repo.commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(repo.commits))
	}

	commit := repo.commits[0]
	if commit.request.Branch != "main" || commit.request.Message != "Nouvel article En Vrac" {
		t.Errorf("commit request = %+v", commit.request)
	}
	if commit.request.Committer.Name != "Victor Prouff" || commit.request.Author != commit.request.Committer {
		t.Errorf("committer/author = %+v / %+v", commit.request.Committer, commit.request.Author)
	}

	decoded, err := base64.StdEncoding.DecodeString(commit.request.Content)
	if err != nil {
		t.Fatalf("decode content: %v", err)
	}
	article := string(decoded)
	if !strings.Contains(article, "title: \"[En Vrac] - 18 Juin\"") {
		t.Errorf("article head wrong:\n%s", article)
	}
	if !strings.Contains(article, "- Une vidéo - géniale") {
		t.Errorf("article body wrong:\n%s", article)
	}
	if strings.Contains(article, "Ignoré") {
		t.Errorf("deferred task leaked:\n%s", article)
	}
}

func TestPublishBase64RoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	publisher := NewPublisher(repo, "content/en-vracs", "main", "msg", github.Committer{})

	content := "---\ntitle: \"[En Vrac] - 18 Juin\"\n---\n\nHello ! 😊 Très spécial: éàüñ€"
	if _, err := publisher.Publish(context.Background(), fixedClock("2024-06-18")(), content); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(repo.commits[0].request.Content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != content {
		t.Errorf("round trip mismatch:\n%q\n%q", content, string(decoded))
	}
}

func TestRunStopsOnInsufficientHistory(t *testing.T) {
	repo := &fakeRepo{listings: map[string][]github.Entry{
		"content/en-vracs": {file("2024-06-11-envrac.md")},
	}}
	tasks := &fakeTasks{}
	svc := testService(repo, tasks, "2024-06-18")

	_, err := svc.Run(context.Background())
	if !errors.Is(err, apperr.ErrInsufficientHistory) {
		t.Fatalf("err = %v, want ErrInsufficientHistory", err)
	}
	if len(repo.commits) != 0 {
		t.Error("no publish call may happen without history")
	}
	if tasks.calls != 0 {
		t.Error("task fetch should not run without history")
	}
}

func TestRunStopsOnTaskFetchFailure(t *testing.T) {
	repo := &fakeRepo{listings: historyListings()}
	tasks := &fakeTasks{err: &apperr.UpstreamError{Service: "todoist", Status: 500, Body: "boom"}}
	svc := testService(repo, tasks, "2024-06-18")

	_, err := svc.Run(context.Background())
	var ue *apperr.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if len(repo.commits) != 0 {
		t.Error("no publish call may happen after a failed task fetch")
	}
}

func TestComposeDoesNotPublish(t *testing.T) {
	repo := &fakeRepo{listings: historyListings()}
	tasks := &fakeTasks{tasks: []todoist.Task{{Content: "x", Category: category.Tool}}}
	svc := testService(repo, tasks, "2024-06-18")

	article, err := svc.Compose(context.Background())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(article, "## 🛠️ Tools") {
		t.Errorf("article missing tools section:\n%s", article)
	}
	if len(repo.commits) != 0 {
		t.Error("Compose must not commit anything")
	}
}

func TestPublishPropagatesPublishError(t *testing.T) {
	repo := &fakeRepo{
		listings: historyListings(),
		putErr:   &apperr.PublishError{Status: 422, Body: `{"message":"exists"}`},
	}
	tasks := &fakeTasks{}
	svc := testService(repo, tasks, "2024-06-18")

	_, err := svc.Run(context.Background())
	var pe *apperr.PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PublishError", err)
	}
	if pe.Status != 422 {
		t.Errorf("status = %d", pe.Status)
	}
}
