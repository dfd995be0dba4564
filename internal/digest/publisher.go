package digest

import (
	"context"
	"encoding/base64"
	"path"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/victorprouff/envrac/internal/github"
)

// ContentWriter commits a file to the content repository.
type ContentWriter interface {
	CreateFile(ctx context.Context, path string, commit github.CommitRequest) error
}

// Filename returns the digest filename for a publication day.
func Filename(now time.Time) string {
	return now.Format("2006-01-02") + "-envrac.md"
}

// Publisher commits composed digests to the content repository, under the
// current year partition.
type Publisher struct {
	gh        ContentWriter
	dir       string
	branch    string
	message   string
	committer github.Committer

	inflight singleflight.Group
}

// NewPublisher creates a Publisher committing into dir on branch.
func NewPublisher(gh ContentWriter, dir, branch, message string, committer github.Committer) *Publisher {
	return &Publisher{gh: gh, dir: dir, branch: branch, message: message, committer: committer}
}

// Publish base64-encodes the article and issues a single commit. Concurrent
// calls targeting the same path share one commit attempt; beyond that, the
// remote's own conflict detection is the only duplicate protection.
func (p *Publisher) Publish(ctx context.Context, now time.Time, content string) (string, error) {
	target := path.Join(p.dir, now.Format("2006"), Filename(now))

	_, err, _ := p.inflight.Do(target, func() (any, error) {
		commit := github.CommitRequest{
			Message:   p.message,
			Committer: p.committer,
			Author:    p.committer,
			Content:   base64.StdEncoding.EncodeToString([]byte(content)),
			Branch:    p.branch,
		}
		return nil, p.gh.CreateFile(ctx, target, commit)
	})
	if err != nil {
		return "", err
	}
	return target, nil
}
