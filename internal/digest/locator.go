// Package digest implements the aggregation pipeline: locating the last
// published articles, composing the new digest, and committing it back to
// the blog repository.
package digest

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/victorprouff/envrac/internal/apperr"
	"github.com/victorprouff/envrac/internal/github"
)

// ContentLister lists a directory of the content repository.
type ContentLister interface {
	ListDir(ctx context.Context, dir string) ([]github.Entry, error)
}

// ArticleRef points at a previously published digest. Name is normalized
// (lowercased, .md stripped); Date is the leading YYYY-MM-DD token; Year is
// the containing year partition, empty for flat layouts.
type ArticleRef struct {
	Name string
	Date string
	Year string
}

const indexFile = "_index.md"

// Locator finds the most recently published digests in the content
// repository.
type Locator struct {
	gh  ContentLister
	dir string
}

// NewLocator creates a Locator over the given content directory.
func NewLocator(gh ContentLister, dir string) *Locator {
	return &Locator{gh: gh, dir: dir}
}

type candidate struct {
	name string
	year string
}

// LastTwo returns the two most recently published digests, most recent
// first. Ordering is lexicographic descending on the filename, which is
// correct because names start with a zero-padded date.
//
// The blog moved from a flat content directory to year-partitioned
// subdirectories over time; both layouts are supported without
// configuration. When year directories exist, the two most recent are
// walked newest first, descending into the older one only if the newest
// cannot fill the pair.
func (l *Locator) LastTwo(ctx context.Context) (ArticleRef, ArticleRef, error) {
	entries, err := l.gh.ListDir(ctx, l.dir)
	if err != nil {
		return ArticleRef{}, ArticleRef{}, err
	}

	var years []string
	var files []candidate
	for _, e := range entries {
		switch e.Type {
		case github.TypeDir:
			years = append(years, e.Name)
		case github.TypeFile:
			if e.Name != indexFile {
				files = append(files, candidate{name: e.Name})
			}
		}
	}

	if len(years) > 0 {
		sort.Sort(sort.Reverse(sort.StringSlice(years)))
		if len(years) > 2 {
			years = years[:2]
		}
		files = nil
		for _, year := range years {
			if len(files) >= 2 {
				break
			}
			sub, err := l.gh.ListDir(ctx, path.Join(l.dir, year))
			if err != nil {
				return ArticleRef{}, ArticleRef{}, err
			}
			for _, e := range sub {
				if e.Type == github.TypeFile && e.Name != indexFile {
					files = append(files, candidate{name: e.Name, year: year})
				}
			}
		}
	}

	if len(files) < 2 {
		return ArticleRef{}, ArticleRef{}, apperr.ErrInsufficientHistory
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name > files[j].name })
	return newRef(files[0]), newRef(files[1]), nil
}

func newRef(c candidate) ArticleRef {
	name := strings.ToLower(strings.TrimSuffix(c.name, ".md"))
	date := name
	if len(date) > 10 {
		date = date[:10]
	}
	return ArticleRef{Name: name, Date: date, Year: c.year}
}
