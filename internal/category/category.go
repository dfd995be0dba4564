// Package category classifies Todoist tasks into the editorial buckets of
// the digest.
package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is the editorial bucket a task is sorted into for display.
type Category int

const (
	Video Category = iota
	Article
	Tool
	Podcast
	Book
	// Deferred marks tasks intentionally excluded from publication.
	Deferred
)

// Rendered returns the categories that may appear in a composed digest, in
// their fixed render order. Deferred never renders.
func Rendered() []Category {
	return []Category{Video, Article, Tool, Podcast, Book}
}

// Label returns the decorated heading label used when rendering the digest.
func (c Category) Label() string {
	switch c {
	case Video:
		return "🎞️ Youtube"
	case Article:
		return "📖 Articles"
	case Tool:
		return "🛠️ Tools"
	case Podcast:
		return "🎧 Podcasts"
	case Book:
		return "📚 Livres"
	default:
		return "Autre"
	}
}

// String returns the category name as spelled in mapping files.
func (c Category) String() string {
	switch c {
	case Video:
		return "video"
	case Article:
		return "article"
	case Tool:
		return "tool"
	case Podcast:
		return "podcast"
	case Book:
		return "book"
	default:
		return "deferred"
	}
}

// Parse converts a mapping-file category name back to its Category.
func Parse(name string) (Category, error) {
	switch name {
	case "video":
		return Video, nil
	case "article":
		return Article, nil
	case "tool":
		return Tool, nil
	case "podcast":
		return Podcast, nil
	case "book":
		return Book, nil
	case "deferred":
		return Deferred, nil
	}
	return Deferred, fmt.Errorf("unknown category %q", name)
}

// Mapping maps raw Todoist section ids to categories.
type Mapping map[string]Category

// Classify returns the category for a section id. Unknown ids map to
// Deferred, so classification is total.
func (m Mapping) Classify(sectionID string) Category {
	if c, ok := m[sectionID]; ok {
		return c
	}
	return Deferred
}

// DefaultMapping returns the built-in section table, used when no mapping
// file is configured.
func DefaultMapping() Mapping {
	return Mapping{
		"181074705": Video,
		"179438112": Article,
		"181074629": Tool,
		"184011119": Podcast,
		"184719314": Book,
	}
}

type mappingFile struct {
	Sections map[string]string `yaml:"sections"`
}

// LoadMapping reads a section-to-category mapping from a YAML file. The
// table lives outside the binary so section reshuffles in Todoist do not
// require a rebuild.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file %s: %w", path, err)
	}

	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mapping file %s: %w", path, err)
	}

	m := make(Mapping, len(file.Sections))
	for sectionID, name := range file.Sections {
		c, err := Parse(name)
		if err != nil {
			return nil, fmt.Errorf("mapping file %s: section %s: %w", path, sectionID, err)
		}
		m[sectionID] = c
	}
	return m, nil
}
