package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/victorprouff/envrac/internal/category"
	"github.com/victorprouff/envrac/internal/todoist"
)

// months is the fixed French month table for the written day label. The
// audience expects French regardless of the platform locale.
var months = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// DayLabel returns the written publication day, "02 Janvier" style.
func DayLabel(now time.Time) string {
	return fmt.Sprintf("%02d %s", now.Day(), months[now.Month()-1])
}

// Composer renders digest articles. All methods are pure.
type Composer struct {
	blogBaseURL string
}

// NewComposer creates a Composer. blogBaseURL is the URL of the blog
// section the backlinks point into, without a trailing slash.
func NewComposer(blogBaseURL string) *Composer {
	return &Composer{blogBaseURL: strings.TrimRight(blogBaseURL, "/")}
}

// Head renders the front matter and intro of a digest, linking the two most
// recently published articles.
func (c *Composer) Head(now time.Time, last1, last2 ArticleRef) string {
	day := DayLabel(now)
	return fmt.Sprintf(`---
title: "[En Vrac] - %[1]s"
description: "En vrac du %[1]s. Mes découvertes, articles, vidéos et écoute qui m'ont intéressé et que je veux partager."
summary: "En vrac du %[1]s. Mes découvertes, articles, vidéos et écoute qui m'ont intéressé et que je veux partager."
date: %[2]sT05:00:03+01:00
categories: [ "En vrac" ]
draft: false
---

Hello ! 😊

Comme chaque semaine, vous pouvez retrouver ici des liens d’articles de vidéos ou de podcast que j’ai découvert au fil de ma veille quotidienne et que j’aimerais partager avec vous. 😀

Les deux derniers EnVrac :
  - %[3]s
  - %[4]s`,
		day, now.Format("2006-01-02"), c.backlink(last1), c.backlink(last2))
}

// backlink builds the markdown link to a published digest, including the
// year segment when the article lives in a year partition.
func (c *Composer) backlink(ref ArticleRef) string {
	p := ref.Name
	if ref.Year != "" {
		p = ref.Year + "/" + ref.Name
	}
	return fmt.Sprintf("[[En Vrac] - %s](%s/%s/)", ref.Date, c.blogBaseURL, p)
}

// GroupByCategory partitions tasks by category. Deferred tasks are dropped
// here, at the partitioning step, so they can never produce a heading.
func GroupByCategory(tasks []todoist.Task) map[category.Category][]todoist.Task {
	groups := make(map[category.Category][]todoist.Task)
	for _, task := range tasks {
		if task.Category == category.Deferred {
			continue
		}
		groups[task.Category] = append(groups[task.Category], task)
	}
	return groups
}

// Body renders the grouped tasks, one section per non-empty category in the
// fixed render order.
func (c *Composer) Body(groups map[category.Category][]todoist.Task) string {
	var b strings.Builder
	for _, cat := range category.Rendered() {
		tasks := groups[cat]
		if len(tasks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n\n## %s\n", cat.Label())
		for _, task := range tasks {
			if task.Description != "" {
				fmt.Fprintf(&b, "- %s - %s\n", task.Content, task.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", task.Content)
			}
		}
	}
	return b.String()
}
