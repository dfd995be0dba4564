package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/victorprouff/envrac/internal/category"
	"github.com/victorprouff/envrac/internal/todoist"
)

const blogURL = "https://blog.victorprouff.fr/en-vracs"

func TestDayLabel(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-01-02", "02 Janvier"},
		{"2024-08-15", "15 Août"},
		{"2024-12-31", "31 Décembre"},
	}
	for _, tc := range cases {
		now, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := DayLabel(now); got != tc.want {
			t.Errorf("DayLabel(%s) = %q, want %q", tc.date, got, tc.want)
		}
	}
}

func TestHead(t *testing.T) {
	now := time.Date(2024, 6, 18, 9, 30, 0, 0, time.UTC)
	c := NewComposer(blogURL)
	head := c.Head(now,
		ArticleRef{Name: "2024-06-11-envrac", Date: "2024-06-11", Year: "2024"},
		ArticleRef{Name: "2024-06-04-envrac", Date: "2024-06-04", Year: "2024"},
	)

	for _, want := range []string{
		`title: "[En Vrac] - 18 Juin"`,
		"date: 2024-06-18T05:00:03+01:00",
		"[[En Vrac] - 2024-06-11](https://blog.victorprouff.fr/en-vracs/2024/2024-06-11-envrac/)",
		"[[En Vrac] - 2024-06-04](https://blog.victorprouff.fr/en-vracs/2024/2024-06-04-envrac/)",
	} {
		if !strings.Contains(head, want) {
			t.Errorf("head missing %q\nhead:\n%s", want, head)
		}
	}
}

func TestHeadFlatLayoutBacklink(t *testing.T) {
	now := time.Date(2023, 2, 7, 0, 0, 0, 0, time.UTC)
	c := NewComposer(blogURL + "/") // trailing slash is tolerated
	head := c.Head(now,
		ArticleRef{Name: "2023-01-31-envrac", Date: "2023-01-31"},
		ArticleRef{Name: "2023-01-24-envrac", Date: "2023-01-24"},
	)
	if !strings.Contains(head, "(https://blog.victorprouff.fr/en-vracs/2023-01-31-envrac/)") {
		t.Errorf("flat backlink missing year-free path:\n%s", head)
	}
}

func TestGroupByCategoryDropsDeferred(t *testing.T) {
	tasks := []todoist.Task{
		{Content: "a", Category: category.Video},
		{Content: "b", Category: category.Deferred},
		{Content: "c", Category: category.Article},
	}
	groups := GroupByCategory(tasks)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if _, ok := groups[category.Deferred]; ok {
		t.Error("Deferred must not survive partitioning")
	}
}

func TestBodyHeadingsAndBullets(t *testing.T) {
	c := NewComposer(blogURL)
	groups := GroupByCategory([]todoist.Task{
		{Content: "Vidéo sur Go", Description: "à voir", Category: category.Video},
		{Content: "Article sans description", Category: category.Article},
		{Content: "Mis de côté", Category: category.Deferred},
	})
	body := c.Body(groups)

	if got := strings.Count(body, "\n## "); got != 2 {
		t.Errorf("heading count = %d, want 2\nbody:\n%s", got, body)
	}
	if !strings.Contains(body, "## 🎞️ Youtube\n- Vidéo sur Go - à voir\n") {
		t.Errorf("video bullet wrong:\n%s", body)
	}
	if !strings.Contains(body, "## 📖 Articles\n- Article sans description\n") {
		t.Errorf("article bullet wrong:\n%s", body)
	}
	if strings.Contains(body, "Mis de côté") || strings.Contains(body, "Autre") {
		t.Errorf("deferred content leaked into body:\n%s", body)
	}
}

func TestBodyRenderOrderIsStable(t *testing.T) {
	c := NewComposer(blogURL)
	groups := GroupByCategory([]todoist.Task{
		{Content: "livre", Category: category.Book},
		{Content: "podcast", Category: category.Podcast},
		{Content: "outil", Category: category.Tool},
		{Content: "vidéo", Category: category.Video},
	})

	first := c.Body(groups)
	for i := 0; i < 10; i++ {
		if got := c.Body(groups); got != first {
			t.Fatal("Body output varies across runs")
		}
	}

	video := strings.Index(first, "🎞️ Youtube")
	tool := strings.Index(first, "🛠️ Tools")
	podcast := strings.Index(first, "🎧 Podcasts")
	book := strings.Index(first, "📚 Livres")
	if !(video < tool && tool < podcast && podcast < book) {
		t.Errorf("categories out of declaration order:\n%s", first)
	}
}

func TestBodyEmptyGroups(t *testing.T) {
	c := NewComposer(blogURL)
	if got := c.Body(GroupByCategory(nil)); got != "" {
		t.Errorf("Body of no tasks = %q, want empty", got)
	}
}
