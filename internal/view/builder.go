package view

import (
	"grn-daily/internal/model"
	"grn-daily/internal/news"
)

// Excerpt lengths per slot. These are a display contract: every rendered
// excerpt is exactly this many characters of body plus the ellipsis.
const (
	ExcerptLeft     = 400
	ExcerptMain     = 700
	ExcerptRight    = 350
	ExcerptBottom   = 300
	ExcerptCategory = 300
	ExcerptCard     = 200
)

// CategoryPreviewSize is how many stories a category page shows before
// the reader expands it.
const CategoryPreviewSize = 3

// Excerpt returns the first n characters of body with a trailing
// ellipsis marker, even when the body is shorter than n.
func Excerpt(body string, n int) string {
	runes := []rune(body)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

// Slot pairs an article with its pre-cut excerpt.
type Slot struct {
	Article model.Article
	Excerpt string
}

// FrontPage holds the day's layout. Missing slots are nil/empty and the
// page degrades gracefully.
type FrontPage struct {
	Left   *Slot
	Main   *Slot
	Right  *Slot
	Bottom []Slot
}

// BuildFrontPage slots the current collection in store-insertion order:
// the first three stories take the columns, the next two the bottom row.
// Archived articles never reach the front page.
func BuildFrontPage(current []model.Article) FrontPage {
	var fp FrontPage
	if len(current) > 0 {
		fp.Left = &Slot{Article: current[0], Excerpt: Excerpt(current[0].Body, ExcerptLeft)}
	}
	if len(current) > 1 {
		fp.Main = &Slot{Article: current[1], Excerpt: Excerpt(current[1].Body, ExcerptMain)}
	}
	if len(current) > 2 {
		fp.Right = &Slot{Article: current[2], Excerpt: Excerpt(current[2].Body, ExcerptRight)}
	}
	for _, a := range current[min(3, len(current)):min(5, len(current))] {
		fp.Bottom = append(fp.Bottom, Slot{Article: a, Excerpt: Excerpt(a.Body, ExcerptBottom)})
	}
	return fp
}

// CatalogueEntry is one card in the merged catalogue.
type CatalogueEntry struct {
	Article model.Article
	Status  model.Status
	Excerpt string
}

// BuildCatalogue turns the repository's merged read into catalogue cards.
// Ordering is whatever the repository returned (newest first).
func BuildCatalogue(merged []news.Tagged) []CatalogueEntry {
	entries := make([]CatalogueEntry, 0, len(merged))
	for _, t := range merged {
		entries = append(entries, CatalogueEntry{
			Article: t.Article,
			Status:  t.Status,
			Excerpt: Excerpt(t.Body, ExcerptCard),
		})
	}
	return entries
}

// FilterCatalogue narrows an already-built catalogue by category.
// "All" (or empty) keeps everything. This is deliberately list-then-
// filter: archived articles are not covered by the category index, so a
// second store query could not serve them.
func FilterCatalogue(entries []CatalogueEntry, category string) []CatalogueEntry {
	if category == "" || category == "All" {
		return entries
	}
	want := model.NormalizeCategory(category)
	var kept []CatalogueEntry
	for _, e := range entries {
		if model.NormalizeCategory(string(e.Article.Category)) == want {
			kept = append(kept, e)
		}
	}
	return kept
}

// CategoryPage is a category listing truncated to a preview unless the
// reader expanded it.
type CategoryPage struct {
	Category model.Category
	Visible  []Slot
	HasMore  bool
	Expanded bool
}

// BuildCategoryPage takes the repository's category read as-is (no
// re-sort) and cuts the preview.
func BuildCategoryPage(category model.Category, articles []model.Article, expanded bool) CategoryPage {
	page := CategoryPage{Category: category, Expanded: expanded}
	visible := articles
	if !expanded && len(articles) > CategoryPreviewSize {
		visible = articles[:CategoryPreviewSize]
	}
	for _, a := range visible {
		page.Visible = append(page.Visible, Slot{Article: a, Excerpt: Excerpt(a.Body, ExcerptCategory)})
	}
	page.HasMore = len(articles) > CategoryPreviewSize
	return page
}
