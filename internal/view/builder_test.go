package view

import (
	"strings"
	"testing"

	"grn-daily/internal/model"
	"grn-daily/internal/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Excerpt(long, 400)
	assert.Len(t, got, 403)
	assert.True(t, strings.HasSuffix(got, "..."))

	// Short bodies still get the marker.
	assert.Equal(t, "hi...", Excerpt("hi", 400))
	assert.Equal(t, "...", Excerpt("", 400))
}

func TestExcerpt_MultibyteSafe(t *testing.T) {
	body := strings.Repeat("ä", 10)
	got := Excerpt(body, 5)
	assert.Equal(t, strings.Repeat("ä", 5)+"...", got)
}

func articlesNamed(titles ...string) []model.Article {
	out := make([]model.Article, 0, len(titles))
	for _, title := range titles {
		out = append(out, model.Article{Title: title, Body: strings.Repeat("b", 1000)})
	}
	return out
}

func TestBuildFrontPage_FullHouse(t *testing.T) {
	fp := BuildFrontPage(articlesNamed("a", "b", "c", "d", "e", "f"))

	require.NotNil(t, fp.Left)
	require.NotNil(t, fp.Main)
	require.NotNil(t, fp.Right)
	require.Len(t, fp.Bottom, 2, "only two bottom slots, extras stay off the page")

	// Slots follow insertion order, not recency.
	assert.Equal(t, "a", fp.Left.Article.Title)
	assert.Equal(t, "b", fp.Main.Article.Title)
	assert.Equal(t, "c", fp.Right.Article.Title)
	assert.Equal(t, "d", fp.Bottom[0].Article.Title)
	assert.Equal(t, "e", fp.Bottom[1].Article.Title)

	// Each slot cuts its own excerpt length.
	assert.Len(t, fp.Left.Excerpt, ExcerptLeft+3)
	assert.Len(t, fp.Main.Excerpt, ExcerptMain+3)
	assert.Len(t, fp.Right.Excerpt, ExcerptRight+3)
	assert.Len(t, fp.Bottom[0].Excerpt, ExcerptBottom+3)
}

func TestBuildFrontPage_DegradesGracefully(t *testing.T) {
	fp := BuildFrontPage(articlesNamed("a", "b"))
	require.NotNil(t, fp.Left)
	require.NotNil(t, fp.Main)
	assert.Nil(t, fp.Right)
	assert.Empty(t, fp.Bottom)

	fp = BuildFrontPage(nil)
	assert.Nil(t, fp.Left)
	assert.Nil(t, fp.Main)
	assert.Nil(t, fp.Right)
	assert.Empty(t, fp.Bottom)
}

func TestBuildCatalogue(t *testing.T) {
	merged := []news.Tagged{
		{Article: model.Article{Title: "live", Body: strings.Repeat("b", 300)}, Status: model.StatusCurrent},
		{Article: model.Article{Title: "old", Body: "short"}, Status: model.StatusArchived},
	}

	entries := BuildCatalogue(merged)
	require.Len(t, entries, 2)
	assert.Equal(t, "live", entries[0].Article.Title)
	assert.Equal(t, model.StatusCurrent, entries[0].Status)
	assert.Len(t, entries[0].Excerpt, ExcerptCard+3)
	assert.Equal(t, "short...", entries[1].Excerpt)
}

func TestFilterCatalogue(t *testing.T) {
	entries := []CatalogueEntry{
		{Article: model.Article{Title: "h", Category: model.CategoryHealth}},
		{Article: model.Article{Title: "l", Category: model.CategoryLaws}},
	}

	assert.Len(t, FilterCatalogue(entries, ""), 2)
	assert.Len(t, FilterCatalogue(entries, "All"), 2)

	// Case-insensitive match against the stored value.
	got := FilterCatalogue(entries, "Health")
	require.Len(t, got, 1)
	assert.Equal(t, "h", got[0].Article.Title)

	assert.Empty(t, FilterCatalogue(entries, "business"))
}

func TestBuildCategoryPage(t *testing.T) {
	articles := articlesNamed("a", "b", "c", "d")

	page := BuildCategoryPage(model.CategoryHealth, articles, false)
	assert.Len(t, page.Visible, CategoryPreviewSize)
	assert.True(t, page.HasMore)
	assert.False(t, page.Expanded)
	assert.Equal(t, "a", page.Visible[0].Article.Title, "order preserved, no re-sort")
	assert.Len(t, page.Visible[0].Excerpt, ExcerptCategory+3)

	page = BuildCategoryPage(model.CategoryHealth, articles, true)
	assert.Len(t, page.Visible, 4)
	assert.True(t, page.HasMore)
	assert.True(t, page.Expanded)
}

func TestBuildCategoryPage_SmallList(t *testing.T) {
	page := BuildCategoryPage(model.CategoryLaws, articlesNamed("a", "b"), false)
	assert.Len(t, page.Visible, 2)
	assert.False(t, page.HasMore)
}
