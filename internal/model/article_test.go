package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryLaws, NormalizeCategory("Laws"))
	assert.Equal(t, CategoryHealth, NormalizeCategory("  HEALTH "))
	assert.Equal(t, Category("gossip"), NormalizeCategory("Gossip"))
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("gossip").Valid())
	assert.False(t, Category("Laws").Valid(), "validity is checked post-normalization")
	assert.False(t, Category("").Valid())
}

func TestPlacement_Valid(t *testing.T) {
	assert.True(t, PlacementMain.Valid())
	assert.True(t, PlacementBottom2.Valid())
	assert.False(t, Placement("sidebar").Valid())
	assert.False(t, Placement("").Valid())
}

func TestArticle_Byline(t *testing.T) {
	a := Article{Author: "Jordan Lee"}
	assert.Equal(t, "By Jordan Lee", a.Byline())

	a.Author = ""
	assert.Equal(t, "By GRN Staff", a.Byline())
}

func TestArticle_SortKey(t *testing.T) {
	created := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	archived := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	a := Article{CreatedAt: created, ArchivedAt: &archived}
	assert.Equal(t, created, a.SortKey(), "createdAt wins when both are set")

	a = Article{ArchivedAt: &archived}
	assert.Equal(t, archived, a.SortKey())

	a = Article{}
	assert.True(t, a.SortKey().IsZero(), "no timestamps sorts oldest")
}
