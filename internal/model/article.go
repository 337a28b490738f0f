package model

import (
	"strings"
	"time"
)

// Category is the fixed set of sections articles are filed under.
// Stored lower-cased; always compare through NormalizeCategory.
type Category string

const (
	CategoryHealth    Category = "health"
	CategoryLaws      Category = "laws"
	CategoryGeneral   Category = "general"
	CategoryBusiness  Category = "business"
	CategoryPolitics  Category = "politics"
	CategoryAwareness Category = "awareness"
)

// Categories lists every valid category in navigation order.
var Categories = []Category{
	CategoryHealth,
	CategoryLaws,
	CategoryGeneral,
	CategoryBusiness,
	CategoryPolitics,
	CategoryAwareness,
}

// NormalizeCategory is the single normalization point for categories.
// Writers and readers must both go through it.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Placement is a front-page layout hint, not a structural constraint.
type Placement string

const (
	PlacementLeft    Placement = "left"
	PlacementMain    Placement = "main"
	PlacementRight   Placement = "right"
	PlacementBottom  Placement = "bottom"
	PlacementBottom2 Placement = "bottom2"
)

func (p Placement) Valid() bool {
	switch p {
	case PlacementLeft, PlacementMain, PlacementRight, PlacementBottom, PlacementBottom2:
		return true
	}
	return false
}

// Status tags which collection a merged-view article came from.
type Status string

const (
	StatusCurrent  Status = "current"
	StatusArchived Status = "archived"
)

// OrgName backs the byline fallback for articles without an author.
const OrgName = "GRN"

// Article is a single news story. Field names mirror the stored documents.
type Article struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	Title      string     `bson:"title" json:"title"`
	Subtitle   string     `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Author     string     `bson:"author,omitempty" json:"author,omitempty"`
	Body       string     `bson:"body" json:"body"`
	Category   Category   `bson:"category" json:"category"`
	ImageURL   string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Placement  Placement  `bson:"placement,omitempty" json:"placement,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt,omitempty" json:"createdAt"`
	ArchivedAt *time.Time `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`

	// Deleted is a legacy soft-delete flag. The primary delete path is a
	// hard delete, but current-collection reads still honor this.
	Deleted bool `bson:"deleted,omitempty" json:"deleted,omitempty"`
}

// Byline returns the display byline, falling back to the staff credit
// when no author was recorded.
func (a *Article) Byline() string {
	if a.Author == "" {
		return "By " + OrgName + " Staff"
	}
	return "By " + a.Author
}

// SortKey is the timestamp merged views order by: createdAt when present,
// archivedAt otherwise, the zero time (oldest) when neither is set.
func (a *Article) SortKey() time.Time {
	if !a.CreatedAt.IsZero() {
		return a.CreatedAt
	}
	if a.ArchivedAt != nil {
		return *a.ArchivedAt
	}
	return time.Time{}
}

// Subscriber is a newsletter sign-up. Duplicates are allowed; the external
// notification sender deduplicates recipients before use.
type Subscriber struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	Email    string    `bson:"email" json:"email"`
	JoinedAt time.Time `bson:"joinedAt" json:"joinedAt"`
}
