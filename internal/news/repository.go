package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"grn-daily/internal/model"
	"grn-daily/internal/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// ArticleInput carries the fields an admin submits for a new article.
type ArticleInput struct {
	Title     string `validate:"required"`
	Subtitle  string
	Author    string
	Body      string `validate:"required"`
	Category  string `validate:"required"`
	ImageURL  string `validate:"omitempty,url"`
	Placement string
}

// ArticleUpdate holds the fields to merge into an existing article.
// Nil pointers leave the stored value untouched.
type ArticleUpdate struct {
	Title     *string
	Subtitle  *string
	Author    *string
	Body      *string
	Category  *string
	ImageURL  *string
	Placement *string
}

// Tagged is an article annotated with the collection it came from.
type Tagged struct {
	model.Article
	Status model.Status `json:"status"`
}

// Repository owns the current and archived collections and the lifecycle
// transitions between them.
type Repository struct {
	store  store.Store
	logger *zap.Logger
}

func NewRepository(st store.Store, logger *zap.Logger) *Repository {
	return &Repository{store: st, logger: logger}
}

// ListCurrent returns the current collection in store-insertion order,
// skipping soft-deleted leftovers.
func (r *Repository) ListCurrent(ctx context.Context) ([]model.Article, error) {
	articles, err := r.store.List(ctx, store.CollectionCurrent)
	if err != nil {
		return nil, err
	}
	return dropDeleted(articles), nil
}

func (r *Repository) ListArchived(ctx context.Context) ([]model.Article, error) {
	return r.store.List(ctx, store.CollectionArchived)
}

// ListMerged unions both collections, newest first by the merged-view sort
// key. The two reads run concurrently; they are independent.
//
// If an archive move was interrupted after the archived write, an article
// can briefly exist in both collections. The archived copy wins here, and
// the stale current copy is deleted opportunistically so the duplicate
// never reaches a reader twice.
func (r *Repository) ListMerged(ctx context.Context) ([]Tagged, error) {
	var (
		wg                      sync.WaitGroup
		current, archived       []model.Article
		currentErr, archivedErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = r.ListCurrent(ctx)
	}()
	go func() {
		defer wg.Done()
		archived, archivedErr = r.ListArchived(ctx)
	}()
	wg.Wait()

	if currentErr != nil {
		return nil, currentErr
	}
	if archivedErr != nil {
		return nil, archivedErr
	}

	archivedIDs := make(map[string]bool, len(archived))
	for _, a := range archived {
		archivedIDs[a.ID] = true
	}

	merged := make([]Tagged, 0, len(current)+len(archived))
	for _, a := range current {
		if archivedIDs[a.ID] {
			r.reconcileDuplicate(ctx, a.ID)
			continue
		}
		merged = append(merged, Tagged{Article: a, Status: model.StatusCurrent})
	}
	for _, a := range archived {
		merged = append(merged, Tagged{Article: a, Status: model.StatusArchived})
	}

	// Stable sort keeps store order for equal keys.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[j].SortKey().Before(merged[i].SortKey())
	})
	return merged, nil
}

// reconcileDuplicate finishes an interrupted archive move. Failure is
// logged, never surfaced: the read already resolved the duplicate.
func (r *Repository) reconcileDuplicate(ctx context.Context, id string) {
	err := r.store.Delete(ctx, store.CollectionCurrent, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		r.logger.Warn("could not remove stale current copy of archived article",
			zap.String("id", id), zap.Error(err))
		return
	}
	r.logger.Info("reconciled interrupted archive move", zap.String("id", id))
}

// ListByCategory serves the category pages from the current collection,
// newest first. The store needs a composite category+createdAt index; a
// missing one surfaces as store.ErrIndexRequired.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]model.Article, error) {
	normalized := model.NormalizeCategory(category)
	articles, err := r.store.Find(ctx, store.CollectionCurrent, store.Query{
		Field:      "category",
		Equals:     string(normalized),
		SortBy:     "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	return dropDeleted(articles), nil
}

// Get looks an article up in current first, then archived.
func (r *Repository) Get(ctx context.Context, id string) (*Tagged, error) {
	a, err := r.store.Get(ctx, store.CollectionCurrent, id)
	if err == nil && !a.Deleted {
		return &Tagged{Article: *a, Status: model.StatusCurrent}, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	a, err = r.store.Get(ctx, store.CollectionArchived, id)
	if err != nil {
		return nil, err
	}
	return &Tagged{Article: *a, Status: model.StatusArchived}, nil
}

// Create validates the input and writes a new current-collection document
// with a server-assigned createdAt.
func (r *Repository) Create(ctx context.Context, input ArticleInput) (string, error) {
	if err := validate.Struct(input); err != nil {
		return "", &ValidationError{Reason: err.Error()}
	}
	category := model.NormalizeCategory(input.Category)
	if !category.Valid() {
		return "", &ValidationError{Reason: fmt.Sprintf("unknown category %q", input.Category)}
	}
	placement := model.Placement(input.Placement)
	if input.Placement != "" && !placement.Valid() {
		return "", &ValidationError{Reason: fmt.Sprintf("unknown placement %q", input.Placement)}
	}

	article := model.Article{
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		Author:    input.Author,
		Body:      input.Body,
		Category:  category,
		ImageURL:  input.ImageURL,
		Placement: placement,
		CreatedAt: time.Now().UTC(),
	}

	id, err := r.store.Insert(ctx, store.CollectionCurrent, &article)
	if err != nil {
		return "", err
	}
	r.logger.Info("article published",
		zap.String("id", id), zap.String("category", string(category)))
	return id, nil
}

// Update merges the provided fields into an existing current-collection
// document. ID and createdAt never change. Last write wins; the single-
// writer admin workflow carries no concurrency token.
func (r *Repository) Update(ctx context.Context, id string, upd ArticleUpdate) error {
	article, err := r.store.Get(ctx, store.CollectionCurrent, id)
	if err != nil {
		return err
	}

	if upd.Title != nil {
		article.Title = *upd.Title
	}
	if upd.Subtitle != nil {
		article.Subtitle = *upd.Subtitle
	}
	if upd.Author != nil {
		article.Author = *upd.Author
	}
	if upd.Body != nil {
		article.Body = *upd.Body
	}
	if upd.Category != nil {
		category := model.NormalizeCategory(*upd.Category)
		if !category.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("unknown category %q", *upd.Category)}
		}
		article.Category = category
	}
	if upd.ImageURL != nil {
		article.ImageURL = *upd.ImageURL
	}
	if upd.Placement != nil {
		placement := model.Placement(*upd.Placement)
		if !placement.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("unknown placement %q", *upd.Placement)}
		}
		article.Placement = placement
	}
	if article.Title == "" || article.Body == "" {
		return &ValidationError{Reason: "title and body must not be empty"}
	}

	return r.store.Put(ctx, store.CollectionCurrent, id, article)
}

// Archive moves an article into the archived collection under the same id.
// The move is two separate writes; there is no cross-collection
// transaction. If the archived write lands but the current delete fails,
// the error is surfaced and ListMerged resolves the duplicate on the next
// read. Archiving an already-archived article is a no-op.
func (r *Repository) Archive(ctx context.Context, id string) error {
	article, err := r.store.Get(ctx, store.CollectionCurrent, id)
	if errors.Is(err, store.ErrNotFound) {
		if _, archErr := r.store.Get(ctx, store.CollectionArchived, id); archErr == nil {
			return nil
		}
		return err
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	article.ArchivedAt = &now
	if err := r.store.Put(ctx, store.CollectionArchived, id, article); err != nil {
		return err
	}

	if err := r.store.Delete(ctx, store.CollectionCurrent, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("archived copy written but current copy not removed: %w", err)
	}
	r.logger.Info("article archived", zap.String("id", id))
	return nil
}

// Delete permanently removes an article from the named collection.
// Idempotent: deleting an absent id is not an error.
func (r *Repository) Delete(ctx context.Context, id string, fromArchived bool) error {
	collection := store.CollectionCurrent
	if fromArchived {
		collection = store.CollectionArchived
	}
	err := r.store.Delete(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	r.logger.Info("article deleted", zap.String("id", id), zap.String("collection", collection))
	return nil
}

func dropDeleted(articles []model.Article) []model.Article {
	kept := articles[:0]
	for _, a := range articles {
		if !a.Deleted {
			kept = append(kept, a)
		}
	}
	return kept
}
