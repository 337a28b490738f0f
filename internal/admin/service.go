package admin

import (
	"context"
	"time"

	"grn-daily/internal/blob"
	"grn-daily/internal/news"
	"grn-daily/internal/store"

	"go.uber.org/zap"
)

// ImageUpload is a cover image attached to a create or edit request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service orchestrates admin mutations. Its failure policy: uploads come
// before document writes, nothing retries automatically, and every error
// reaches the caller with enough kind information for a specific message.
type Service struct {
	repo   *news.Repository
	blobs  blob.Store
	logger *zap.Logger
}

func NewService(repo *news.Repository, blobs blob.Store, logger *zap.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// Create publishes a new article. When an image is attached it is
// uploaded first and the article references its URL. If the upload
// succeeds but the document write fails, the uploaded blob is orphaned:
// keys are timestamp-prefixed so the leak is harmless, and there is no
// compensating delete. We log it and move on.
func (s *Service) Create(ctx context.Context, actor string, input news.ArticleInput, image *ImageUpload) (string, error) {
	uploadedURL := ""
	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return "", err
		}
		uploadedURL = url
		input.ImageURL = url
	}

	id, err := s.repo.Create(ctx, input)
	if err != nil {
		if uploadedURL != "" {
			s.logger.Warn("article write failed after image upload; blob orphaned",
				zap.String("actor", actor), zap.String("imageUrl", uploadedURL), zap.Error(err))
		}
		return "", err
	}

	s.logger.Info("admin created article", zap.String("actor", actor), zap.String("id", id))
	return id, nil
}

// Edit updates an article in place. A new image replaces imageUrl; with
// no new image the stored imageUrl is preserved untouched. Category is
// re-normalized by the repository on save.
func (s *Service) Edit(ctx context.Context, actor, id string, upd news.ArticleUpdate, image *ImageUpload) error {
	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return err
		}
		upd.ImageURL = &url
	}

	if err := s.repo.Update(ctx, id, upd); err != nil {
		if upd.ImageURL != nil && image != nil {
			s.logger.Warn("article update failed after image upload; blob orphaned",
				zap.String("actor", actor), zap.String("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("admin edited article", zap.String("actor", actor), zap.String("id", id))
	return nil
}

// Archive executes the two-step move. Confirmation is the surrounding
// UI's job; by the time this runs the admin has already said yes.
func (s *Service) Archive(ctx context.Context, actor, id string) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}
	s.logger.Info("admin archived article", zap.String("actor", actor), zap.String("id", id))
	return nil
}

// Delete permanently removes an article. The target collection is always
// passed in by the caller, never inferred.
func (s *Service) Delete(ctx context.Context, actor, id string, fromArchived bool) error {
	if err := s.repo.Delete(ctx, id, fromArchived); err != nil {
		return err
	}
	s.logger.Info("admin deleted article",
		zap.String("actor", actor), zap.String("id", id), zap.Bool("fromArchived", fromArchived))
	return nil
}

func (s *Service) upload(ctx context.Context, image *ImageUpload) (string, error) {
	key := blob.Key(store.CollectionCurrent, image.Filename, time.Now())
	return s.blobs.Upload(ctx, key, image.ContentType, image.Data)
}
