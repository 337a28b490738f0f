package admin

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"grn-daily/internal/blob"
	"grn-daily/internal/model"
	"grn-daily/internal/news"
	"grn-daily/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBlob records uploads and hands back deterministic URLs.
type fakeBlob struct {
	keys []string
	fail bool
}

func (f *fakeBlob) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.fail {
		return "", fmt.Errorf("%w: bucket unreachable", blob.ErrUploadFailed)
	}
	f.keys = append(f.keys, key)
	return "https://media.test/" + key, nil
}

// brokenStore refuses document inserts so tests can observe what happens
// after a successful upload.
type brokenStore struct {
	store.Store
}

func (b *brokenStore) Insert(ctx context.Context, collection string, a *model.Article) (string, error) {
	return "", fmt.Errorf("%w: write refused", store.ErrUnavailable)
}

func validInput() news.ArticleInput {
	return news.ArticleInput{Title: "t", Body: "b", Category: "health"}
}

func testImage() *ImageUpload {
	return &ImageUpload{Filename: "cover.jpg", ContentType: "image/jpeg", Data: []byte{1, 2, 3}}
}

func newTestService(t *testing.T) (*Service, *fakeBlob, *news.Repository) {
	t.Helper()
	blobs := &fakeBlob{}
	repo := news.NewRepository(store.NewMemoryStore(), zap.NewNop())
	return NewService(repo, blobs, zap.NewNop()), blobs, repo
}

func TestService_Create_WithImage(t *testing.T) {
	svc, blobs, repo := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "eve", validInput(), testImage())
	require.NoError(t, err)

	require.Len(t, blobs.keys, 1)
	key := blobs.keys[0]
	assert.True(t, strings.HasPrefix(key, store.CollectionCurrent+"/"), "uploads live under the collection prefix")
	assert.True(t, strings.HasSuffix(key, "-cover.jpg"))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/"+key, got.ImageURL, "article references the uploaded URL")
}

func TestService_Create_WithoutImage(t *testing.T) {
	svc, blobs, repo := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "eve", validInput(), nil)
	require.NoError(t, err)
	assert.Empty(t, blobs.keys)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
}

func TestService_Create_UploadFailsFirst(t *testing.T) {
	blobs := &fakeBlob{fail: true}
	repo := news.NewRepository(store.NewMemoryStore(), zap.NewNop())
	svc := NewService(repo, blobs, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "eve", validInput(), testImage())
	assert.ErrorIs(t, err, blob.ErrUploadFailed)

	// The upload runs before the document write, so nothing was published.
	current, listErr := repo.ListCurrent(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, current)
}

func TestService_Create_WriteFailsAfterUpload(t *testing.T) {
	blobs := &fakeBlob{}
	repo := news.NewRepository(&brokenStore{Store: store.NewMemoryStore()}, zap.NewNop())
	svc := NewService(repo, blobs, zap.NewNop())

	_, err := svc.Create(context.Background(), "eve", validInput(), testImage())
	assert.ErrorIs(t, err, store.ErrUnavailable)

	// The blob stays orphaned: no compensating delete.
	assert.Len(t, blobs.keys, 1)
}

func TestService_Edit_PreservesImageWithoutReplacement(t *testing.T) {
	svc, blobs, repo := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "eve", validInput(), testImage())
	require.NoError(t, err)
	original, err := repo.Get(ctx, id)
	require.NoError(t, err)

	title := "retitled"
	require.NoError(t, svc.Edit(ctx, "eve", id, news.ArticleUpdate{Title: &title}, nil))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "retitled", got.Title)
	assert.Equal(t, original.ImageURL, got.ImageURL, "no new image means the stored one stays")
	assert.Len(t, blobs.keys, 1, "no second upload happened")
}

func TestService_Edit_ReplacesImage(t *testing.T) {
	svc, blobs, repo := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "eve", validInput(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Edit(ctx, "eve", id, news.ArticleUpdate{}, testImage()))
	require.Len(t, blobs.keys, 1)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/"+blobs.keys[0], got.ImageURL)
}

func TestService_ArchiveThenDelete(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "eve", validInput(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, "eve", id))
	require.NoError(t, svc.Delete(ctx, "eve", id, true))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
