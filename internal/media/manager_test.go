package media

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdauto/catalog-backend/pkg/config"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/storage/blob"
)

type stubFetcher struct {
	data    []byte
	ext     string
	err     error
	fetched []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string, _ map[string]string) ([]byte, string, error) {
	s.fetched = append(s.fetched, url)
	if s.err != nil {
		return nil, "", s.err
	}
	return s.data, s.ext, nil
}

func newTestManager(t *testing.T, fetch remoteFetcher) (*Manager, *blob.Store) {
	t.Helper()
	store, err := blob.NewStore(config.BlobConfig{
		RootDir:       t.TempDir(),
		PublicBaseURL: "https://cdn.example.com",
	}, nil)
	require.NoError(t, err)

	if fetch == nil {
		fetch = &stubFetcher{data: []byte("img"), ext: "jpg"}
	}
	mgr, err := NewManager(store, fetch, config.MediaConfig{
		MaxImages:      20,
		MaxVideos:      5,
		UploadMaxBytes: 1 << 20,
	}, nil)
	require.NoError(t, err)
	return mgr, store
}

func TestResolveImagesAddURLNormalizesWithoutDownload(t *testing.T) {
	fetch := &stubFetcher{}
	mgr, _ := newTestManager(t, fetch)

	out, err := mgr.ResolveImages(context.Background(), nil, ImageChanges{
		AddURLs: []string{
			"https://cdn.example.com/storage/products/a.jpg",
			"storage/products/b.jpg",
			"storage/products/a.jpg",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"storage/products/a.jpg", "storage/products/b.jpg"}, out)
	assert.Empty(t, fetch.fetched, "url references must not be downloaded")
}

func TestResolveImagesRemoveDeletesArtifact(t *testing.T) {
	mgr, store := newTestManager(t, nil)
	ctx := context.Background()

	key := blob.NewKey(blob.ProductsPrefix, "jpg")
	require.NoError(t, store.Put(ctx, key, strings.NewReader("img")))
	ref := blob.RelativePath(key)

	out, err := mgr.ResolveImages(ctx, []string{ref, "storage/products/other.jpg"}, ImageChanges{
		Remove: []string{store.PublicURL(key)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"storage/products/other.jpg"}, out)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists, "removed image artifact should be deleted")
}

func TestResolveImagesRemoveMissingIsNoop(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	current := []string{"storage/products/a.jpg", "storage/products/b.jpg"}
	out, err := mgr.ResolveImages(context.Background(), current, ImageChanges{
		Remove: []string{"storage/products/never-there.jpg", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, current, out)
}

func TestResolveImagesRemoteURLStoresBlob(t *testing.T) {
	fetch := &stubFetcher{data: []byte("remote bytes"), ext: "png"}
	mgr, store := newTestManager(t, fetch)
	ctx := context.Background()

	out, err := mgr.ResolveImages(ctx, nil, ImageChanges{
		RemoteURLs: []string{"https://example.com/photo.png"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "storage/products/"))
	assert.True(t, strings.HasSuffix(out[0], ".png"))

	key, err := blob.DecodeKey(out[0])
	require.NoError(t, err)
	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestResolveImagesFetchFailuresMapToCodes(t *testing.T) {
	cases := []struct {
		fetchErr error
		want     pkgerrors.Code
	}{
		{fmt.Errorf("%w: status 500", ErrUnreachable), pkgerrors.CodeUpstream},
		{fmt.Errorf("%w: %q", ErrUnsupportedType, "text/html"), pkgerrors.CodeUnprocessable},
		{fmt.Errorf("%w: too big", ErrPayloadTooLarge), pkgerrors.CodeUnprocessable},
	}
	for _, tc := range cases {
		mgr, _ := newTestManager(t, &stubFetcher{err: tc.fetchErr})
		_, err := mgr.ResolveImages(context.Background(), nil, ImageChanges{
			RemoteURLs: []string{"https://example.com/x.png"},
		})
		require.Error(t, err)
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, tc.want, appErr.Code())
	}
}

func TestResolveImagesUploads(t *testing.T) {
	mgr, store := newTestManager(t, nil)
	ctx := context.Background()

	out, err := mgr.ResolveImages(ctx, []string{"storage/products/existing.jpg"}, ImageChanges{
		Uploads: []Upload{
			{FileName: "one.png", ContentType: "image/png", Size: 3, Data: strings.NewReader("abc")},
			{FileName: "two.webp", ContentType: "image/webp", Size: 3, Data: strings.NewReader("def")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "storage/products/existing.jpg", out[0])

	for _, ref := range out[1:] {
		key, err := blob.DecodeKey(ref)
		require.NoError(t, err)
		exists, err := store.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)
	}
}

func TestResolveImagesRejectsBadUploads(t *testing.T) {
	mgr, _ := newTestManager(t, nil)
	ctx := context.Background()

	_, err := mgr.ResolveImages(ctx, nil, ImageChanges{
		Uploads: []Upload{{FileName: "doc.pdf", ContentType: "application/pdf", Size: 3, Data: strings.NewReader("pdf")}},
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = mgr.ResolveImages(ctx, nil, ImageChanges{
		Uploads: []Upload{{FileName: "huge.jpg", ContentType: "image/jpeg", Size: 5 << 30, Data: strings.NewReader("x")}},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveImagesEnforcesCeiling(t *testing.T) {
	store, err := blob.NewStore(config.BlobConfig{RootDir: t.TempDir(), PublicBaseURL: "https://cdn.example.com"}, nil)
	require.NoError(t, err)
	mgr, err := NewManager(store, &stubFetcher{}, config.MediaConfig{MaxImages: 2, MaxVideos: 5, UploadMaxBytes: 1 << 20}, nil)
	require.NoError(t, err)

	_, err = mgr.ResolveImages(context.Background(), []string{"storage/products/a.jpg", "storage/products/b.jpg"}, ImageChanges{
		AddURLs: []string{"storage/products/c.jpg"},
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveVideosPipeline(t *testing.T) {
	mgr, _ := newTestManager(t, nil)
	ctx := context.Background()

	out, err := mgr.ResolveVideos(ctx, []string{"dQw4w9WgXcQ", "abcdefghijk"}, VideoChanges{
		Remove: []string{"https://youtu.be/dQw4w9WgXcQ"},
		Add:    []string{"https://www.youtube.com/watch?v=zyxwvutsrqp&t=5s", "abcdefghijk"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"abcdefghijk", "zyxwvutsrqp"}, out)
}

func TestResolveVideosRemovalExtractionFailureIsSilent(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	current := []string{"dQw4w9WgXcQ"}
	out, err := mgr.ResolveVideos(context.Background(), current, VideoChanges{
		Remove: []string{"https://vimeo.com/123", "garbage"},
	})
	require.NoError(t, err)
	assert.Equal(t, current, out)
}

func TestResolveVideosAddRejectsBadReference(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	_, err := mgr.ResolveVideos(context.Background(), nil, VideoChanges{
		Add: []string{"https://vimeo.com/123"},
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveVideosCeiling(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	current := []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd", "eeeeeeeeeee"}
	_, err := mgr.ResolveVideos(context.Background(), current, VideoChanges{
		Add: []string{"fffffffffff"},
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
