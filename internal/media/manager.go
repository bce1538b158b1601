package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sdauto/catalog-backend/pkg/config"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
	"github.com/sdauto/catalog-backend/pkg/logger"
	"github.com/sdauto/catalog-backend/pkg/storage/blob"
)

type blobStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
}

type remoteFetcher interface {
	Fetch(ctx context.Context, url string, allowed map[string]string) ([]byte, string, error)
}

// Upload is one image payload submitted directly with the request.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// ImageChanges describes the caller-requested mutations to a product's image
// list. Removals resolve first, then URL additions, then uploads.
type ImageChanges struct {
	Remove     []string
	AddURLs    []string
	RemoteURLs []string
	Uploads    []Upload
}

// VideoChanges describes mutations to the video id list. Entries may be full
// URLs or bare canonical ids.
type VideoChanges struct {
	Remove []string
	Add    []string
}

// Manager owns the per-product media collections. It composes the blob store
// and the remote fetcher and computes the final ordered, de-duplicated lists
// against a current snapshot.
type Manager struct {
	blobs          blobStore
	fetch          remoteFetcher
	maxImages      int
	maxVideos      int
	uploadMaxBytes int64
	logg           *logger.Logger
}

// NewManager constructs a media manager backed by the provided store and fetcher.
func NewManager(blobs blobStore, fetch remoteFetcher, cfg config.MediaConfig, logg *logger.Logger) (*Manager, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if fetch == nil {
		return nil, fmt.Errorf("remote fetcher required")
	}
	if cfg.MaxImages <= 0 || cfg.MaxVideos <= 0 {
		return nil, fmt.Errorf("media limits must be positive")
	}
	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("upload size limit must be positive")
	}
	return &Manager{
		blobs:          blobs,
		fetch:          fetch,
		maxImages:      cfg.MaxImages,
		maxVideos:      cfg.MaxVideos,
		uploadMaxBytes: cfg.UploadMaxBytes,
		logg:           logg,
	}, nil
}

// ResolveImages applies changes to the current image list and returns the
// final collection: removals first, then URL references, then uploads, with
// surviving entries keeping their order and additions appended in submission
// order. Removing an entry that is not present is a no-op.
func (m *Manager) ResolveImages(ctx context.Context, current []string, changes ImageChanges) ([]string, error) {
	set := newRefSet(current)

	for _, raw := range changes.Remove {
		ref := normalizeImageRef(raw)
		if ref == "" || !set.remove(ref) {
			continue
		}
		key, err := blob.DecodeKey(ref)
		if err != nil {
			// Externally hosted reference, nothing stored locally.
			continue
		}
		if err := m.blobs.Delete(ctx, key); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete image artifact")
		}
	}

	for _, raw := range changes.AddURLs {
		set.add(normalizeImageRef(raw))
	}

	for _, raw := range changes.RemoteURLs {
		data, ext, err := m.fetch.Fetch(ctx, raw, ImageExtensions())
		if err != nil {
			return nil, wrapFetchErr(err, raw)
		}
		key := blob.NewKey(blob.ProductsPrefix, ext)
		if err := m.blobs.Put(ctx, key, bytes.NewReader(data)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store fetched image")
		}
		set.add(blob.RelativePath(key))
	}

	for _, upload := range changes.Uploads {
		ext, err := extensionForUpload(upload.ContentType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("upload %q rejected", upload.FileName))
		}
		if upload.Size > m.uploadMaxBytes {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload %q exceeds %d bytes", upload.FileName, m.uploadMaxBytes))
		}
		key := blob.NewKey(blob.ProductsPrefix, ext)
		if err := m.blobs.Put(ctx, key, io.LimitReader(upload.Data, m.uploadMaxBytes)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store uploaded image")
		}
		set.add(blob.RelativePath(key))
	}

	if set.len() > m.maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("a product can hold at most %d images", m.maxImages))
	}
	return set.list(), nil
}

// ResolveVideos applies changes to the current video id list. Removal entries
// that fail id extraction are treated as no-match rather than failing the
// surrounding update; additions must extract cleanly.
func (m *Manager) ResolveVideos(ctx context.Context, current []string, changes VideoChanges) ([]string, error) {
	set := newRefSet(current)

	for _, raw := range changes.Remove {
		id, err := ExtractVideoID(raw)
		if err != nil {
			if m.logg != nil {
				m.logg.Warn(ctx, fmt.Sprintf("skipping video removal with unparseable reference %q", raw))
			}
			continue
		}
		set.remove(id)
	}

	for _, raw := range changes.Add {
		id, err := ExtractVideoID(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid video reference")
		}
		set.add(id)
	}

	if set.len() > m.maxVideos {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("a product can hold at most %d videos", m.maxVideos))
	}
	return set.list(), nil
}

func wrapFetchErr(err error, url string) error {
	msg := fmt.Sprintf("fetch remote image %q", url)
	switch {
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrPayloadTooLarge):
		return pkgerrors.Wrap(pkgerrors.CodeUnprocessable, err, msg)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msg)
	}
}
