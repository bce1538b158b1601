package blob

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdauto/catalog-backend/pkg/config"
	"github.com/sdauto/catalog-backend/pkg/logger"
)

const (
	// ProductsPrefix is the key prefix for product media objects.
	ProductsPrefix = "products"

	// publicPathSegment appears in every public URL between the base URL and
	// the object key, and is what DecodeKey anchors on.
	publicPathSegment = "storage"

	randomSuffixLen = 10
	timestampLayout = "20060102_150405"
)

var randomAlphabet = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// ErrInvalidKey is returned for keys that are empty, absolute, or escape the
// store root.
var ErrInvalidKey = errors.New("blob: invalid object key")

// Store keeps objects on local disk under a single root directory and serves
// them through a stable public URL scheme. DecodeKey(PublicURL(key)) always
// returns key.
type Store struct {
	root    string
	baseURL string
	logg    *logger.Logger
}

func NewStore(cfg config.BlobConfig, logg *logger.Logger) (*Store, error) {
	if cfg.RootDir == "" {
		return nil, errors.New("blob root directory is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("blob public base url is required")
	}
	if _, err := url.Parse(cfg.PublicBaseURL); err != nil {
		return nil, fmt.Errorf("parsing blob public base url: %w", err)
	}

	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving blob root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}

	return &Store{
		root:    root,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logg:    logg,
	}, nil
}

// NewKey builds a fresh object key under prefix for a payload with the given
// file extension. Keys embed a creation timestamp plus a random suffix so
// concurrent uploads never collide.
func NewKey(prefix, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	suffix := make([]byte, randomSuffixLen)
	random := make([]byte, randomSuffixLen)
	_, _ = rand.Read(random)
	for i, b := range random {
		suffix[i] = randomAlphabet[int(b)%len(randomAlphabet)]
	}
	name := fmt.Sprintf("%s_%s", time.Now().UTC().Format(timestampLayout), suffix)
	if ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, name)
}

// Put streams r into a new object and returns its key.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating blob temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing blob %s: %w", key, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalizing blob %s: %w", key, err)
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("stored blob %s", key))
	}
	return nil
}

// Delete removes the object if it exists. Deleting a missing key is a no-op
// so callers can retry removals safely.
func (s *Store) Delete(ctx context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("deleted blob %s", key))
	}
	return nil
}

// Exists reports whether the object is present.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	full, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Open returns a reader over the stored object. The caller closes it.
func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// PublicURL returns the externally reachable URL for key.
func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/" + publicPathSegment + "/" + strings.TrimPrefix(key, "/")
}

// ResolveRef maps a stored reference to its externally visible URL. Locally
// stored references resolve against the public base; externally hosted
// references pass through untouched.
func (s *Store) ResolveRef(ref string) string {
	key, err := DecodeKey(ref)
	if err != nil {
		return ref
	}
	return s.PublicURL(key)
}

// RelativePath returns the reference form persisted on records, e.g.
// "storage/products/20240101_000000_abcdefghij.jpg".
func RelativePath(key string) string {
	return publicPathSegment + "/" + strings.TrimPrefix(key, "/")
}

// DecodeKey recovers the object key from any public URL or stored reference
// produced by this store. It accepts absolute URLs, absolute paths, and
// relative "storage/..." references.
func DecodeKey(ref string) (string, error) {
	candidate := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		candidate = u.Path
	}
	candidate = strings.Trim(candidate, "/")

	marker := publicPathSegment + "/"
	idx := strings.Index(candidate, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: no %q segment in %q", ErrInvalidKey, publicPathSegment, ref)
	}
	key := candidate[idx+len(marker):]
	if key == "" {
		return "", fmt.Errorf("%w: empty key in %q", ErrInvalidKey, ref)
	}
	return key, nil
}

func (s *Store) resolve(key string) (string, error) {
	if key == "" || path.IsAbs(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
