package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sdauto/catalog-backend/pkg/config"
)

// fetchChunkSize bounds how much of a remote body is read per iteration so
// the size ceiling is enforced incrementally, not after a full download.
const fetchChunkSize = 64 * 1024

var (
	// ErrUnreachable covers network failures, timeouts, and non-2xx statuses.
	ErrUnreachable = errors.New("remote resource unreachable")
	// ErrUnsupportedType is returned when the Content-Type header is absent
	// from the allow-list.
	ErrUnsupportedType = errors.New("remote content type not allowed")
	// ErrPayloadTooLarge is returned once the accumulated body exceeds the
	// configured ceiling.
	ErrPayloadTooLarge = errors.New("remote payload exceeds size limit")
)

// Fetcher downloads remote media with a hard size ceiling, a redirect cap,
// and an exact-match content type allow-list. No retries; a failed fetch
// surfaces to the caller as a single synchronous failure.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher(cfg config.FetchConfig) *Fetcher {
	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &Fetcher{client: client, maxBytes: cfg.MaxBytes}
}

// Fetch issues a GET for rawURL and returns the body plus the file extension
// mapped from the matched content type. allowed maps exact Content-Type
// header values to extensions; header parameters are not stripped, so
// "image/png; charset=utf-8" does not match "image/png".
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, allowed map[string]string) ([]byte, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, "", fmt.Errorf("%w: invalid url %q", ErrUnreachable, rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("%w: unsupported scheme %q", ErrUnreachable, parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: status %d from %s", ErrUnreachable, resp.StatusCode, parsed.Host)
	}

	contentType := resp.Header.Get("Content-Type")
	ext, ok := allowed[contentType]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	var buf bytes.Buffer
	chunk := make([]byte, fetchChunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if int64(buf.Len()) > f.maxBytes {
				return nil, "", fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, f.maxBytes)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, "", fmt.Errorf("%w: reading body: %v", ErrUnreachable, readErr)
		}
	}

	return buf.Bytes(), ext, nil
}
