package media

import (
	"fmt"
	"mime"
	"sort"
	"strings"
)

// imageExtensionsByMime is the fail-closed allow-list applied both to remote
// fetches and to direct uploads. Keys are matched exactly against the remote
// Content-Type header; uploads go through sniffMimeType first.
var imageExtensionsByMime = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// ImageContentTypes returns the allow-list in a stable order for logging and
// error messages.
func ImageContentTypes() []string {
	list := make([]string, 0, len(imageExtensionsByMime))
	for k := range imageExtensionsByMime {
		list = append(list, k)
	}
	sort.Strings(list)
	return list
}

// ImageExtensions returns the mime to extension mapping used by the fetcher.
func ImageExtensions() map[string]string {
	out := make(map[string]string, len(imageExtensionsByMime))
	for k, v := range imageExtensionsByMime {
		out[k] = v
	}
	return out
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

func extensionForUpload(contentType string) (string, error) {
	mediaType, err := sniffMimeType(contentType)
	if err != nil {
		return "", err
	}
	ext, ok := imageExtensionsByMime[mediaType]
	if !ok {
		return "", fmt.Errorf("mime type %q not allowed, expected one of %s", mediaType, strings.Join(ImageContentTypes(), ", "))
	}
	return ext, nil
}
