package media

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	youtubeWatchRe = regexp.MustCompile(`^(?:https?://(?:www\.)?youtube\.com/watch\?(?:.*&)?v=|https?://(?:www\.)?youtu\.be/)([a-zA-Z0-9_-]{11})(?:[?&].*)?$`)
	videoIDRe      = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID normalizes any accepted video reference to its canonical
// 11-character id. Both the long watch form and the short-link form collapse
// to the same id, so differently shaped URLs compare equal. A bare canonical
// id passes through unchanged.
func ExtractVideoID(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("video reference is empty")
	}
	if videoIDRe.MatchString(value) {
		return value, nil
	}
	if m := youtubeWatchRe.FindStringSubmatch(value); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("unrecognized video reference %q", raw)
}
