package utils

import (
	"net/url"
	"strings"
)

// NormalizeImagePath reduces whatever the client sent - a full URL, a
// "/static/..." path or a bare filename - to the bare filename that gets
// persisted. The formatting counterpart is FormatImageURL.
func NormalizeImagePath(image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		if u, err := url.Parse(image); err == nil {
			image = u.Path
		}
	}
	image = strings.TrimPrefix(image, "/static/")
	image = strings.TrimPrefix(image, "/")
	return image
}

// FormatImageURL turns a persisted filename into the display URL served
// from /static. Already-absolute URLs pass through untouched.
func FormatImageURL(baseURL, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return strings.TrimSuffix(baseURL, "/") + "/static/" + strings.TrimPrefix(image, "/")
}
