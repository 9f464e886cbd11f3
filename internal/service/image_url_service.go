package service

import "strings"

// ImageURLService turns stored root-relative image paths into absolute URLs.
// The request origin is passed in by the caller; baseURL == "" means no inbound
// request is available and the configured default origin is used instead.
type ImageURLService struct {
	defaultBaseURL string
}

// NewImageURLService constructs an ImageURLService with the fallback origin
// used outside of request scope.
func NewImageURLService(defaultBaseURL string) *ImageURLService {
	return &ImageURLService{defaultBaseURL: strings.TrimSuffix(defaultBaseURL, "/")}
}

// Resolve returns the absolute URL for a stored image path. Paths that already
// carry a scheme are returned unchanged.
func (s *ImageURLService) Resolve(baseURL, imagePath string) string {
	if imagePath == "" {
		return ""
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath
	}
	if !strings.HasPrefix(imagePath, "/") {
		imagePath = "/" + imagePath
	}

	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		base = s.defaultBaseURL
	}
	return base + imagePath
}

// ResolveAll maps each non-empty path through Resolve, dropping empty entries.
func (s *ImageURLService) ResolveAll(baseURL string, imagePaths []string) []string {
	urls := make([]string, 0, len(imagePaths))
	for _, p := range imagePaths {
		if p == "" {
			continue
		}
		urls = append(urls, s.Resolve(baseURL, p))
	}
	return urls
}
