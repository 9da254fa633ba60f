package tmdb

import "strings"

// Named size variants matching the UI's usage.
const (
	SizePoster   = "w342"
	SizeBackdrop = "w780"
	SizeProfile  = "w185"
	SizeDefault  = "w500"
)

// ImageURL builds a full image URL for a TMDB path. Absolute URLs (already
// expanded by an older backend) pass through untouched; empty paths yield "".
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	if size == "" {
		size = SizeDefault
	}
	return c.imageBaseURL + "/" + size + path
}

// PosterURL builds a poster-sized image URL.
func (c *Client) PosterURL(path string) string { return c.ImageURL(path, SizePoster) }

// BackdropURL builds a backdrop-sized image URL.
func (c *Client) BackdropURL(path string) string { return c.ImageURL(path, SizeBackdrop) }

// ProfileURL builds a profile-sized image URL.
func (c *Client) ProfileURL(path string) string { return c.ImageURL(path, SizeProfile) }
