package videos

import (
	"errors"
	"net/url"
)

// Video is a located highlight video, typically a condensed game.
type Video struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Validate checks the video carries an absolute http(s) URL.
func (v Video) Validate() error {
	if v.URL == "" {
		return errors.New("video url required")
	}
	u, err := url.Parse(v.URL)
	if err != nil {
		return err
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("video url must be absolute http(s)")
	}
	return nil
}
