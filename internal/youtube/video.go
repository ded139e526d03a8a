// Package youtube extracts video identity from page URLs and looks up video
// metadata for classification.
package youtube

import (
	"net/url"
	"strings"

	"github.com/Veraticus/lockin/internal/model"
)

// VideoID returns the video identifier in pageURL, or "" when there is none.
// It understands watch?v=, youtu.be/<id> and /shorts/<id> forms.
func VideoID(pageURL string) string {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return firstSegment(u.Path)
	case "youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id
		}
		if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok {
			return firstSegment(rest)
		}
	}
	return ""
}

func firstSegment(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

// Metadata describes a video.
type Metadata struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	ChannelName string `json:"channelName"`
	Description string `json:"description"`
}

// ContentItem converts metadata observed at pageURL into a classification request.
func (m Metadata) ContentItem(pageURL string) model.ContentItem {
	return model.ContentItem{
		URL:         pageURL,
		VideoID:     m.VideoID,
		Title:       m.Title,
		ChannelName: m.ChannelName,
		Description: m.Description,
	}.Truncated()
}
