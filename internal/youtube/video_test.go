package youtube

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/lockin/internal/model"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "watch", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch with extra params", url: "https://youtube.com/watch?list=PL1&v=abc123&t=42", want: "abc123"},
		{name: "mobile", url: "https://m.youtube.com/watch?v=mob1", want: "mob1"},
		{name: "short link", url: "https://youtu.be/xyz789?t=3", want: "xyz789"},
		{name: "shorts", url: "https://www.youtube.com/shorts/s1h2o3/", want: "s1h2o3"},
		{name: "home page", url: "https://www.youtube.com/", want: ""},
		{name: "other site", url: "https://vimeo.com/watch?v=abc", want: ""},
		{name: "malformed", url: "http://[::1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoID(tt.url))
		})
	}
}

func TestMetadata_ContentItem(t *testing.T) {
	meta := Metadata{
		VideoID:     "abc",
		Title:       "Title",
		ChannelName: "Channel",
		Description: strings.Repeat("d", model.MaxDescriptionLength+100),
	}

	item := meta.ContentItem("https://www.youtube.com/watch?v=abc")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", item.URL)
	assert.Equal(t, "abc", item.VideoID)
	assert.Len(t, item.Description, model.MaxDescriptionLength)
}
