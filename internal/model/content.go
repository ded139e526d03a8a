package model

// MaxDescriptionLength is the number of description characters sent for classification.
const MaxDescriptionLength = 500

// ContentItem is a single piece of content submitted for classification.
type ContentItem struct {
	URL         string `json:"url"`
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	ChannelName string `json:"channelName"`
	Description string `json:"description"`
}

// Truncated returns a copy whose description keeps only the first MaxDescriptionLength characters.
func (c ContentItem) Truncated() ContentItem {
	runes := []rune(c.Description)
	if len(runes) > MaxDescriptionLength {
		c.Description = string(runes[:MaxDescriptionLength])
	}
	return c
}
