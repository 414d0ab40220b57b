package models

// SourceYouTube is the source tag search providers put on YouTube results.
const SourceYouTube = "YouTube"

// ResultItem is a search result object as a provider returned it. All
// provider fields are kept so the API can hand them back unchanged.
type ResultItem map[string]any

// Source returns the item's source tag, or "" when absent or not a string.
func (r ResultItem) Source() string {
	s, _ := r["source"].(string)
	return s
}

// Link returns the item's link, or "".
func (r ResultItem) Link() string {
	s, _ := r["link"].(string)
	return s
}

// SetEngagement adds view, like and comment counts from m.
func (r ResultItem) SetEngagement(m VideoMetadata) {
	r["views"] = m.Views
	r["likes"] = m.Likes
	r["comments"] = m.Comments
}

// FilterYouTube keeps the items whose source is exactly "YouTube", in order.
// The result is never nil.
func FilterYouTube(items []ResultItem) []ResultItem {
	out := make([]ResultItem, 0, len(items))
	for _, item := range items {
		if item.Source() == SourceYouTube {
			out = append(out, item)
		}
	}
	return out
}
