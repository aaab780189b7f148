package api

// PostSummary is the list-view shape of a post. Content is reduced to
// a plain-text snippet.
type PostSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Snippet  string   `json:"snippet"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Lang     string   `json:"lang,omitempty"`
	Likes    int      `json:"likes"`
}

// PostDetail is the single-post shape. HTML carries the rendered body.
type PostDetail struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Content  string   `json:"content"`
	HTML     string   `json:"html"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Lang     string   `json:"lang,omitempty"`
	Likes    int      `json:"likes"`
	PairID   string   `json:"pair_id,omitempty"`
}

// PostPage wraps one page of summaries.
type PostPage struct {
	Posts      []PostSummary `json:"posts"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
}

// PublishProto is the admin request to create a post pair. An empty
// Title/Content asks the writer to generate from Topic.
type PublishProto struct {
	Persona  string   `json:"persona,omitempty"`
	Topic    string   `json:"topic,omitempty"`
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// UpdateProto is the admin request to rewrite an existing pair.
type UpdateProto struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// LikeResponse reports the post's like count after a toggle and
// whether this client currently counts as a liker.
type LikeResponse struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
