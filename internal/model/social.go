package model

// Post visibility values.
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

// Post is a feed entry authored by a teacher.
type Post struct {
	ID             string   `json:"id"`
	AuthorID       string   `json:"author_id"`
	AuthorName     string   `json:"author_name"`
	AuthorUsername *string  `json:"author_username"`
	AuthorAvatar   *string  `json:"author_avatar"`
	Content        string   `json:"content"`
	Media          []string `json:"media"`
	Visibility     string   `json:"visibility"`
	Created        string   `json:"created_at"`
}

// Like marks a user's like on a post or a news item (exactly one of PostID and
// NewsID is set).
type Like struct {
	ID         string  `json:"id"`
	PostID     *string `json:"post_id"`
	NewsID     *string `json:"news_id"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	UserAvatar *string `json:"user_avatar"`
	Created    string  `json:"created_at"`
}

// Comment is attached to either a post or a news item.
type Comment struct {
	ID         string  `json:"id"`
	PostID     *string `json:"post_id"`
	NewsID     *string `json:"news_id"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	UserAvatar *string `json:"user_avatar"`
	Content    string  `json:"content"`
	Created    string  `json:"created_at"`
}

// Feed item kinds.
const (
	FeedItemPost = "post"
	FeedItemNews = "news"
)

// FeedItem is one entry of the merged home feed: either a post or a published
// news item, annotated with engagement counts. Post fields are set for posts,
// Title/Body for news; Type discriminates.
type FeedItem struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	AuthorID       string   `json:"author_id"`
	AuthorName     string   `json:"author_name,omitempty"`
	AuthorUsername *string  `json:"author_username,omitempty"`
	AuthorAvatar   *string  `json:"author_avatar,omitempty"`
	Content        string   `json:"content,omitempty"`
	Media          []string `json:"media,omitempty"`
	Title          string   `json:"title,omitempty"`
	Body           string   `json:"body,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	LikesCount     int      `json:"likes_count"`
	CommentsCount  int      `json:"comments_count"`
	Created        string   `json:"created_at"`
	PublishedAt    *string  `json:"published_at,omitempty"`
}

// News status values. Drafts are visible to admins only.
const (
	NewsDraft     = "draft"
	NewsPublished = "published"
)

// News is an admin-authored announcement shown in the feed.
type News struct {
	ID          string   `json:"id"`
	AuthorID    string   `json:"author_id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	PublishedAt *string  `json:"published_at"`
	Created     string   `json:"created_at"`
	Updated     string   `json:"updated_at"`
}
