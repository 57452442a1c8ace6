package api

import (
	"context"
	"strconv"

	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/validate"
)

// PostRequest is the payload for creating a post.
type PostRequest struct {
	Content    string   `json:"content"    validate:"required"`
	Media      []string `json:"media"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=public followers private"`
}

// CreatePost publishes a post to the feed.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (*model.Post, error) {
	if req.Media == nil {
		req.Media = []string{}
	}
	if req.Visibility == "" {
		req.Visibility = model.VisibilityPublic
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Post
	if err := c.postJSON(ctx, "/posts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Posts lists recent posts, optionally filtered to one author's username.
func (c *Client) Posts(ctx context.Context, username string, limit int) ([]model.Post, error) {
	var out []model.Post
	q := query("username", username, "limit", limitParam(limit))
	if err := c.get(ctx, "/posts"+q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post fetches one post by id.
func (c *Client) Post(ctx context.Context, id string) (*model.Post, error) {
	var out model.Post
	if err := c.get(ctx, "/posts/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost removes one of the current user's own posts.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.delete(ctx, "/posts/"+id, nil)
}

// Feed returns the merged post+news feed, newest first. kind is "all", "posts"
// or "news".
func (c *Client) Feed(ctx context.Context, kind string, limit int) ([]model.FeedItem, error) {
	var out []model.FeedItem
	q := query("type", kind, "limit", limitParam(limit))
	if err := c.get(ctx, "/feed"+q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchUsers finds users by name or username fragment. The backend returns
// nothing for queries shorter than two characters.
func (c *Client) SearchUsers(ctx context.Context, q string) ([]model.PublicProfile, error) {
	var out []model.PublicProfile
	if err := c.get(ctx, "/search/users"+query("q", q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile bundles a public profile with its posts and follow counts.
type Profile struct {
	User           model.PublicProfile `json:"user"`
	Posts          []model.Post        `json:"posts"`
	FollowerCount  int                 `json:"follower_count"`
	FollowingCount int                 `json:"following_count"`
}

// UserProfile fetches another user's public profile page by username.
func (c *Client) UserProfile(ctx context.Context, username string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/users/"+username, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Followers lists the users following userID.
func (c *Client) Followers(ctx context.Context, userID string) ([]model.PublicProfile, error) {
	var out []model.PublicProfile
	if err := c.get(ctx, "/users/"+userID+"/followers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Following lists the users userID follows.
func (c *Client) Following(ctx context.Context, userID string) ([]model.PublicProfile, error) {
	var out []model.PublicProfile
	if err := c.get(ctx, "/users/"+userID+"/following", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Follow starts following a user. Following someone already followed is not an
// error; the backend just acknowledges.
func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.postJSON(ctx, "/users/"+userID+"/follow", nil, nil)
}

// Unfollow stops following a user.
func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.delete(ctx, "/users/"+userID+"/follow", nil)
}

// IsFollowing reports whether the current user follows userID.
func (c *Client) IsFollowing(ctx context.Context, userID string) (bool, error) {
	var out struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := c.get(ctx, "/users/"+userID+"/is-following", &out); err != nil {
		return false, err
	}
	return out.IsFollowing, nil
}

// LikePost toggles the current user's like on a post and reports the new
// state.
func (c *Client) LikePost(ctx context.Context, postID string) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	if err := c.postJSON(ctx, "/posts/"+postID+"/like", nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

// PostLikes lists who liked a post.
func (c *Client) PostLikes(ctx context.Context, postID string) ([]model.Like, error) {
	var out []model.Like
	if err := c.get(ctx, "/posts/"+postID+"/likes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommentOnPost adds a comment to a post.
func (c *Client) CommentOnPost(ctx context.Context, postID, content string) (*model.Comment, error) {
	req := struct {
		Content string `json:"content" validate:"required"`
	}{content}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Comment
	if err := c.postJSON(ctx, "/posts/"+postID+"/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostComments lists a post's comments oldest-first.
func (c *Client) PostComments(ctx context.Context, postID string) ([]model.Comment, error) {
	var out []model.Comment
	if err := c.get(ctx, "/posts/"+postID+"/comments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment removes one of the current user's own comments.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.delete(ctx, "/comments/"+commentID, nil)
}

// LikeNews toggles the current user's like on a news item.
func (c *Client) LikeNews(ctx context.Context, newsID string) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	if err := c.postJSON(ctx, "/news/"+newsID+"/like", nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

// NewsLikes lists who liked a news item.
func (c *Client) NewsLikes(ctx context.Context, newsID string) ([]model.Like, error) {
	var out []model.Like
	if err := c.get(ctx, "/news/"+newsID+"/likes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommentOnNews adds a comment to a news item. News comments use a different
// payload shape from post comments on the backend.
func (c *Client) CommentOnNews(ctx context.Context, newsID, text string) (*model.Comment, error) {
	req := struct {
		Text     string  `json:"text" validate:"required"`
		ParentID *string `json:"parent_id"`
	}{Text: text}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Comment
	if err := c.postJSON(ctx, "/news/"+newsID+"/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewsComments lists a news item's comments oldest-first.
func (c *Client) NewsComments(ctx context.Context, newsID string) ([]model.Comment, error) {
	var out []model.Comment
	if err := c.get(ctx, "/news/"+newsID+"/comments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// News fetches a single published news item.
func (c *Client) News(ctx context.Context, newsID string) (*model.News, error) {
	var out model.News
	if err := c.get(ctx, "/news/"+newsID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewsRequest is the admin payload for creating or editing a news item.
type NewsRequest struct {
	Title  string   `json:"title"  validate:"required"`
	Body   string   `json:"body"   validate:"required"`
	Tags   []string `json:"tags"`
	Status string   `json:"status" validate:"omitempty,oneof=draft published"`
}

// AdminNewsList returns every news item including drafts. Admin only.
func (c *Client) AdminNewsList(ctx context.Context) ([]model.News, error) {
	var out []model.News
	if err := c.get(ctx, "/admin/news", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminCreateNews publishes or drafts a news item. Admin only.
func (c *Client) AdminCreateNews(ctx context.Context, req NewsRequest) (*model.News, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if req.Status == "" {
		req.Status = model.NewsDraft
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.News
	if err := c.postJSON(ctx, "/admin/news", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateNews edits a news item. Admin only.
func (c *Client) AdminUpdateNews(ctx context.Context, newsID string, req NewsRequest) (*model.News, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.News
	if err := c.patchJSON(ctx, "/admin/news/"+newsID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDeleteNews removes a news item. Admin only.
func (c *Client) AdminDeleteNews(ctx context.Context, newsID string) error {
	return c.delete(ctx, "/admin/news/"+newsID, nil)
}

func limitParam(limit int) string {
	if limit <= 0 {
		return ""
	}
	return strconv.Itoa(limit)
}
