package model

// Notification types emitted by the backend.
const (
	NotifyLike    = "like"
	NotifyComment = "comment"
	NotifyFollow  = "follow"
)

// Notification is a social event addressed to the current user. The client
// only ever flips the Read flag (via the read endpoints); it never creates or
// deletes notifications.
type Notification struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Type          string  `json:"type"`
	ActorID       string  `json:"actor_id"`
	ActorName     string  `json:"actor_name"`
	ActorUsername *string `json:"actor_username"`
	ActorAvatar   *string `json:"actor_avatar"`
	PostID        *string `json:"post_id"`
	Content       *string `json:"content"` // comment preview text
	Read          bool    `json:"read"`
	Created       string  `json:"created_at"`
}

// UnreadCount is the server-computed scalar from GET /notifications/unread-count.
// It is fetched independently of the notification list and never derived from
// it client-side.
type UnreadCount struct {
	Count int `json:"count"`
}
