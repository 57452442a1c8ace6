package model

// Thread is a two-party conversation as returned by GET /threads: the raw
// participant list enriched with the other party's profile and a preview of
// the most recent message.
type Thread struct {
	ID            string         `json:"id"`
	Participants  []string       `json:"participants"`
	OtherUser     *PublicProfile `json:"other_user"`
	LastMessage   *Message       `json:"last_message"`
	LastMessageAt *string        `json:"last_message_at"`
	Created       string         `json:"created_at"`
}

// Message is a single direct message inside a thread. ReadBy lists the
// participant ids that have marked it read; the sender is always included.
type Message struct {
	ID           string   `json:"id"`
	ThreadID     string   `json:"thread_id"`
	SenderID     string   `json:"sender_id"`
	SenderName   string   `json:"sender_name"`
	SenderAvatar *string  `json:"sender_avatar"`
	Body         string   `json:"body"`
	Media        []string `json:"media"`
	ReadBy       []string `json:"read_by"`
	Created      string   `json:"created_at"`
}
