// Package model defines the wire types exchanged with the Mentra backend.
//
// Field names mirror the backend's JSON exactly (snake_case). The backend is
// the single source of truth for ids and timestamps — the client never invents
// either.
package model

// Roles a Mentra account can hold. Every account is a teacher unless the
// backend promoted it to admin.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Identity is the authenticated account as returned by GET /auth/me and the
// login/register responses. While a session is authenticated the Session Store
// owns the only copy; everything else reads it through the store.
type Identity struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"` // relative path, nil until an avatar is uploaded
	Role     string  `json:"role"`
	Age      *int    `json:"age"`
	Subject  *string `json:"subject"`
	Created  string  `json:"created_at"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// PublicProfile is the restricted view of another user returned by
// GET /users/{username} and embedded in search results and threads.
type PublicProfile struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
	Subject  *string `json:"subject"`
}
