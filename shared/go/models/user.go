package models

import "time"

// Role determines which moderation operations a user may perform.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User is an account holder.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Requester identifies who is issuing a request. The zero value is an
// unauthenticated visitor.
type Requester struct {
	UserID int64
	Role   Role
}

// Authenticated reports whether the requester carries a user id.
func (r Requester) Authenticated() bool {
	return r.UserID > 0
}

// CanModerate reports whether the requester may review suggestions, issues
// and edit the shared catalog.
func (r Requester) CanModerate() bool {
	return r.Authenticated() && (r.Role == RoleModerator || r.Role == RoleAdmin)
}
