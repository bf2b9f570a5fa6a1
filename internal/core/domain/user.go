package domain

// Role is the coarse privilege level attached to every console operator.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the roles the upstream API accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the identity returned by GET /users/me and GET /users.
// The console never treats it as authoritative: it is refetched every time
// the bearer token changes.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsAdmin is nil-safe so callers can ask it of an unresolved identity.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
