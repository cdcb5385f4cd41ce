package domain

import "time"

// Role is a total-ordered permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// Known reports whether the role is one of the defined levels.
func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r satisfies the required level. Unknown roles on
// either side never satisfy anything.
func (r Role) AtLeast(required Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return rank >= need
}

// User is the stored account behind a login.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Identity is the verified subject of one request or connection. It is an
// immutable snapshot taken at token verification time and is reconstructed
// from token claims, never from storage.
type Identity struct {
	ID     string
	Email  string
	Role   Role
	Active bool
}

// Identity derives the identity snapshot for a user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role, Active: u.Active}
}
