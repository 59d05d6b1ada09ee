package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Marks own attendance
	RoleAdmin    Role = "admin"    // Manages the roster and attendance
)

// ParseRole maps a stored role string to a Role. Anything unknown is treated as an employee.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}

type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Stamp sets the audit timestamps of a profile being written.
func (u *User) Stamp(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}
