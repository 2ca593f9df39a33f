package domain

import "time"

// Role represents one of the three workflow roles.
type Role string

const (
	RoleBranchManager    Role = "BRANCH_MANAGER"
	RoleOperationManager Role = "OPERATION_MANAGER"
	RoleCEO              Role = "CEO"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBranchManager, RoleOperationManager, RoleCEO:
		return true
	}
	return false
}

// Display returns the human-readable form of the role.
func (r Role) Display() string {
	switch r {
	case RoleBranchManager:
		return "Branch Manager"
	case RoleOperationManager:
		return "Operation Manager"
	case RoleCEO:
		return "CEO"
	}
	return string(r)
}

// Account represents a login account. The id is the primary key and is
// immutable after creation. Branch is required only for branch managers.
type Account struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Role      Role      `json:"role" db:"role"`
	Password  string    `json:"password,omitempty" db:"password"`
	Branch    string    `json:"branch,omitempty" db:"branch"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// User is the password-free view of an account handed to sessions and
// responses.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Branch string `json:"branch,omitempty"`
}

// User strips the password from the account.
func (a Account) User() User {
	return User{ID: a.ID, Name: a.Name, Role: a.Role, Branch: a.Branch}
}
