package models

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	BranchID     *int   `json:"branchId"`
	Active       bool   `json:"active"`
}

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the roles a user may hold.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}
