package domain

import "time"

// Role is the caller's position in the role hierarchy. The order
// USER < MANAGER < ADMIN < SUPER_ADMIN is used only for AtLeast comparisons
// (e.g. gating who may re-open a rejected quotation); permission grants are
// always looked up in the explicit per-role table in permission.go.
type Role string

const (
	RoleUser       Role = "user"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleManager:    2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above other in the role hierarchy.
// Unknown roles never satisfy any comparison.
func (r Role) AtLeast(other Role) bool {
	rr, ok1 := roleRank[r]
	or, ok2 := roleRank[other]
	return ok1 && ok2 && rr >= or
}

// User models an authenticated actor. Users referenced by quotations are
// never deleted, only deactivated, so ownership history stays resolvable.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
