package domain

import "time"

// Permissions maps a caller-defined permission name to its flag. Keys are
// stored verbatim; no fixed vocabulary is enforced.
type Permissions map[string]bool

// Allows reports whether perm is explicitly granted.
func (p Permissions) Allows(perm string) bool {
	return p[perm]
}

// RolePermission is the single permission document owned by a role.
type RolePermission struct {
	Role        string      `json:"role"`
	Permissions Permissions `json:"permissions"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
