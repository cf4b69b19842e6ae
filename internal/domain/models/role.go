package models

// Role is the session profile toggled by the shop staff. It gates a few
// destructive actions and is not an authentication mechanism.
type Role string

const (
	RoleAdmin  Role = "Administrateur"
	RoleSeller Role = "Vendeur"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSeller
}

// CanDelete reports whether the role may remove wines or ledger entries.
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// DefaultUserName returns the session name shown when none was supplied.
func (r Role) DefaultUserName() string {
	if r == RoleSeller {
		return "Mamadou Vendeur"
	}
	return "Jean Admin"
}
