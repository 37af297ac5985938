package domain

// RoleAdmin is the only role the core distinguishes. Absence of the
// assignment means ordinary-user privilege.
const RoleAdmin = "admin"

// Actor is the acting identity, resolved by the external auth layer.
type Actor struct {
	ID    string
	Name  string
	Admin bool
}

// Profile is a user's advisory metadata. Role assignments live apart
// from authentication identity.
type Profile struct {
	UserID string
	Name   string
	Email  string
}
