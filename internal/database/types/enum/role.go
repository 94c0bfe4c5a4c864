package enum

// UserRole is the coarse access role attached to an identity.
//
//go:generate go tool enumer -type=UserRole -trimprefix=UserRole -transform=lower -json
type UserRole int

const (
	// UserRoleGuest is the role of any identity without a role record.
	UserRoleGuest UserRole = iota
	// UserRoleUser is the base role of an authenticated member.
	UserRoleUser
	// UserRoleAdmin grants every administrative operation.
	UserRoleAdmin
)
