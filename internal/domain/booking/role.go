package booking

import "github.com/salonspace/booking-api/internal/httperr"

// ===============================
// User Roles
// ===============================

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleMaster Role = "master"
)

// RequestedRole validates the role asked for at registration.
// Admin is never requestable; it is granted only to the first user.
func RequestedRole(raw string) (Role, error) {
	switch Role(raw) {
	case "":
		return RoleClient, nil
	case RoleClient, RoleMaster:
		return Role(raw), nil
	default:
		return "", httperr.ErrBusiness("invalid_role")
	}
}
