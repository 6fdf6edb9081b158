package auth

import "slices"

const (
	RoleAdmin      = "admin"
	RoleHospital   = "hospital"
	RoleIML        = "iml"
	RoleSVO        = "svo"
	RoleBancoOlhos = "banco_olhos"
	RoleSES        = "ses"
)

var (
	// CanNotify are the roles allowed to register a death on chain
	CanNotify = []string{RoleAdmin, RoleHospital, RoleIML, RoleSVO}
	// HealthOperators may read notifications and relay meta-transactions
	HealthOperators = []string{RoleAdmin, RoleHospital, RoleIML, RoleSVO, RoleBancoOlhos, RoleSES}
	// AdminOnly guards relayer operations
	AdminOnly = []string{RoleAdmin}
)

// HasRole reports whether role is one of allowed
func HasRole(role string, allowed ...string) bool {
	return slices.Contains(allowed, role)
}
