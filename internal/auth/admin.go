package auth

import "strings"

// Admin role constants carried in the role claim.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// AdminPolicy decides admin privilege from injected configuration rather than
// hardcoded constants, so deployments and tests can swap the membership.
type AdminPolicy struct {
	ids     map[string]bool
	domains map[string]bool
}

// NewAdminPolicy builds a policy from an allow-list of subject IDs and an
// allow-list of email domains (both case-insensitive).
func NewAdminPolicy(adminIDs, adminDomains []string) *AdminPolicy {
	p := &AdminPolicy{
		ids:     make(map[string]bool, len(adminIDs)),
		domains: make(map[string]bool, len(adminDomains)),
	}
	for _, id := range adminIDs {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
			p.ids[id] = true
		}
	}
	for _, d := range adminDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			p.domains[d] = true
		}
	}
	return p
}

// IsAdmin reports whether the claims carry admin privilege: subject in the
// ID allow-list, email domain in the domain allow-list, or an admin role claim.
func (p *AdminPolicy) IsAdmin(claims *Claims) bool {
	if claims == nil {
		return false
	}
	if p.ids[strings.ToLower(claims.Subject)] {
		return true
	}
	if at := strings.LastIndex(claims.Email, "@"); at >= 0 {
		if p.domains[strings.ToLower(claims.Email[at+1:])] {
			return true
		}
	}
	switch claims.Role {
	case RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
