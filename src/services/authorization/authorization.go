package authorization

import (
	"fmt"
	"strings"

	"campusrecords/src/domain"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

var capabilitiesByRole = map[string][]domain.Capability{
	RoleUser:  {domain.CapabilityRead},
	RoleAdmin: {domain.CapabilityRead, domain.CapabilityAdmin},
}

// Capabilities devolve o conjunto de capacidades que o principal possui.
// Qualquer usuário autenticado pode ler, mesmo sem roles conhecidas.
func Capabilities(principal domain.Principal) map[domain.Capability]bool {
	held := make(map[domain.Capability]bool)
	if !principal.IsAuthenticated() {
		return held
	}

	held[domain.CapabilityRead] = true

	for _, role := range principal.Roles {
		for _, capability := range capabilitiesByRole[normalizeRole(role)] {
			held[capability] = true
		}
	}

	return held
}

// Require retorna domain.ErrForbidden quando o principal não possui a capacidade.
func Require(principal domain.Principal, capability domain.Capability) error {
	if Capabilities(principal)[capability] {
		return nil
	}

	subject := principal.Subject
	if subject == "" {
		subject = "anonymous"
	}

	return fmt.Errorf("%s lacks capability %q: %w", subject, capability, domain.ErrForbidden)
}

// normalizeRole aceita "admin", "ADMIN" e "ROLE_ADMIN".
func normalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !strings.HasPrefix(role, "ROLE_") {
		role = "ROLE_" + role
	}
	return role
}
