package domain

// Capability é a permissão exigida por uma operação.
type Capability string

const (
	CapabilityRead  Capability = "read"
	CapabilityAdmin Capability = "admin"
)

// Principal é a identidade de quem chama. O zero value é o usuário anônimo.
type Principal struct {
	Subject string
	Roles   []string
}

func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAuthenticated() bool {
	return p.Subject != ""
}
