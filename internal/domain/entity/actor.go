package entity

// Roles válidos para Actor.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
	RoleTecnico   = "tecnico"
)

// Actor identifica a quien ejecuta una operación del kardex. Se pasa explícitamente
// a cada caso de uso; el núcleo no lee sesión ni contexto HTTP.
type Actor struct {
	UserID string
	SiteID string // sede asignada; vacío para administradores sin sede
	Role   string // admin, bodeguero, vendedor, tecnico
}

// IsAdmin indica si el actor tiene rol administrativo.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AtSite indica si el actor está asignado a la sede indicada.
func (a Actor) AtSite(siteID string) bool {
	return a.SiteID != "" && a.SiteID == siteID
}
