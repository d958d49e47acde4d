package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Name   string

	// TenantID queda por compatibilidad con Odin; el registro es single-tenant.
	TenantID string
}
