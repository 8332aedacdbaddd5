package entity

import "time"

// Roles de usuario dentro de un tenant.
const (
	RoleAdmin  = "admin"  // Administra paquetes y suscripción del tenant
	RoleMember = "member" // Solo lectura del catálogo y del paquete vigente
)

// User usuario de un tenant. La autenticación emite un JWT con tenant_id,
// user_id y role; todo el resto del servicio es tenant-scoped vía el token.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
