package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	// ErrInvalidState indica una transición de estado no permitida
	// (ej. activar un paquete que no está en draft, renovar una suscripción terminal).
	ErrInvalidState = errors.New("transición de estado inválida")
	// ErrGatewayUnavailable indica que la pasarela de pagos no respondió a tiempo.
	// Es recuperable: el sweep lo reintenta en el siguiente ciclo; nunca debe
	// interpretarse como un pago fallido.
	ErrGatewayUnavailable = errors.New("pasarela de pagos no disponible")
)
