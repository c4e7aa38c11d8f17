package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSessionExpired     = errors.New("sesión expirada o rechazada por el backend")
	ErrNoSession          = errors.New("no hay sesión activa")
	ErrBackendUnavailable = errors.New("backend no disponible")
	ErrBatchInfoRequired  = errors.New("se requiere número de lote y ubicación")
)
