package entity

import "time"

// Tipos de alerta de calidad.
const (
	AlertTypeIssue      = "issue"
	AlertTypeExpiration = "expiration"
)

// QualityAlert alerta de calidad en memoria (nunca se persiste en el backend).
type QualityAlert struct {
	ID          string
	Type        string // issue, expiration
	Title       string
	Description string
	Timestamp   time.Time
	Resolved    bool
}

// ValidAlertType indica si t es un tipo de alerta soportado.
func ValidAlertType(t string) bool {
	return t == AlertTypeIssue || t == AlertTypeExpiration
}
