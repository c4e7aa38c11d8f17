package inventory

import (
	"fmt"
	"time"
)

// Severidad de un lote según los días que le quedan.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityNormal   = "normal"
)

// Umbrales en días.
const (
	CriticalDays = 2
	WarningDays  = 7
)

// ExpirationSeverity critical ≤ 2 días (incluye vencidos), warning ≤ 7, normal en otro caso.
func ExpirationSeverity(daysRemaining int) string {
	switch {
	case daysRemaining <= CriticalDays:
		return SeverityCritical
	case daysRemaining <= WarningDays:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// ExpirationStatus texto de estado mostrado junto al lote.
func ExpirationStatus(daysRemaining int) string {
	switch {
	case daysRemaining < 0:
		return "Expired"
	case daysRemaining == 0:
		return "Expires today"
	case daysRemaining == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", daysRemaining)
	}
}

// DaysUntil días de calendario entre now y la fecha de vencimiento (negativo si ya pasó).
// Ambas fechas se comparan en UTC, sin la hora.
func DaysUntil(expiration, now time.Time) int {
	e := expiration.UTC()
	n := now.UTC()
	ed := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	nd := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return int(ed.Sub(nd).Hours() / 24)
}
