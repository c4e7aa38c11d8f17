package dto

import "time"

// CreateAlertRequest alta manual de una alerta de calidad.
type CreateAlertRequest struct {
	Type        string `json:"type" validate:"required,oneof=issue expiration"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

// QualityAlertDTO alerta de calidad.
type QualityAlertDTO struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Resolved    bool      `json:"resolved"`
}

// AlertListResponse alertas (más recientes primero) y número sin resolver.
type AlertListResponse struct {
	Alerts      []QualityAlertDTO `json:"alerts"`
	UnreadCount int               `json:"unread_count"`
}
