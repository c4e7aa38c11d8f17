package dto

// PageRequest paginación para listados que proxean al backend (skip/limit).
type PageRequest struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0,max=1000"`
}

// DefaultPage aplica valores por defecto si Limit/Skip son cero o negativos.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Niveles de aviso de una vista.
const (
	NoticeWarning = "warning" // se usaron datos de respaldo
	NoticeError   = "error"   // la vista no pudo construirse
)

// Notice aviso no fatal que acompaña a una vista.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple para operaciones sin cuerpo.
type MessageResponse struct {
	Message string `json:"message"`
}
