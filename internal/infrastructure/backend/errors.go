package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/qualistock/internal/domain"
)

// APIError respuesta no 2xx del backend. Unwrap devuelve el error de dominio equivalente.
type APIError struct {
	Status int
	Method string
	Route  string
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %s %s respondió %d: %s", e.Method, e.Route, e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: %s %s respondió %d", e.Method, e.Route, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

func newAPIError(r request, status int, raw []byte, sentinel error) *APIError {
	if sentinel == nil {
		sentinel = sentinelForStatus(status)
	}
	return &APIError{
		Status: status,
		Method: r.method,
		Route:  r.route,
		Detail: parseDetail(raw),
		Err:    sentinel,
	}
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return domain.ErrConflict
	case status >= 500:
		return domain.ErrBackendUnavailable
	default:
		return fmt.Errorf("estado HTTP inesperado %d", status)
	}
}

// parseDetail extrae el mensaje de un cuerpo de error {"detail": "..."} o {"detail": [{"msg": "..."}]}.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		s := strings.TrimSpace(string(raw))
		if len(s) > 200 {
			s = s[:200]
		}
		return s
	}
	var msg string
	if err := json.Unmarshal(body.Detail, &msg); err == nil {
		return msg
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
				continue
			}
			msgs = append(msgs, it.Msg)
		}
		return strings.Join(msgs, "; ")
	}
	return string(body.Detail)
}
