// Package backend implementa los puertos de repositorio sobre el API REST externo
// (sistema de registro). Client es el único punto de configuración de las peticiones
// salientes: URL base, cabeceras por defecto, timeout y el interceptor de autenticación.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/pkg/logger"
)

// loginPath es la única ruta cuyo 401 no invalida la sesión (credenciales incorrectas).
const loginPath = "/auth/token"

// maxResponseBytes límite de lectura del cuerpo de respuesta.
const maxResponseBytes = 4 << 20

// SessionInvalidator destruye la sesión cuyo token rechazó el backend.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, s *entity.Session) error
}

// Observer recibe la medición de cada llamada saliente (status 0 = error de transporte).
type Observer interface {
	ObserveBackend(method, route string, status int, d time.Duration)
}

// Options configuración del cliente.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Logger      *logger.Logger
	Observer    Observer
	Invalidator SessionInvalidator
	HTTPClient  *http.Client // opcional; si es nil se crea uno con Timeout
}

// Client cliente HTTP compartido hacia el backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	log         *logger.Logger
	observer    Observer
	invalidator SessionInvalidator
}

// NewClient construye el cliente. Timeout por defecto: 10 s.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  hc,
		log:         log.Named("backend"),
		observer:    opts.Observer,
		invalidator: opts.Invalidator,
	}
}

// request describe una llamada saliente. route es la plantilla usada en logs y métricas.
type request struct {
	method string
	path   string
	route  string
	query  url.Values
	body   any
	form   url.Values
}

// do ejecuta la petición aplicando el interceptor de autenticación y decodifica la respuesta en out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.route == "" {
		r.route = r.path
	}
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		body = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.body != nil:
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("backend: serializar %s %s: %w", r.method, r.route, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("backend: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Interceptor de salida: token Bearer de la sesión del context.
	sess := entity.SessionFromContext(ctx)
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r, 0, start)
		c.log.Warn().Err(err).Str("method", r.method).Str("route", r.route).Msg("llamada al backend fallida")
		if ctx.Err() != nil {
			return fmt.Errorf("backend: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("backend: %s %s: %w: %v", r.method, r.route, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(r, resp.StatusCode, start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("backend: leer respuesta: %w", err)
	}

	// Interceptor de entrada: un 401 fuera del login invalida la sesión.
	if resp.StatusCode == http.StatusUnauthorized && r.path != loginPath {
		c.invalidate(ctx, sess)
		return newAPIError(r, resp.StatusCode, raw, domain.ErrSessionExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(r, resp.StatusCode, raw, nil)
		c.log.Warn().
			Str("method", r.method).
			Str("route", r.route).
			Int("status", resp.StatusCode).
			Str("detail", apiErr.Detail).
			Msg("backend respondió con error")
		return apiErr
	}

	c.log.Debug().Str("method", r.method).Str("route", r.route).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("backend ok")

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: deserializar respuesta de %s %s: %w", r.method, r.route, err)
	}
	return nil
}

func (c *Client) invalidate(ctx context.Context, sess *entity.Session) {
	if sess == nil || sess.ID == "" || c.invalidator == nil {
		return
	}
	// La sesión se borra aunque el request original haya sido cancelado.
	if err := c.invalidator.Invalidate(context.WithoutCancel(ctx), sess); err != nil {
		c.log.Error().Err(err).Str("session_id", sess.ID).Msg("no se pudo invalidar la sesión")
		return
	}
	c.log.Info().Str("session_id", sess.ID).Msg("sesión invalidada por 401 del backend")
}

func (c *Client) observe(r request, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackend(r.method, r.route, status, time.Since(start))
	}
}

// IsSessionExpired indica si err proviene de un 401 que invalidó la sesión.
func IsSessionExpired(err error) bool {
	return errors.Is(err, domain.ErrSessionExpired)
}
