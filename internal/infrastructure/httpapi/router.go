// Package httpapi перехватывает исходящие запросы к серверу POS: подставляет адрес
// активной конфигурации, служебные заголовки и токен сессии.
package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"poslink/internal/domain/models"
	"poslink/internal/domain/ports"
)

const (
	HeaderHostname      = "x-Hostname"
	HeaderDeviceIP      = "x-Device-IP"
	HeaderAuthorization = "Authorization"

	loginSegment = "login"

	DefaultReadTimeout = 2 * time.Second
)

// RouterOptions - необязательные параметры маршрутизатора
type RouterOptions struct {
	// ReadTimeout ограничивает чтение конфигурации и токена перед каждым запросом
	ReadTimeout time.Duration
	Logger      ports.Logger
	// LocalIP подменяет определение адреса устройства (для тестов)
	LocalIP func() string
}

// Router реализует http.RoundTripper. Каждый запрос заново читает активную
// конфигурацию, поэтому ее изменение действует уже со следующего вызова.
type Router struct {
	base        http.RoundTripper
	configs     ports.ServerConfigRepository
	sessions    ports.SessionRepository
	readTimeout time.Duration
	localIP     func() string
	log         ports.Logger
}

// NewRouter создает маршрутизатор поверх base (http.DefaultTransport, если nil)
func NewRouter(base http.RoundTripper, configs ports.ServerConfigRepository, sessions ports.SessionRepository, opts RouterOptions) *Router {
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.LocalIP == nil {
		opts.LocalIP = LocalIPv4
	}
	if opts.Logger == nil {
		opts.Logger = ports.NopLogger{}
	}
	return &Router{
		base:        base,
		configs:     configs,
		sessions:    sessions,
		readTimeout: opts.ReadTimeout,
		localIP:     opts.LocalIP,
		log:         opts.Logger,
	}
}

// RoundTrip проверяет конфигурацию и отправляет копию запроса на настроенный сервер.
// Исходный запрос не изменяется.
func (r *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	out, err := r.prepare(req)
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}
	return r.base.RoundTrip(out)
}

func (r *Router) prepare(req *http.Request) (*http.Request, error) {
	ctx, cancel := context.WithTimeout(req.Context(), r.readTimeout)
	defer cancel()

	cfg, err := r.configs.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("httpapi: чтение активной конфигурации: %w", err)
	}

	target, err := ValidateConfiguration(cfg)
	if err != nil {
		r.log.Warn("[ROUTER] %s %s отклонен: %v", req.Method, req.URL.Path, err)
		return nil, err
	}

	out := req.Clone(req.Context())
	out.URL.Scheme = target.Scheme
	out.URL.Host = target.Host
	out.Host = target.Host

	out.Header.Set(HeaderHostname, cfg.ServerName)
	out.Header.Set(HeaderDeviceIP, r.localIP())

	if IsLoginPath(out.URL.Path) {
		out.Header.Del(HeaderAuthorization)
		r.log.Debug("[ROUTER] %s %s (вход, без токена)", out.Method, out.URL.Redacted())
		return out, nil
	}

	token, err := r.sessions.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("httpapi: чтение токена сессии: %w", err)
	}
	if token != "" {
		out.Header.Set(HeaderAuthorization, "Bearer "+token)
		r.log.Debug("[ROUTER] %s %s (субъект: %s)", out.Method, out.URL.Redacted(), tokenSubject(token))
	} else {
		out.Header.Del(HeaderAuthorization)
		r.log.Debug("[ROUTER] %s %s (без токена)", out.Method, out.URL.Redacted())
	}
	return out, nil
}

// ValidateConfiguration проверяет конфигурацию и возвращает разобранный адрес сервера
func ValidateConfiguration(cfg *models.ServerConfiguration) (*url.URL, error) {
	if cfg == nil {
		return nil, &ConfigError{
			Kind:    KindNoActiveConfiguration,
			Message: "No hay un servidor configurado. Configure el servidor antes de continuar.",
		}
	}
	if strings.TrimSpace(cfg.ServerName) == "" {
		return nil, &ConfigError{
			Kind:    KindMissingHostname,
			Message: "El nombre del equipo no está configurado.",
		}
	}

	raw := strings.TrimSpace(cfg.ServerURL)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &ConfigError{
			Kind:    KindInvalidServerURL,
			Message: fmt.Sprintf("La URL del servidor no es válida: %q", cfg.ServerURL),
		}
	}
	return u, nil
}

// IsLoginPath сообщает, указывает ли путь на точку входа
func IsLoginPath(p string) bool {
	p = strings.TrimSuffix(p, "/")
	return p != "" && path.Base(p) == loginSegment
}

// tokenSubject достает sub из JWT без проверки подписи, только для журнала
func tokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "?"
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "?"
	}
	return sub
}

// drain дочитывает и закрывает тело ответа, чтобы соединение вернулось в пул
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}
