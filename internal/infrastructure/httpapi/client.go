package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"poslink/internal/domain/ports"
)

const (
	// PlaceholderBaseURL - адрес-заглушка, хост заменяется маршрутизатором при каждом вызове
	PlaceholderBaseURL = "http://pos.invalid"

	LoginPath  = "/api/auth/login"
	HealthPath = "/api/health"
)

// Client - клиент API сервера POS. Все запросы идут через Router.
type Client struct {
	http     *http.Client
	sessions ports.SessionRepository
	configs  ports.ServerConfigRepository
	now      func() time.Time
	log      ports.Logger
}

// NewClient создает клиента поверх маршрутизатора
func NewClient(router *Router, timeout time.Duration) *Client {
	return &Client{
		http:     &http.Client{Transport: router, Timeout: timeout},
		sessions: router.sessions,
		configs:  router.configs,
		now:      time.Now,
		log:      router.log,
	}
}

// Timeout возвращает общий таймаут запроса к серверу
func (c *Client) Timeout() time.Duration { return c.http.Timeout }

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login выполняет вход и сохраняет полученный токен в сессии
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("httpapi: login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, PlaceholderBaseURL+LoginPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("httpapi: login: %w", err)
	}
	defer drain(resp.Body)

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("httpapi: login response: %w", err)
	}
	if strings.TrimSpace(body.Token) == "" {
		return "", ErrEmptyToken
	}

	if err := c.sessions.SetToken(ctx, body.Token); err != nil {
		return "", fmt.Errorf("httpapi: сохранение токена: %w", err)
	}
	c.log.Info("[ROUTER] вход выполнен, субъект: %s", tokenSubject(body.Token))
	return body.Token, nil
}

// Logout удаляет токен сессии
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.ClearToken(ctx)
}

// Ping проверяет доступность сервера и отмечает время последнего подключения
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, PlaceholderBaseURL+HealthPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpapi: ping: %w", err)
	}
	defer drain(resp.Body)

	if err := checkStatus(resp); err != nil {
		return err
	}

	cfg, err := c.configs.Active(ctx)
	if err != nil || cfg == nil {
		return err
	}
	if err := c.configs.MarkConnected(ctx, cfg.ID, c.now()); err != nil {
		c.log.Warn("[ROUTER] не удалось обновить время подключения: %v", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
