package pax

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Transport определяет интерфейс транспорта для связи с терминалом
type Transport interface {
	// Get выполняет запрос и возвращает тело ответа в UTF-8
	Get(ctx context.Context, target string) ([]byte, error)
}

// HTTPTransport реализует транспорт поверх net/http
type HTTPTransport struct {
	client *http.Client
	logger func(string)
}

// NewHTTPTransport создает HTTP транспорт с таймаутом на весь обмен
func NewHTTPTransport(timeout time.Duration, logger func(string)) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Get отправляет запрос на терминал. Тело ответа перекодируется в UTF-8 по
// заголовку Content-Type: часть прошивок отвечает в ISO-8859-1.
func (t *HTTPTransport) Get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	t.log(fmt.Sprintf(">> GET %s", target))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTerminalRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode response charset: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.log(fmt.Sprintf("<< %d bytes", len(body)))
	return body, nil
}

func (t *HTTPTransport) log(msg string) {
	if t.logger != nil {
		t.logger(msg)
	}
}
