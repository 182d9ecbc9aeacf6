package ports

import (
	"context"
	"time"

	"poslink/internal/domain/models"
)

// ServerConfigRepository хранит конфигурации сервера, введенные оператором.
// Для ядра она доступна только на чтение через Active.
type ServerConfigRepository interface {
	// Active возвращает активную конфигурацию или nil, если ее нет
	Active(ctx context.Context) (*models.ServerConfiguration, error)

	// Save добавляет (ID == 0) или обновляет конфигурацию и возвращает ее ID
	Save(ctx context.Context, cfg *models.ServerConfiguration) (int64, error)

	// Activate делает конфигурацию единственной активной
	Activate(ctx context.Context, id int64) error

	List(ctx context.Context) ([]*models.ServerConfiguration, error)
	Delete(ctx context.Context, id int64) error

	// MarkConnected обновляет время последнего успешного обращения к серверу
	MarkConnected(ctx context.Context, id int64, at time.Time) error
}

// RecoveryRepository хранит маркер незавершенной транзакции.
// В хранилище не может быть больше одного маркера.
type RecoveryRepository interface {
	// Save заменяет существующий маркер новым
	Save(ctx context.Context, transactionID string) error

	// Get возвращает маркер или nil
	Get(ctx context.Context) (*models.ActiveTransactionMarker, error)

	// Clear удаляет маркер безусловно
	Clear(ctx context.Context) error
}

// SessionRepository хранит токен сессии, выданный сервером при входе.
type SessionRepository interface {
	// Token возвращает пустую строку, если токена нет
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
