package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poslink/internal/domain/models"
)

// RecoveryRepo хранит единственный маркер незавершенной транзакции.
type RecoveryRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecoveryRepo создает репозиторий маркера
func NewRecoveryRepo(db *sql.DB) *RecoveryRepo {
	return &RecoveryRepo{db: db, now: time.Now}
}

// Save атомарно заменяет маркер. Строка с id=1 единственная по построению.
func (r *RecoveryRepo) Save(ctx context.Context, transactionID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO active_transaction (id, transaction_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			transaction_id = excluded.transaction_id,
			created_at     = excluded.created_at`,
		models.ActiveTransactionID, transactionID, formatTime(r.now()))
	if err != nil {
		return fmt.Errorf("ошибка сохранения маркера транзакции: %w", err)
	}
	return nil
}

// Get возвращает маркер или nil, если его нет
func (r *RecoveryRepo) Get(ctx context.Context) (*models.ActiveTransactionMarker, error) {
	var (
		id        string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT transaction_id, created_at FROM active_transaction WHERE id = ?`,
		models.ActiveTransactionID).Scan(&id, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения маркера транзакции: %w", err)
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &models.ActiveTransactionMarker{TransactionID: id, CreatedAt: t}, nil
}

// Clear удаляет маркер безусловно
func (r *RecoveryRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_transaction`); err != nil {
		return fmt.Errorf("ошибка удаления маркера транзакции: %w", err)
	}
	return nil
}
