package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poslink/internal/domain/models"
)

const configColumns = `id, server_url, server_name, is_active, last_connected, datafon_url,
	printer_ip, printer_bluetooth_address, printer_bluetooth_name, use_printer_ip,
	printer_model, datafono_provider, dataphone_terminal_id`

// ServerConfigRepo хранит конфигурации сервера в SQLite.
// Активной может быть не более одной строки (частичный уникальный индекс).
type ServerConfigRepo struct {
	db *sql.DB
}

// NewServerConfigRepo создает репозиторий конфигураций
func NewServerConfigRepo(db *sql.DB) *ServerConfigRepo {
	return &ServerConfigRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (*models.ServerConfiguration, error) {
	var (
		c             models.ServerConfiguration
		isActive      int
		usePrinterIP  int
		lastConnected sql.NullString
	)
	err := row.Scan(&c.ID, &c.ServerURL, &c.ServerName, &isActive, &lastConnected, &c.DatafonURL,
		&c.PrinterIP, &c.PrinterBluetoothAddress, &c.PrinterBluetoothName, &usePrinterIP,
		&c.PrinterModel, &c.DatafonoProvider, &c.DataphoneTerminalID)
	if err != nil {
		return nil, err
	}
	c.IsActive = isActive == 1
	c.UsePrinterIP = usePrinterIP == 1
	if lastConnected.Valid {
		t, err := parseTime(lastConnected.String)
		if err != nil {
			return nil, err
		}
		c.LastConnected = &t
	}
	return &c, nil
}

// Active возвращает активную конфигурацию или nil
func (r *ServerConfigRepo) Active(ctx context.Context) (*models.ServerConfiguration, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM server_configurations WHERE is_active = 1 LIMIT 1`)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения активной конфигурации: %w", err)
	}
	return cfg, nil
}

// Find возвращает конфигурацию по ID
func (r *ServerConfigRepo) Find(ctx context.Context, id int64) (*models.ServerConfiguration, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM server_configurations WHERE id = ?`, id)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrConfigNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %d: %w", id, err)
	}
	return cfg, nil
}

// List возвращает все конфигурации: сначала активная, затем по последнему подключению
func (r *ServerConfigRepo) List(ctx context.Context) ([]*models.ServerConfiguration, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+configColumns+` FROM server_configurations
		ORDER BY is_active DESC, last_connected IS NULL, last_connected DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигураций: %w", err)
	}
	defer rows.Close()

	var result []*models.ServerConfiguration
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
		}
		result = append(result, cfg)
	}
	return result, rows.Err()
}

// Save добавляет или обновляет конфигурацию. Если она помечена активной,
// остальные деактивируются в той же транзакции.
func (r *ServerConfigRepo) Save(ctx context.Context, cfg *models.ServerConfiguration) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if cfg.IsActive {
		if _, err := tx.ExecContext(ctx,
			`UPDATE server_configurations SET is_active = 0 WHERE id != ?`, cfg.ID); err != nil {
			return 0, fmt.Errorf("ошибка деактивации конфигураций: %w", err)
		}
	}

	var lastConnected any
	if cfg.LastConnected != nil {
		lastConnected = formatTime(*cfg.LastConnected)
	}
	args := []any{cfg.ServerURL, cfg.ServerName, boolToInt(cfg.IsActive), lastConnected, cfg.DatafonURL,
		cfg.PrinterIP, cfg.PrinterBluetoothAddress, cfg.PrinterBluetoothName, boolToInt(cfg.UsePrinterIP),
		cfg.PrinterModel, cfg.DatafonoProvider, cfg.DataphoneTerminalID}

	id := cfg.ID
	if id == 0 {
		res, err := tx.ExecContext(ctx, `INSERT INTO server_configurations (
			server_url, server_name, is_active, last_connected, datafon_url,
			printer_ip, printer_bluetooth_address, printer_bluetooth_name, use_printer_ip,
			printer_model, datafono_provider, dataphone_terminal_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return 0, fmt.Errorf("ошибка добавления конфигурации: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("ошибка получения ID конфигурации: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, `UPDATE server_configurations SET
			server_url = ?, server_name = ?, is_active = ?, last_connected = ?, datafon_url = ?,
			printer_ip = ?, printer_bluetooth_address = ?, printer_bluetooth_name = ?, use_printer_ip = ?,
			printer_model = ?, datafono_provider = ?, dataphone_terminal_id = ?
			WHERE id = ?`, append(args, id)...)
		if err != nil {
			return 0, fmt.Errorf("ошибка обновления конфигурации %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("%w: id %d", ErrConfigNotFound, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	cfg.ID = id
	return id, nil
}

// Activate делает конфигурацию id единственной активной
func (r *ServerConfigRepo) Activate(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM server_configurations WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка поиска конфигурации %d: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: id %d", ErrConfigNotFound, id)
	}

	// Сначала снимаем флаг со всех, иначе сработает уникальный индекс
	if _, err := tx.ExecContext(ctx, `UPDATE server_configurations SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("ошибка деактивации конфигураций: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE server_configurations SET is_active = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("ошибка активации конфигурации %d: %w", id, err)
	}
	return tx.Commit()
}

// Delete удаляет конфигурацию
func (r *ServerConfigRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM server_configurations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления конфигурации %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrConfigNotFound, id)
	}
	return nil
}

// MarkConnected обновляет время последнего успешного обращения к серверу
func (r *ServerConfigRepo) MarkConnected(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE server_configurations SET last_connected = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления времени подключения %d: %w", id, err)
	}
	return nil
}
