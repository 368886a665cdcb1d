// Package maintenance выполняет стартовые проверки схемы БД.
//
// Исторически занятость слота защищал безусловный уникальный констрейнт
// (stylist_id, start_time), из-за которого отменённая запись навсегда
// блокировала свой слот. Он заменён частичным уникальным индексом,
// не учитывающим отменённые записи. Пакет гарантирует, что на старте
// сервис работает именно с частичным индексом.
package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	// legacyConstraintName имя старого безусловного констрейнта
	legacyConstraintName = "appointments_stylist_id_start_time_key"

	// activeSlotIndexName имя частичного уникального индекса
	activeSlotIndexName = "unique_active_appointment_per_slot"
)

// ErrIndexMissing после миграции частичный индекс так и не появился
var ErrIndexMissing = errors.New("active slot index missing after migration")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// DBExecutor минимальный интерфейс БД для миграции индекса
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// IndexMaintainer следит за частичным уникальным индексом активных записей
type IndexMaintainer struct {
	db     DBExecutor
	logger Logger
}

// NewIndexMaintainer создает новый экземпляр IndexMaintainer
func NewIndexMaintainer(db DBExecutor, logger Logger) *IndexMaintainer {
	return &IndexMaintainer{db: db, logger: logger}
}

// EnsureActiveSlotIndex приводит схему к частичному уникальному индексу:
// снимает старый безусловный констрейнт, создаёт индекс и проверяет,
// что он существует. Идемпотентна - повторный запуск ничего не меняет.
func (m *IndexMaintainer) EnsureActiveSlotIndex(ctx context.Context) error {
	dropQuery := fmt.Sprintf(
		"ALTER TABLE appointments DROP CONSTRAINT IF EXISTS %s",
		legacyConstraintName,
	)
	if _, err := m.db.ExecContext(ctx, dropQuery); err != nil {
		return fmt.Errorf("EnsureActiveSlotIndex - drop legacy constraint: %w", err)
	}

	createQuery := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON appointments (stylist_id, start_time) WHERE status <> 'X'",
		activeSlotIndexName,
	)
	if _, err := m.db.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("EnsureActiveSlotIndex - create partial index: %w", err)
	}

	exists, err := m.indexExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrIndexMissing
	}

	m.logger.Info("maintenance: active slot index %s is in place", activeSlotIndexName)
	return nil
}

func (m *IndexMaintainer) indexExists(ctx context.Context) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = 'appointments' AND indexname = $1)"

	var exists bool
	if err := m.db.QueryRowContext(ctx, query, activeSlotIndexName).Scan(&exists); err != nil {
		return false, fmt.Errorf("EnsureActiveSlotIndex - check index: %w", err)
	}
	return exists, nil
}
