package paymentcard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий карт салона для приёма переводов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория карт
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveBySalon получает активную карту салона.
// Активная карта должна быть одна; если данные это нарушают,
// берём последнюю обновлённую.
func (r *Repository) GetActiveBySalon(ctx context.Context, salonID int64) (*domain.SalonPaymentCard, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"card_type",
		"cardholder_name",
		"card_number",
		"is_active",
		"updated_at",
	).
		From("salon_payment_cards").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("updated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySalon - build select query: %v", ErrBuildQuery, err)
	}

	var card domain.SalonPaymentCard
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&card.ID,
		&card.SalonID,
		&card.CardType,
		&card.CardholderName,
		&card.CardNumber,
		&card.IsActive,
		&card.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveCard
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySalon - scan card: %v", ErrScanRow, err)
	}

	return &card, nil
}
