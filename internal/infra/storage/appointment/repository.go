package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// activeSlotIndexName имя частичного уникального индекса по активным записям.
// Нарушение именно этого индекса означает гонку за слот, а не ошибку данных.
const activeSlotIndexName = "unique_active_appointment_per_slot"

// appointmentColumns колонки таблицы appointments в порядке сканирования
var appointmentColumns = []string{
	"id",
	"customer_id",
	"guest_name",
	"guest_phone",
	"stylist_id",
	"start_time",
	"end_time",
	"status",
	"payment_method",
	"payment_status",
	"payment_card_id",
	"receipt_file",
	"receipt_uploaded_at",
	"refund_cardholder_name",
	"refund_card_number",
	"refund_card_type",
	"refund_requested_at",
	"refund_receipt_file",
	"refund_receipt_uploaded_at",
	"notes",
	"created_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе со строками услуг.
// Ожидает вызова внутри активной транзакции (через context) - вставка записи
// и её строк должна быть атомарной.
//
// Финальным арбитром занятости слота служит частичный уникальный индекс
// (stylist_id, start_time) WHERE status <> 'X': его нарушение
// транслируется в ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"guest_name",
			"guest_phone",
			"stylist_id",
			"start_time",
			"end_time",
			"status",
			"payment_method",
			"payment_status",
			"payment_card_id",
			"notes",
		).
		Values(
			a.CustomerID,
			a.GuestName,
			a.GuestPhone,
			a.StylistID,
			a.StartTime,
			a.EndTime,
			a.Status,
			a.PaymentMethod,
			a.PaymentStatus,
			a.PaymentCardID,
			a.Notes,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt)
	if err != nil {
		if isActiveSlotViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	a.CreatedAt = createdAt.Time

	for i := range a.Services {
		line := &a.Services[i]
		line.AppointmentID = a.ID

		lineQuery, lineArgs, err := psqlbuilder.Insert("appointment_services").
			Columns("appointment_id", "stylist_service_id").
			Values(line.AppointmentID, line.StylistServiceID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build line insert: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, lineQuery, lineArgs...).Scan(&line.ID); err != nil {
			return nil, fmt.Errorf("%w: Create - execute line insert: %v", ErrExecQuery, err)
		}
	}

	return a, nil
}

// GetByID получает запись по ID вместе со строками услуг.
//
// Внутри транзакции добавляет FOR UPDATE: переходы статуса и оплаты
// читают запись с блокировкой, чтобы параллельный переход не увёл её
// из состояния, на котором построено решение.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := getByIDQuery(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appointment, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	if err := r.loadLines(ctx, executor, []*domain.Appointment{appointment}); err != nil {
		return nil, err
	}

	return appointment, nil
}

// getByIDQuery строит запрос выборки записи по ID,
// с FOR UPDATE внутри транзакции
func getByIDQuery(ctx context.Context, id int64) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder.ToSql()
}

// GetActiveOverlapping получает активные (не отменённые) записи мастера,
// пересекающиеся с интервалом [from, to).
//
// Внутри транзакции добавляет FOR UPDATE: строки блокируются до коммита,
// чтобы параллельная бронь того же мастера дождалась исхода текущей.
// Вне транзакции запрос чисто читающий (для движка доступности).
func (r *Repository) GetActiveOverlapping(ctx context.Context, stylistID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByStylistBetween получает записи мастера за период [from, to)
// вместе со строками услуг. Отменённые включаются по флагу.
func (r *Repository) GetByStylistBetween(ctx context.Context, stylistID int64, from, to time.Time, includeCancelled bool) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time ASC")

	if !includeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStylistBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStylistBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// GetByCustomer получает записи клиента (новые сверху) вместе со строками услуг
func (r *Repository) GetByCustomer(ctx context.Context, customerID int64, status *domain.Status) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// UpdateFields точечно обновляет перечисленные поля записи.
// Статус и каскадные поля оплаты всегда пишутся одним UPDATE -
// частичного применения перехода не бывает.
func (r *Repository) UpdateFields(ctx context.Context, a *domain.Appointment, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Where(squirrel.Eq{"id": a.ID})

	for _, field := range fields {
		value, err := fieldValue(a, field)
		if err != nil {
			return err
		}
		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateFields - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isActiveSlotViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: UpdateFields - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateFields - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// fieldValue отображает имя колонки на значение из доменной модели
func fieldValue(a *domain.Appointment, field string) (interface{}, error) {
	switch field {
	case "status":
		return a.Status, nil
	case "payment_method":
		return a.PaymentMethod, nil
	case "payment_status":
		return a.PaymentStatus, nil
	case "payment_card_id":
		return a.PaymentCardID, nil
	case "receipt_file":
		return a.ReceiptFile, nil
	case "receipt_uploaded_at":
		return a.ReceiptUploadedAt, nil
	case "refund_cardholder_name":
		return a.RefundCardholderName, nil
	case "refund_card_number":
		return a.RefundCardNumber, nil
	case "refund_card_type":
		return a.RefundCardType, nil
	case "refund_requested_at":
		return a.RefundRequestedAt, nil
	case "refund_receipt_file":
		return a.RefundReceiptFile, nil
	case "refund_receipt_uploaded_at":
		return a.RefundReceiptUploadedAt, nil
	default:
		return nil, fmt.Errorf("%w: UpdateFields - unknown field %q", ErrBuildQuery, field)
	}
}

// loadLines загружает строки услуг для набора записей одним запросом.
// Цена и длительность читаются через живую связь stylist_services -> каталог.
func (r *Repository) loadLines(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(appointments))
	byID := make(map[int64]*domain.Appointment, len(appointments))
	for _, a := range appointments {
		ids = append(ids, a.ID)
		byID[a.ID] = a
	}

	query, args, err := psqlbuilder.Select(
		"aps.id",
		"aps.appointment_id",
		"aps.stylist_service_id",
		"ss.catalog_service_id",
		"ss.price",
		"cs.duration_minutes",
	).
		From("appointment_services aps").
		Join("stylist_services ss ON ss.id = aps.stylist_service_id").
		Join("catalog_services cs ON cs.id = ss.catalog_service_id").
		Where(squirrel.Eq{"aps.appointment_id": ids}).
		OrderBy("aps.id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.AppointmentLine
		err := rows.Scan(
			&line.ID,
			&line.AppointmentID,
			&line.StylistServiceID,
			&line.CatalogServiceID,
			&line.Price,
			&line.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("%w: loadLines - scan row: %v", ErrScanRow, err)
		}

		if a, ok := byID[line.AppointmentID]; ok {
			a.Services = append(a.Services, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadLines - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// scanAppointment сканирует одну запись через переданную функцию Scan
func scanAppointment(scan func(dest ...interface{}) error) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt sql.NullTime

	err := scan(
		&a.ID,
		&a.CustomerID,
		&a.GuestName,
		&a.GuestPhone,
		&a.StylistID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.PaymentMethod,
		&a.PaymentStatus,
		&a.PaymentCardID,
		&a.ReceiptFile,
		&a.ReceiptUploadedAt,
		&a.RefundCardholderName,
		&a.RefundCardNumber,
		&a.RefundCardType,
		&a.RefundRequestedAt,
		&a.RefundReceiptFile,
		&a.RefundReceiptUploadedAt,
		&a.Notes,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// isActiveSlotViolation возвращает true, если ошибка - нарушение частичного
// уникального индекса активных записей
func isActiveSlotViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == activeSlotIndexName
}
