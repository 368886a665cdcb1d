package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий расписания: мастера, их услуги, рабочие часы и выходные
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetStylist получает мастера по ID
func (r *Repository) GetStylist(ctx context.Context, stylistID int64) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"display_name",
		"telegram_chat_id",
		"timezone",
	).
		From("stylists").
		Where(squirrel.Eq{"id": stylistID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Stylist
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.SalonID,
		&s.DisplayName,
		&s.TelegramChatID,
		&s.Timezone,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - scan stylist: %v", ErrScanRow, err)
	}

	return &s, nil
}

// GetStylistServices получает услуги мастера по ID услуг каталога.
// Цена берётся у мастера, длительность - из услуги каталога.
// Отсутствующие у мастера услуги в результат просто не попадают -
// сверка по количеству лежит на вызывающем слое.
func (r *Repository) GetStylistServices(ctx context.Context, stylistID int64, catalogServiceIDs []int64) ([]domain.StylistService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"ss.id",
		"ss.stylist_id",
		"ss.catalog_service_id",
		"ss.price",
		"cs.duration_minutes",
	).
		From("stylist_services ss").
		Join("catalog_services cs ON cs.id = ss.catalog_service_id").
		Where(squirrel.Eq{"ss.stylist_id": stylistID}).
		Where(squirrel.Eq{"ss.catalog_service_id": catalogServiceIDs}).
		OrderBy("ss.catalog_service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylistServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylistServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.StylistService, 0, len(catalogServiceIDs))
	for rows.Next() {
		var s domain.StylistService
		err := rows.Scan(
			&s.ID,
			&s.StylistID,
			&s.CatalogServiceID,
			&s.Price,
			&s.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetStylistServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStylistServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetDaySchedule получает рабочие интервалы мастера на день недели
// (с перерывами) и его выходные на конкретную дату
func (r *Repository) GetDaySchedule(ctx context.Context, stylistID int64, weekday int, date time.Time) (*domain.DaySchedule, error) {
	workingHours, err := r.getWorkingHours(ctx, stylistID, weekday)
	if err != nil {
		return nil, err
	}

	daysOff, err := r.getDaysOff(ctx, stylistID, date)
	if err != nil {
		return nil, err
	}

	return &domain.DaySchedule{
		WorkingHours: workingHours,
		DaysOff:      daysOff,
	}, nil
}

func (r *Repository) getWorkingHours(ctx context.Context, stylistID int64, weekday int) ([]domain.WorkingHour, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"stylist_id",
		"weekday",
		"start_time",
		"end_time",
	).
		From("working_hours").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		Where(squirrel.Eq{"weekday": weekday}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.WorkingHour, 0)
	for rows.Next() {
		var wh domain.WorkingHour
		err := rows.Scan(&wh.ID, &wh.StylistID, &wh.Weekday, &wh.StartTime, &wh.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: getWorkingHours - scan row: %v", ErrScanRow, err)
		}
		hours = append(hours, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWorkingHours - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadBreaks(ctx, executor, hours); err != nil {
		return nil, err
	}

	return hours, nil
}

// loadBreaks загружает перерывы для набора рабочих интервалов одним запросом
func (r *Repository) loadBreaks(ctx context.Context, executor DBExecutor, hours []domain.WorkingHour) error {
	if len(hours) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(hours))
	byID := make(map[int64]*domain.WorkingHour, len(hours))
	for i := range hours {
		ids = append(ids, hours[i].ID)
		byID[hours[i].ID] = &hours[i]
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"working_hour_id",
		"start_time",
		"end_time",
	).
		From("working_hour_breaks").
		Where(squirrel.Eq{"working_hour_id": ids}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.BreakPeriod
		err := rows.Scan(&b.ID, &b.WorkingHourID, &b.StartTime, &b.EndTime)
		if err != nil {
			return fmt.Errorf("%w: loadBreaks - scan row: %v", ErrScanRow, err)
		}
		if wh, ok := byID[b.WorkingHourID]; ok {
			wh.Breaks = append(wh.Breaks, b)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadBreaks - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) getDaysOff(ctx context.Context, stylistID int64, date time.Time) ([]domain.StylistDayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"stylist_id",
		"date",
		"from_time",
		"to_time",
	).
		From("stylist_days_off").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getDaysOff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getDaysOff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	daysOff := make([]domain.StylistDayOff, 0)
	for rows.Next() {
		var d domain.StylistDayOff
		err := rows.Scan(&d.ID, &d.StylistID, &d.Date, &d.FromTime, &d.ToTime)
		if err != nil {
			return nil, fmt.Errorf("%w: getDaysOff - scan row: %v", ErrScanRow, err)
		}
		daysOff = append(daysOff, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getDaysOff - rows error: %v", ErrScanRow, err)
	}

	return daysOff, nil
}
