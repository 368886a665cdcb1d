package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeScheduleRepo struct {
	stylist     *domain.Stylist
	stylistErr  error
	services    []domain.StylistService
	servicesErr error
	day         *domain.DaySchedule
	dayErr      error
}

func (f *fakeScheduleRepo) GetStylist(_ context.Context, _ int64) (*domain.Stylist, error) {
	return f.stylist, f.stylistErr
}

func (f *fakeScheduleRepo) GetStylistServices(_ context.Context, _ int64, _ []int64) ([]domain.StylistService, error) {
	return f.services, f.servicesErr
}

func (f *fakeScheduleRepo) GetDaySchedule(_ context.Context, _ int64, _ int, _ time.Time) (*domain.DaySchedule, error) {
	return f.day, f.dayErr
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetActiveOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time {
	return s.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func workingDay(t *testing.T, start, end string) *domain.DaySchedule {
	t.Helper()
	return &domain.DaySchedule{
		WorkingHours: []domain.WorkingHour{
			{ID: 1, StylistID: 1, StartTime: mustTime(t, start), EndTime: mustTime(t, end)},
		},
	}
}

func appointmentAt(t *testing.T, date time.Time, start, end string, status domain.Status) *domain.Appointment {
	t.Helper()
	return &domain.Appointment{
		ID:        100,
		StylistID: 1,
		StartTime: mustTime(t, start).OnDate(date, time.UTC),
		EndTime:   mustTime(t, end).OnDate(date, time.UTC),
		Status:    status,
	}
}

func slotStarts(slots []domain.Slot) []string {
	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.StartTime.Format("15:04")
	}
	return starts
}

func newTestUseCase(schedule *fakeScheduleRepo, appointments *fakeAppointmentRepo, now time.Time) *UseCase {
	uc := NewUseCase(schedule, appointments, noopLogger{})
	uc.timeProvider = &stubTimeProvider{now: now}
	return uc
}

func TestExecute_GeneratesSlotsOnGrid(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "10:00", "12:00"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.TotalDurationMinutes)
	assert.Equal(t, 150.0, resp.TotalPrice)
	// Последний кандидат 11:30: окно 11:30-12:00 ещё помещается в рабочие часы
	assert.Equal(t,
		[]string{"10:00", "10:15", "10:30", "10:45", "11:00", "11:15", "11:30"},
		slotStarts(resp.Slots))
}

func TestExecute_CustomStepWidensGrid(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "10:00", "12:00"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
		StepMinutes:       30,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, slotStarts(resp.Slots))
}

func TestExecute_StepOutOfBounds(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{}, &fakeAppointmentRepo{}, time.Now())

	t.Run("слишком мелкий шаг", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			StylistID:         1,
			Date:              time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			CatalogServiceIDs: []int64{5},
			StepMinutes:       3,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("слишком крупный шаг", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			StylistID:         1,
			Date:              time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			CatalogServiceIDs: []int64{5},
			StepMinutes:       200,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_OffGridWorkingHoursKeepOwnGrid(t *testing.T) {
	// График 09:10-10:10: кандидаты идут от начала интервала,
	// поэтому каждый предложенный слот реально бронируем
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "09:10", "10:10"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"09:10", "09:25", "09:40"}, slotStarts(resp.Slots))
}

func TestExecute_SumsMultipleServices(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
			{ID: 11, StylistID: 1, CatalogServiceID: 6, Price: 50, DurationMinutes: 15},
		},
		day: workingDay(t, "10:00", "11:00"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5, 6},
	})

	require.NoError(t, err)
	assert.Equal(t, 45, resp.TotalDurationMinutes)
	assert.Equal(t, 200.0, resp.TotalPrice)
	// Окно 45 минут: последний старт 10:15
	assert.Equal(t, []string{"10:00", "10:15"}, slotStarts(resp.Slots))
}

func TestExecute_ActiveAppointmentBlocksOverlappingSlots(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "09:00", "12:00"),
	}
	appointments := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			appointmentAt(t, date, "10:00", "10:30", domain.StatusConfirmed),
		},
	}
	uc := newTestUseCase(schedule, appointments, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	// 09:30-10:00 и 10:30-11:00 граничат с записью и не считаются пересечением;
	// 09:45 и 10:15 накрывают запись и выпадают
	assert.Equal(t,
		[]string{"09:00", "09:15", "09:30", "10:30", "10:45", "11:00", "11:15", "11:30"},
		slotStarts(resp.Slots))
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "10:00", "11:00"),
	}
	appointments := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			appointmentAt(t, date, "10:00", "10:30", domain.StatusCancelled),
		},
	}
	uc := newTestUseCase(schedule, appointments, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:15", "10:30"}, slotStarts(resp.Slots))
}

func TestExecute_BreakBlocksOverlappingSlots(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	day := workingDay(t, "12:00", "15:00")
	day.WorkingHours[0].Breaks = []domain.BreakPeriod{
		{ID: 1, WorkingHourID: 1, StartTime: mustTime(t, "13:00"), EndTime: mustTime(t, "14:00")},
	}

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: day,
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	// 12:30-13:00 граничит с перерывом и остаётся, 12:45 и 13:45 выпадают
	assert.Equal(t,
		[]string{"12:00", "12:15", "12:30", "14:00", "14:15", "14:30"},
		slotStarts(resp.Slots))
}

func TestExecute_FullDayOffYieldsNoSlots(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	day := workingDay(t, "10:00", "18:00")
	day.DaysOff = []domain.StylistDayOff{
		{ID: 1, StylistID: 1, Date: date},
	}

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: day,
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PartialDayOffBlocksWindow(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	day := workingDay(t, "10:00", "13:00")
	day.DaysOff = []domain.StylistDayOff{
		{ID: 1, StylistID: 1, Date: date, FromTime: mustTime(t, "11:00"), ToTime: mustTime(t, "12:00")},
	}

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: day,
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"10:00", "10:15", "10:30", "12:00", "12:15", "12:30"},
		slotStarts(resp.Slots))
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "10:00", "18:00"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_TodayFiltersElapsedSlots(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 15, 10, 20, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "10:00", "12:00"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "10:45", "11:00", "11:15", "11:30"}, slotStarts(resp.Slots))
}

func TestExecute_ServiceNotOffered(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	schedule := &fakeScheduleRepo{
		stylist: &domain.Stylist{ID: 1, SalonID: 1, Timezone: "UTC"},
		services: []domain.StylistService{
			{ID: 10, StylistID: 1, CatalogServiceID: 5, Price: 150, DurationMinutes: 30},
		},
		day: workingDay(t, "10:00", "18:00"),
	}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              date,
		CatalogServiceIDs: []int64{5, 99},
	})

	require.ErrorIs(t, err, ErrServiceNotOffered)
	assert.Contains(t, err.Error(), "99")
}

func TestExecute_DuplicateService(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{}, &fakeAppointmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CatalogServiceIDs: []int64{5, 5},
	})

	require.ErrorIs(t, err, ErrDuplicateService)
}

func TestExecute_StylistNotFound(t *testing.T) {
	schedule := &fakeScheduleRepo{stylistErr: scheduleRepo.ErrStylistNotFound}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{
		StylistID:         42,
		Date:              time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CatalogServiceIDs: []int64{5},
	})

	require.ErrorIs(t, err, ErrStylistNotFound)
}

func TestExecute_RepositoryErrorWrappedAsInternal(t *testing.T) {
	schedule := &fakeScheduleRepo{stylistErr: errors.New("connection refused")}
	uc := newTestUseCase(schedule, &fakeAppointmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{
		StylistID:         1,
		Date:              time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CatalogServiceIDs: []int64{5},
	})

	require.ErrorIs(t, err, ErrInternal)
}
