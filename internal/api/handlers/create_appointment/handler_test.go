package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type fakeUseCase struct {
	gotReq *createAppointment.Request
	resp   *createAppointment.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func sampleResponse() *createAppointment.Response {
	customerID := int64(42)
	return &createAppointment.Response{
		ID:              10,
		CustomerID:      &customerID,
		StylistID:       1,
		StartTime:       time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 9, 10, 10, 30, 0, 0, time.UTC),
		Status:          domain.StatusPending,
		PaymentMethod:   domain.PaymentMethodCash,
		PaymentStatus:   domain.PaymentNotRequired,
		DurationMinutes: 30,
		TotalPrice:      1500,
		ServiceIDs:      []int64{1},
		CreatedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func doRequest(t *testing.T, uc *fakeUseCase, body map[string]interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, noopLogger{})

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(raw))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	validBody := map[string]interface{}{
		"stylistId":     1,
		"date":          "2026-09-10",
		"startTime":     "10:00",
		"serviceIds":    []int64{1},
		"paymentMethod": "cash",
	}

	t.Run("клиент создаёт запись на себя", func(t *testing.T) {
		uc := &fakeUseCase{resp: sampleResponse()}

		rec := doRequest(t, uc, validBody, map[string]string{"X-User-ID": "42"})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, uc.gotReq)
		require.NotNil(t, uc.gotReq.CustomerID)
		assert.Equal(t, int64(42), *uc.gotReq.CustomerID)

		var resp AppointmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, "P", resp.Status)
	})

	t.Run("мастер оформляет гостевую запись", func(t *testing.T) {
		uc := &fakeUseCase{resp: sampleResponse()}

		body := map[string]interface{}{
			"stylistId":     1,
			"date":          "2026-09-10",
			"startTime":     "10:00",
			"serviceIds":    []int64{1},
			"paymentMethod": "cash",
			"guestName":     "Анна",
			"guestPhone":    "+79990001122",
		}
		rec := doRequest(t, uc, body, map[string]string{
			"X-User-ID":    "7",
			"X-Stylist-ID": "1",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, uc.gotReq)
		assert.Nil(t, uc.gotReq.CustomerID)
		assert.Equal(t, "Анна", uc.gotReq.GuestName)
	})

	t.Run("гостевая запись запрещена обычному клиенту", func(t *testing.T) {
		uc := &fakeUseCase{resp: sampleResponse()}

		body := map[string]interface{}{
			"stylistId":     1,
			"date":          "2026-09-10",
			"startTime":     "10:00",
			"serviceIds":    []int64{1},
			"paymentMethod": "cash",
			"guestName":     "Анна",
			"guestPhone":    "+79990001122",
		}
		rec := doRequest(t, uc, body, map[string]string{"X-User-ID": "42"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, uc.gotReq)
	})

	t.Run("без авторизации", func(t *testing.T) {
		uc := &fakeUseCase{resp: sampleResponse()}

		rec := doRequest(t, uc, validBody, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("занятый слот даёт 409", func(t *testing.T) {
		uc := &fakeUseCase{err: createAppointment.ErrSlotNotAvailable}

		rec := doRequest(t, uc, validBody, map[string]string{"X-User-ID": "42"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("несуществующий мастер даёт 404", func(t *testing.T) {
		uc := &fakeUseCase{err: createAppointment.ErrStylistNotFound}

		rec := doRequest(t, uc, validBody, map[string]string{"X-User-ID": "42"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("время в прошлом даёт 400", func(t *testing.T) {
		uc := &fakeUseCase{err: createAppointment.ErrTimeInPast}

		rec := doRequest(t, uc, validBody, map[string]string{"X-User-ID": "42"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("некорректная дата даёт 400", func(t *testing.T) {
		uc := &fakeUseCase{resp: sampleResponse()}

		body := map[string]interface{}{
			"stylistId":     1,
			"date":          "10.09.2026",
			"startTime":     "10:00",
			"serviceIds":    []int64{1},
			"paymentMethod": "cash",
		}
		rec := doRequest(t, uc, body, map[string]string{"X-User-ID": "42"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.gotReq)
	})
}
