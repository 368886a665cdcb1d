package payment_action

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	cardRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/paymentcard"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	appointment   *domain.Appointment
	getErr        error
	updatedFields []string
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	return f.appointment, f.getErr
}

func (f *fakeAppointmentRepo) UpdateFields(_ context.Context, _ *domain.Appointment, fields []string) error {
	f.updatedFields = fields
	return nil
}

type fakeScheduleRepo struct {
	stylist *domain.Stylist
}

func (f *fakeScheduleRepo) GetStylist(_ context.Context, _ int64) (*domain.Stylist, error) {
	return f.stylist, nil
}

type fakeCardRepo struct {
	card *domain.SalonPaymentCard
	err  error
}

func (f *fakeCardRepo) GetActiveBySalon(_ context.Context, _ int64) (*domain.SalonPaymentCard, error) {
	return f.card, f.err
}

type inlineTxManager struct{}

func (inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

var testNow = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

func cardAppointment(status domain.Status, payment domain.PaymentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:            1,
		CustomerID:    ptr.Ptr(int64(42)),
		StylistID:     7,
		Status:        status,
		PaymentMethod: domain.PaymentMethodCard,
		PaymentStatus: payment,
	}
}

func customerActor() domain.Actor {
	return domain.Actor{UserID: 42}
}

func stylistActor() domain.Actor {
	return domain.Actor{UserID: 100, StylistID: ptr.Ptr(int64(7))}
}

func newTestUseCase(repo *fakeAppointmentRepo, cards *fakeCardRepo) *UseCase {
	if cards == nil {
		cards = &fakeCardRepo{err: cardRepo.ErrNoActiveCard}
	}
	stylist := &domain.Stylist{ID: 7, SalonID: 3}
	uc := NewUseCase(repo, &fakeScheduleRepo{stylist: stylist}, cards, inlineTxManager{}, noopLogger{})
	uc.timeProvider = &stubTimeProvider{now: testNow}
	return uc
}

func TestUploadReceipt(t *testing.T) {
	t.Run("customer uploads receipt for confirmed appointment", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)}
		uc := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionUploadReceipt,
			ReceiptFile:   "receipts/1.jpg",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentAwaitingConfirmation, resp.PaymentStatus)
		assert.Equal(t, []string{"receipt_file", "receipt_uploaded_at", "payment_status"}, repo.updatedFields)
		require.NotNil(t, repo.appointment.ReceiptUploadedAt)
		assert.Equal(t, testNow, *repo.appointment.ReceiptUploadedAt)
	})

	t.Run("confirm_paid works right after upload", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionUploadReceipt, ReceiptFile: "receipts/1.jpg",
		})
		require.NoError(t, err)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionConfirmPaid,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, resp.PaymentStatus)
	})

	t.Run("cancelling after upload requests refund", func(t *testing.T) {
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)
		repo := &fakeAppointmentRepo{appointment: a}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionUploadReceipt, ReceiptFile: "receipts/1.jpg",
		})
		require.NoError(t, err)

		fields := a.ApplyStatusChange(domain.StatusCancelled, nil, testNow)

		assert.Equal(t, domain.PaymentRefundRequested, a.PaymentStatus)
		assert.Contains(t, fields, "payment_status")
		require.NotNil(t, a.RefundRequestedAt)
	})

	t.Run("rejected while pending", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusPending, domain.PaymentPending)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionUploadReceipt, ReceiptFile: "r.jpg",
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})

	t.Run("rejected for cash appointment", func(t *testing.T) {
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentNotRequired)
		a.PaymentMethod = domain.PaymentMethodCash
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: a}, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionUploadReceipt, ReceiptFile: "r.jpg",
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})

	t.Run("rejected when receipt exists", func(t *testing.T) {
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)
		a.ReceiptFile = ptr.Ptr("receipts/old.jpg")
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: a}, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionUploadReceipt, ReceiptFile: "r.jpg",
		})
		require.ErrorIs(t, err, ErrReceiptAlreadyUploaded)
	})

	t.Run("stranger denied", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: domain.Actor{UserID: 9999}, Action: ActionUploadReceipt, ReceiptFile: "r.jpg",
		})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestConfirmPaid(t *testing.T) {
	t.Run("stylist confirms payment", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusDone, domain.PaymentAwaitingConfirmation)}
		uc := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionConfirmPaid,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, resp.PaymentStatus)
	})

	t.Run("customer denied", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusDone, domain.PaymentAwaitingConfirmation)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionConfirmPaid,
		})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("nothing awaits confirmation", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionConfirmPaid,
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})
}

func TestRequestRefund(t *testing.T) {
	t.Run("stylist requests refund for paid appointment", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentPaid)}
		uc := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionRequestRefund,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentRefundRequested, resp.PaymentStatus)
		assert.ElementsMatch(t, []string{"payment_status", "refund_requested_at"}, repo.updatedFields)
	})

	t.Run("timestamp not overwritten", func(t *testing.T) {
		earlier := testNow.Add(-24 * time.Hour)
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentPaid)
		a.RefundRequestedAt = &earlier
		repo := &fakeAppointmentRepo{appointment: a}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionRequestRefund,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"payment_status"}, repo.updatedFields)
		assert.Equal(t, earlier, *a.RefundRequestedAt)
	})

	t.Run("no payment to refund", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionRequestRefund,
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})
}

func TestRefundDetails(t *testing.T) {
	t.Run("customer provides card details", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusCancelled, domain.PaymentRefundRequested)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID:        1,
			Actor:                customerActor(),
			Action:               ActionRefundDetails,
			RefundCardholderName: "IVAN IVANOV",
			RefundCardNumber:     "8600123412341234",
			RefundCardType:       "uzcard",
		})

		require.NoError(t, err)
		assert.True(t, repo.appointment.HasRefundDetails())
		assert.ElementsMatch(t,
			[]string{"refund_cardholder_name", "refund_card_number", "refund_card_type"},
			repo.updatedFields)
	})

	t.Run("rejected without requested refund", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusConfirmed, domain.PaymentPaid)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID:        1,
			Actor:                customerActor(),
			Action:               ActionRefundDetails,
			RefundCardholderName: "IVAN IVANOV",
			RefundCardNumber:     "8600123412341234",
			RefundCardType:       "uzcard",
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})

	t.Run("incomplete details rejected", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID:    1,
			Actor:            customerActor(),
			Action:           ActionRefundDetails,
			RefundCardNumber: "8600123412341234",
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCompleteRefund(t *testing.T) {
	refundReady := func() *domain.Appointment {
		a := cardAppointment(domain.StatusCancelled, domain.PaymentRefundRequested)
		a.RefundCardholderName = "IVAN IVANOV"
		a.RefundCardNumber = "8600123412341234"
		a.RefundCardType = "uzcard"
		return a
	}

	t.Run("stylist completes refund with receipt", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: refundReady()}
		uc := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID:     1,
			Actor:             stylistActor(),
			Action:            ActionCompleteRefund,
			RefundReceiptFile: "refunds/1.jpg",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, resp.PaymentStatus)
		assert.ElementsMatch(t,
			[]string{"payment_status", "refund_receipt_file", "refund_receipt_uploaded_at"},
			repo.updatedFields)
	})

	t.Run("receipt is optional", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: refundReady()}
		uc := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionCompleteRefund,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, resp.PaymentStatus)
		assert.Equal(t, []string{"payment_status"}, repo.updatedFields)
	})

	t.Run("rejected without refund details", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusCancelled, domain.PaymentRefundRequested)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionCompleteRefund,
		})
		require.ErrorIs(t, err, ErrRefundDetailsRequired)
	})

	t.Run("rejected for non-cancelled appointment", func(t *testing.T) {
		a := refundReady()
		a.Status = domain.StatusConfirmed
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: a}, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: stylistActor(), Action: ActionCompleteRefund,
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})

	t.Run("customer denied", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: refundReady()}, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1, Actor: customerActor(), Action: ActionCompleteRefund,
		})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestChangeMethod(t *testing.T) {
	t.Run("card to cash clears payment artifacts", func(t *testing.T) {
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)
		a.PaymentCardID = ptr.Ptr(int64(9))
		repo := &fakeAppointmentRepo{appointment: a}
		uc := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionChangeMethod,
			NewMethod:     domain.PaymentMethodCash,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentMethodCash, resp.PaymentMethod)
		assert.Equal(t, domain.PaymentNotRequired, resp.PaymentStatus)
		assert.Nil(t, resp.PaymentCardID)
		// Колонки чеков nullable: очистка пишет в них NULL, а не пустую строку
		assert.Nil(t, a.ReceiptFile)
		assert.Nil(t, a.RefundReceiptFile)
		assert.Contains(t, repo.updatedFields, "receipt_file")
		assert.Contains(t, repo.updatedFields, "refund_receipt_file")
	})

	t.Run("card to cash blocked after receipt", func(t *testing.T) {
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentAwaitingPayment)
		a.ReceiptFile = ptr.Ptr("receipts/1.jpg")
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: a}, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionChangeMethod,
			NewMethod:     domain.PaymentMethodCash,
		})
		require.ErrorIs(t, err, ErrReceiptAlreadyUploaded)
	})

	t.Run("cash to card for pending appointment", func(t *testing.T) {
		a := cardAppointment(domain.StatusPending, domain.PaymentNotRequired)
		a.PaymentMethod = domain.PaymentMethodCash
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: a}, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionChangeMethod,
			NewMethod:     domain.PaymentMethodCard,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPending, resp.PaymentStatus)
	})

	t.Run("cash to card for confirmed appointment attaches active card", func(t *testing.T) {
		a := cardAppointment(domain.StatusConfirmed, domain.PaymentNotRequired)
		a.PaymentMethod = domain.PaymentMethodCash
		cards := &fakeCardRepo{card: &domain.SalonPaymentCard{ID: 9, SalonID: 3, IsActive: true}}
		uc := newTestUseCase(&fakeAppointmentRepo{appointment: a}, cards)

		resp, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionChangeMethod,
			NewMethod:     domain.PaymentMethodCard,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentAwaitingPayment, resp.PaymentStatus)
		require.NotNil(t, resp.PaymentCardID)
		assert.Equal(t, int64(9), *resp.PaymentCardID)
	})

	t.Run("same method rejected", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusPending, domain.PaymentPending)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionChangeMethod,
			NewMethod:     domain.PaymentMethodCard,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("terminal appointment rejected", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointment: cardAppointment(domain.StatusDone, domain.PaymentPaid)}
		uc := newTestUseCase(repo, nil)

		_, err := uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Actor:         customerActor(),
			Action:        ActionChangeMethod,
			NewMethod:     domain.PaymentMethodCash,
		})
		require.ErrorIs(t, err, ErrInvalidPaymentState)
	})
}
