package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"voyago/internal/blobstore"
	"voyago/internal/bookings/validator"
	"voyago/internal/store"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/events"
	"voyago/pkg/logger"
	"voyago/pkg/model"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// newTestService pins the service clock so cancellation-notice maths are
// deterministic.
func newTestService(t *testing.T, now time.Time) (BookingService, *capturingPublisher) {
	t.Helper()

	log := logger.Discard()
	documents := store.New(blobstore.NewMemoryBackend(), log, store.Options{
		Collections: store.DefaultCollections(),
	})
	cfg := &config.Config{UpdateRetryLimit: 3, Log: log}
	publisher := &capturingPublisher{}

	svc := NewBookingService(documents, validator.NewBookingValidator(log), publisher, cfg)
	svc.(*bookingService).now = func() time.Time { return now }
	return svc, publisher
}

func sampleBooking(travelDate time.Time) *model.Booking {
	return &model.Booking{
		UserID:      "user-1",
		TripID:      "trip-1",
		TravelDate:  travelDate,
		Guests:      2,
		TotalAmount: 1000,
	}
}

func TestCreateDefaultsBothStatusesToPending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, publisher := newTestService(t, now)

	booking, err := svc.Create(context.Background(), sampleBooking(now.AddDate(0, 1, 0)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if booking.BookingStatus != model.BookingPending {
		t.Errorf("expected booking status pending, got %q", booking.BookingStatus)
	}
	if booking.PaymentStatus != model.PaymentPending {
		t.Errorf("expected payment status pending, got %q", booking.PaymentStatus)
	}
	if booking.RefundAmount != 0 || booking.CancellationReason != "" {
		t.Error("cancellation fields must start cleared")
	}

	types := publisher.types()
	if len(types) != 1 || types[0] != events.BookingCreated {
		t.Errorf("expected a single %s event, got %v", events.BookingCreated, types)
	}
}

func TestCreateClearsClientSuppliedRefund(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	input := sampleBooking(now.AddDate(0, 1, 0))
	input.RefundAmount = 999
	input.CancellationReason = "preloaded"

	booking, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if booking.RefundAmount != 0 || booking.CancellationReason != "" {
		t.Error("caller-set refund fields must be discarded on create")
	}
}

func TestLifecyclePendingConfirmedCompleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, publisher := newTestService(t, now)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleBooking(now.AddDate(0, 1, 0)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	confirmed, err := svc.Confirm(ctx, created.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.BookingStatus != model.BookingConfirmed {
		t.Errorf("expected confirmed, got %q", confirmed.BookingStatus)
	}

	completed, err := svc.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.BookingStatus != model.BookingCompleted {
		t.Errorf("expected completed, got %q", completed.BookingStatus)
	}

	want := []string{events.BookingCreated, events.BookingConfirmed, events.BookingCompleted}
	got := publisher.types()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompleteRejectsPendingBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleBooking(now.AddDate(0, 1, 0)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Complete(ctx, created.ID); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("completing a pending booking must conflict, got %v", err)
	}
}

func TestCancelAppliesTieredRefund(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		daysOut int
		refund  float64
	}{
		{"fourteen days out", 14, 900},
		{"seven days out", 7, 500},
		{"three days out", 3, 250},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, publisher := newTestService(t, now)
			ctx := context.Background()

			created, err := svc.Create(ctx, sampleBooking(now.AddDate(0, 0, tc.daysOut)))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if _, err := svc.Confirm(ctx, created.ID); err != nil {
				t.Fatalf("Confirm: %v", err)
			}

			cancelled, err := svc.Cancel(ctx, created.ID, "change of plans")
			if err != nil {
				t.Fatalf("Cancel: %v", err)
			}

			if cancelled.BookingStatus != model.BookingCancelled {
				t.Errorf("expected cancelled, got %q", cancelled.BookingStatus)
			}
			if cancelled.PaymentStatus != model.PaymentRefunded {
				t.Errorf("expected refunded, got %q", cancelled.PaymentStatus)
			}
			if cancelled.RefundAmount != tc.refund {
				t.Errorf("expected refund %v, got %v", tc.refund, cancelled.RefundAmount)
			}
			if cancelled.CancellationReason != "change of plans" {
				t.Errorf("expected reason recorded, got %q", cancelled.CancellationReason)
			}

			types := publisher.types()
			if types[len(types)-1] != events.BookingCancelled {
				t.Errorf("expected final event %s, got %v", events.BookingCancelled, types)
			}
		})
	}
}

func TestCancelRejectsShortNotice(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleBooking(now.AddDate(0, 0, 2)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Confirm(ctx, created.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if _, err := svc.Cancel(ctx, created.ID, "too late"); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("2 days of notice must be rejected, got %v", err)
	}
}

func TestCancelRejectsPendingBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleBooking(now.AddDate(0, 1, 0)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Cancel(ctx, created.ID, "never confirmed"); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("cancelling a pending booking must conflict, got %v", err)
	}
}

func TestUpdatePaymentStatusFollowsTheStateMachine(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleBooking(now.AddDate(0, 1, 0)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdatePaymentStatus(ctx, created.ID, model.PaymentCompleted); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("pending -> completed must be rejected, got %v", err)
	}

	booking, err := svc.UpdatePaymentStatus(ctx, created.ID, model.PaymentProcessing)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if booking.PaymentStatus != model.PaymentProcessing {
		t.Errorf("expected processing, got %q", booking.PaymentStatus)
	}

	if _, err := svc.UpdatePaymentStatus(ctx, created.ID, "gifted"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("unknown status must be invalid input, got %v", err)
	}
}

func TestGetByUserFiltersOtherUsers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	mine := sampleBooking(now.AddDate(0, 1, 0))
	if _, err := svc.Create(ctx, mine); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := sampleBooking(now.AddDate(0, 1, 0))
	other.UserID = "user-2"
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bookings, err := svc.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(bookings) != 1 || bookings[0].UserID != "user-1" {
		t.Errorf("expected exactly user-1's booking, got %d results", len(bookings))
	}
}
