package service

import (
	"context"
	"errors"
	"time"

	"voyago/internal/bookings/validator"
	"voyago/internal/store"
	storeerrors "voyago/internal/store/errors"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/events"
	"voyago/pkg/model"
	"voyago/pkg/validation"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	GetByTrip(ctx context.Context, tripID string) ([]*model.Booking, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id, reason string) (*model.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) (*model.Booking, error)
}

type bookingService struct {
	store     *store.Store
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	documents *store.Store,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		store:     documents,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if booking.BookingStatus == "" {
		booking.BookingStatus = model.BookingPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = model.PaymentPending
	}
	booking.RefundAmount = 0
	booking.CancellationReason = ""

	if err := s.validator.Validate(booking); err != nil {
		return nil, validation.AsAppError(err)
	}

	doc, err := store.Marshal(booking)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode booking", err)
	}
	created, err := s.store.Create(ctx, store.CollectionBookings, "", doc)
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "user_id", booking.UserID, "trip_id", booking.TripID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}
	if err := store.Unmarshal(created, booking); err != nil {
		return nil, apperrors.Internal("Failed to decode booking", err)
	}

	s.publish(ctx, events.Event{Type: events.BookingCreated, Key: booking.ID, Payload: booking})
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"trip_id", booking.TripID,
		"travel_date", booking.TravelDate,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	doc, found, err := s.store.FindByID(ctx, store.CollectionBookings, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	if !found {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	var booking model.Booking
	if err := store.Unmarshal(doc, &booking); err != nil {
		return nil, apperrors.Internal("Failed to decode booking", err)
	}
	return &booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	return s.findByField(ctx, "userId", userID)
}

func (s *bookingService) GetByTrip(ctx context.Context, tripID string) ([]*model.Booking, error) {
	if tripID == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}
	return s.findByField(ctx, "tripId", tripID)
}

func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, model.BookingConfirmed, nil)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{Type: events.BookingConfirmed, Key: id, Payload: booking})
	return booking, nil
}

func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, model.BookingCompleted, nil)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{Type: events.BookingCompleted, Key: id, Payload: booking})
	return booking, nil
}

// Cancel moves a cancellable booking to cancelled and applies the refund
// in the same write: refund amount, refunded payment status, cancelled
// booking status, and the reason land together or not at all.
func (s *bookingService) Cancel(ctx context.Context, id, reason string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	for attempt := 0; attempt < s.cfg.UpdateRetryLimit; attempt++ {
		booking, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		now := s.now()
		if !booking.CanBeCancelled(now) {
			return nil, apperrors.Conflict("Booking cannot be cancelled: it must be confirmed and at least 3 days before travel")
		}

		refund := booking.CalculateRefund(now)
		patch := store.Document{
			"bookingStatus":      model.BookingCancelled,
			"paymentStatus":      model.PaymentRefunded,
			"refundAmount":       refund,
			"cancellationReason": reason,
		}
		updated, err := s.store.UpdateWithVersion(ctx, store.CollectionBookings, id, patch, booking.Version)
		if err != nil {
			if errors.Is(err, storeerrors.ErrVersionConflict) {
				s.cfg.Log.Debug("Cancellation conflicted, retrying", "id", id, "attempt", attempt+1)
				continue
			}
			return nil, apperrors.Internal("Failed to cancel booking", err)
		}

		if err := store.Unmarshal(updated, booking); err != nil {
			return nil, apperrors.Internal("Failed to decode booking", err)
		}
		s.publish(ctx, events.Event{Type: events.BookingCancelled, Key: id, Payload: booking})
		s.cfg.Log.Info("Booking cancelled", "id", id, "refund_amount", refund)
		return booking, nil
	}
	return nil, apperrors.Conflict("Booking is being modified concurrently, retry later")
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	switch status {
	case model.PaymentPending, model.PaymentProcessing, model.PaymentCompleted, model.PaymentFailed, model.PaymentRefunded:
	default:
		return nil, apperrors.InvalidInput("Unknown payment status: " + status)
	}

	return s.transition(ctx, id, "", &status)
}

// transition applies a guarded status change under optimistic
// concurrency. Illegal moves (e.g. completing a cancelled booking) are
// rejected with a conflict rather than silently written.
func (s *bookingService) transition(ctx context.Context, id, bookingStatus string, paymentStatus *string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	for attempt := 0; attempt < s.cfg.UpdateRetryLimit; attempt++ {
		booking, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		patch := store.Document{}
		if bookingStatus != "" {
			if !booking.CanTransitionTo(bookingStatus) {
				return nil, apperrors.Conflict(
					"Illegal booking status transition from " + booking.BookingStatus + " to " + bookingStatus)
			}
			patch["bookingStatus"] = bookingStatus
		}
		if paymentStatus != nil {
			if !booking.CanPaymentTransitionTo(*paymentStatus) {
				return nil, apperrors.Conflict(
					"Illegal payment status transition from " + booking.PaymentStatus + " to " + *paymentStatus)
			}
			patch["paymentStatus"] = *paymentStatus
		}

		updated, err := s.store.UpdateWithVersion(ctx, store.CollectionBookings, id, patch, booking.Version)
		if err != nil {
			if errors.Is(err, storeerrors.ErrVersionConflict) {
				continue
			}
			return nil, apperrors.Internal("Failed to update booking", err)
		}

		if err := store.Unmarshal(updated, booking); err != nil {
			return nil, apperrors.Internal("Failed to decode booking", err)
		}
		s.cfg.Log.Info("Booking status updated",
			"id", id,
			"booking_status", booking.BookingStatus,
			"payment_status", booking.PaymentStatus,
		)
		return booking, nil
	}
	return nil, apperrors.Conflict("Booking is being modified concurrently, retry later")
}

func (s *bookingService) findByField(ctx context.Context, field, value string) ([]*model.Booking, error) {
	docs, err := s.store.FindByField(ctx, store.CollectionBookings, field, value, store.ListOptions{})
	if err != nil {
		return nil, apperrors.Internal("Failed to list bookings", err)
	}

	bookings := make([]*model.Booking, 0, len(docs))
	for _, doc := range docs {
		var booking model.Booking
		if err := store.Unmarshal(doc, &booking); err != nil {
			return nil, apperrors.Internal("Failed to decode booking", err)
		}
		bookings = append(bookings, &booking)
	}
	return bookings, nil
}

func (s *bookingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}
