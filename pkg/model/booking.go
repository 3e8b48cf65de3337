package model

import (
	"math"
	"time"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"

	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

// minCancelDays is the shortest notice, in days before travel, at which a
// confirmed booking may still be cancelled.
const minCancelDays = 3

type Booking struct {
	ID                 string    `json:"_id,omitempty" validate:"omitempty"`
	UserID             string    `json:"userId" validate:"required"`
	TripID             string    `json:"tripId" validate:"required"`
	TravelDate         time.Time `json:"travelDate" validate:"required"`
	Guests             int       `json:"numberOfGuests" validate:"min=1"`
	TotalAmount        float64   `json:"totalAmount" validate:"gt=0"`
	BookingStatus      string    `json:"bookingStatus" validate:"required,oneof=pending confirmed completed cancelled"`
	PaymentStatus      string    `json:"paymentStatus" validate:"required,oneof=pending processing completed failed refunded"`
	RefundAmount       float64   `json:"refundAmount,omitempty" validate:"gte=0"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
	CreatedAt          string    `json:"createdAt,omitempty"`
	UpdatedAt          string    `json:"updatedAt,omitempty"`
	Version            int64     `json:"_version,omitempty"`
}

// bookingTransitions is the legal booking-status state machine:
// pending -> confirmed -> {completed | cancelled}.
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// paymentTransitions tracks the orthogonal payment dimension:
// pending -> processing -> {completed | failed} -> refunded. The
// cancellation flow writes refunded directly, bypassing this table.
var paymentTransitions = map[string][]string{
	PaymentPending:    {PaymentProcessing},
	PaymentProcessing: {PaymentCompleted, PaymentFailed},
	PaymentCompleted:  {PaymentRefunded},
	PaymentFailed:     {PaymentRefunded},
}

// CanTransitionTo reports whether moving the booking status to next is a
// legal step of the lifecycle.
func (b *Booking) CanTransitionTo(next string) bool {
	for _, allowed := range bookingTransitions[b.BookingStatus] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanPaymentTransitionTo reports whether moving the payment status to
// next is a legal step.
func (b *Booking) CanPaymentTransitionTo(next string) bool {
	for _, allowed := range paymentTransitions[b.PaymentStatus] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DaysUntilTravel returns the whole days remaining before travel,
// rounding partial days up.
func (b *Booking) DaysUntilTravel(now time.Time) int {
	return int(math.Ceil(b.TravelDate.Sub(now).Hours() / 24))
}

// CanBeCancelled is true only for confirmed bookings with at least three
// days of notice.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	return b.BookingStatus == BookingConfirmed && b.DaysUntilTravel(now) >= minCancelDays
}

// CalculateRefund applies the tiered cancellation policy:
// 90% with 14+ days of notice, 50% with 7+, 25% with 3+, nothing below.
func (b *Booking) CalculateRefund(now time.Time) float64 {
	days := b.DaysUntilTravel(now)
	switch {
	case days >= 14:
		return b.TotalAmount * 0.90
	case days >= 7:
		return b.TotalAmount * 0.50
	case days >= minCancelDays:
		return b.TotalAmount * 0.25
	default:
		return 0
	}
}
