package model

import (
	"testing"
	"time"
)

func bookingDaysOut(now time.Time, days int, status string) *Booking {
	return &Booking{
		UserID:        "u1",
		TripID:        "t1",
		TravelDate:    now.Add(time.Duration(days) * 24 * time.Hour),
		Guests:        2,
		TotalAmount:   100,
		BookingStatus: status,
		PaymentStatus: PaymentCompleted,
	}
}

func TestCalculateRefundTiers(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		daysOut int
		want    float64
	}{
		{"14 days out keeps 90 percent", 14, 90},
		{"7 days out keeps 50 percent", 7, 50},
		{"3 days out keeps 25 percent", 3, 25},
		{"2 days out gets nothing", 2, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			booking := &Booking{
				TotalAmount: 100,
				TravelDate:  now.Add(time.Duration(tc.daysOut) * 24 * time.Hour),
			}
			if got := booking.CalculateRefund(now); got != tc.want {
				t.Errorf("expected refund %.0f, got %.2f", tc.want, got)
			}
		})
	}
}

func TestDaysUntilTravelRoundsUp(t *testing.T) {
	now := time.Now()
	booking := &Booking{TravelDate: now.Add(49 * time.Hour)}
	if got := booking.DaysUntilTravel(now); got != 3 {
		t.Errorf("expected partial days to round up to 3, got %d", got)
	}
}

func TestCanBeCancelled(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		daysOut int
		status  string
		want    bool
	}{
		{"confirmed far out", 10, BookingConfirmed, true},
		{"confirmed at the threshold", 3, BookingConfirmed, true},
		{"confirmed too close", 2, BookingConfirmed, false},
		{"pending is not cancellable", 10, BookingPending, false},
		{"completed is not cancellable", 10, BookingCompleted, false},
		{"already cancelled", 10, BookingCancelled, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			booking := bookingDaysOut(now, tc.daysOut, tc.status)
			if got := booking.CanBeCancelled(now); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingCompleted, false},
		{BookingCancelled, BookingConfirmed, false},
	}

	for _, tc := range tests {
		booking := &Booking{BookingStatus: tc.from}
		if got := booking.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{PaymentPending, PaymentProcessing, true},
		{PaymentPending, PaymentCompleted, false},
		{PaymentProcessing, PaymentCompleted, true},
		{PaymentProcessing, PaymentFailed, true},
		{PaymentCompleted, PaymentRefunded, true},
		{PaymentFailed, PaymentRefunded, true},
		{PaymentRefunded, PaymentPending, false},
	}

	for _, tc := range tests {
		booking := &Booking{PaymentStatus: tc.from}
		if got := booking.CanPaymentTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}
