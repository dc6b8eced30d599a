package booking

import (
	"testing"
	"time"
)

func TestCanTransitionAndApply(t *testing.T) {
	if !CanTransition(StatusPendingConfirmation, StatusConfirmed) {
		t.Fatalf("expected pending_confirmation -> confirmed allowed")
	}
	if CanTransition(StatusCompleted, StatusActive) {
		t.Fatalf("expected completed -> active not allowed")
	}

	b := &Booking{Status: StatusPendingConfirmation}
	now := time.Now()
	if err := ApplyTransition(b, StatusConfirmed, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", b.Status)
	}
	if b.ConfirmedAt == nil {
		t.Fatalf("expected ConfirmedAt to be set")
	}

	if err := ApplyTransition(b, StatusCompleted, now); err == nil {
		t.Fatalf("expected invalid shortcut transition to fail")
	}
}

func TestApplyTransitionCancellation(t *testing.T) {
	b := &Booking{Status: StatusConfirmed}
	now := time.Now()
	if err := ApplyTransition(b, StatusCancelledByUser, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if b.CancelledAt == nil {
		t.Fatalf("expected CancelledAt to be set")
	}
	if err := ApplyTransition(b, StatusActive, now); err == nil {
		t.Fatalf("expected transition out of terminal state to fail")
	}
}

func TestPaymentRetryLoop(t *testing.T) {
	b := &Booking{Status: StatusPendingPayment}
	now := time.Now()
	if err := ApplyTransition(b, StatusPaymentFailed, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if err := ApplyTransition(b, StatusPendingPayment, now); err != nil {
		t.Fatalf("expected payment retry to be allowed: %v", err)
	}
}
