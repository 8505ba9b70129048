package model

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PickupStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusDelivered, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminalAndOpen(t *testing.T) {
	for _, s := range []PickupStatus{StatusPending, StatusConfirmed} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
		if !s.Open() {
			t.Errorf("%s must be open", s)
		}
	}
	for _, s := range []PickupStatus{StatusDelivered, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
		if s.Open() {
			t.Errorf("%s must not be open", s)
		}
	}
}

func TestParsePickupStatus(t *testing.T) {
	if s, err := ParsePickupStatus("CONFIRMED"); err != nil || s != StatusConfirmed {
		t.Fatalf("ParsePickupStatus(CONFIRMED) = %v, %v", s, err)
	}
	for _, bad := range []string{"", "confirmed", "SHIPPED"} {
		if _, err := ParsePickupStatus(bad); err == nil {
			t.Errorf("ParsePickupStatus(%q) accepted", bad)
		}
	}
}
