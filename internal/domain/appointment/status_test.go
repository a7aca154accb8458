package appointment

import (
	"testing"
	"time"

	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
)

func TestBlocking(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusRequested, true},
		{StatusConfirmed, true},
		{StatusInProgress, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.status.Blocking(); got != tc.want {
			t.Errorf("%s.Blocking() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		check   func(Status) error
		allowed bool
	}{
		{"confirm requested", StatusRequested, CanConfirm, true},
		{"confirm confirmed", StatusConfirmed, CanConfirm, false},
		{"confirm cancelled", StatusCancelled, CanConfirm, false},

		{"start confirmed", StatusConfirmed, CanStart, true},
		{"start requested", StatusRequested, CanStart, false},

		{"complete in_progress", StatusInProgress, CanComplete, true},
		{"complete confirmed", StatusConfirmed, CanComplete, true},
		{"complete requested", StatusRequested, CanComplete, false},
		{"complete completed", StatusCompleted, CanComplete, false},

		{"cancel requested", StatusRequested, CanCancel, true},
		{"cancel confirmed", StatusConfirmed, CanCancel, true},
		{"cancel in_progress", StatusInProgress, CanCancel, true},
		{"cancel completed", StatusCompleted, CanCancel, false},
		{"cancel cancelled", StatusCancelled, CanCancel, false},

		{"reschedule requested", StatusRequested, CanReschedule, true},
		{"reschedule confirmed", StatusConfirmed, CanReschedule, true},
		{"reschedule in_progress", StatusInProgress, CanReschedule, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check(tc.from)
			if tc.allowed && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tc.allowed && !httperr.IsBusiness(err, "invalid_state") {
				t.Fatalf("expected invalid_state, got %v", err)
			}
		})
	}
}

func TestCancelStampsTimestamp(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}
	now := time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)

	if err := Cancel(ap, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Fatalf("status = %s, want cancelled", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatalf("cancelled_at = %v, want %v", ap.CancelledAt, now)
	}
}

func TestCompleteStampsTimestamp(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusInProgress)}
	now := time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)

	if err := Complete(ap, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Fatalf("status = %s, want completed", ap.Status)
	}
	if ap.CompletedAt == nil || !ap.CompletedAt.Equal(now) {
		t.Fatalf("completed_at = %v, want %v", ap.CompletedAt, now)
	}
}

func TestBlockingStatusesOrder(t *testing.T) {
	got := BlockingStatuses()
	want := []string{"requested", "confirmed", "in_progress"}

	if len(got) != len(want) {
		t.Fatalf("BlockingStatuses() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BlockingStatuses() = %v, want %v", got, want)
		}
	}
}
