package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customerID   = uuid.New()
	technicianID = uuid.New()
	adminID      = uuid.New()
)

func newBooking(status BookingStatus, techID *uuid.UUID) *Booking {
	b := &Booking{
		ID:           uuid.New(),
		CustomerID:   customerID,
		TechnicianID: techID,
		ServiceType:  "screen_repair",
		Status:       status,
	}
	SeedStatusHistory(b, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	return b
}

func TestAuthorizeTransitionMatrix(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		status  BookingStatus
		techID  *uuid.UUID
		actorID uuid.UUID
		roleID  int
		wantErr error
	}{
		// accept: open pending jobs only
		{"accept pending open", OpAccept, BookingStatusPending, nil, technicianID, RoleIDTechnician, nil},
		{"accept pending already assigned", OpAccept, BookingStatusPending, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"accept assigned", OpAccept, BookingStatusAssigned, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"accept in_progress", OpAccept, BookingStatusInProgress, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"accept completed", OpAccept, BookingStatusCompleted, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"accept cancelled", OpAccept, BookingStatusCancelled, nil, technicianID, RoleIDTechnician, ErrInvalidTransition},

		// reject_assignment: assigned technician only, from assigned
		{"reject assigned by assignee", OpRejectAssignment, BookingStatusAssigned, &technicianID, technicianID, RoleIDTechnician, nil},
		{"reject pending", OpRejectAssignment, BookingStatusPending, nil, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"reject in_progress", OpRejectAssignment, BookingStatusInProgress, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},

		// start: assigned -> in_progress by the assignee
		{"start assigned by assignee", OpStart, BookingStatusAssigned, &technicianID, technicianID, RoleIDTechnician, nil},
		{"start pending", OpStart, BookingStatusPending, nil, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"start in_progress repeat", OpStart, BookingStatusInProgress, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"start completed", OpStart, BookingStatusCompleted, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},

		// complete: in_progress -> completed by the assignee
		{"complete in_progress by assignee", OpComplete, BookingStatusInProgress, &technicianID, technicianID, RoleIDTechnician, nil},
		{"complete assigned", OpComplete, BookingStatusAssigned, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},
		{"complete completed repeat", OpComplete, BookingStatusCompleted, &technicianID, technicianID, RoleIDTechnician, ErrInvalidTransition},

		// cancel: owner customer, pending or assigned only
		{"cancel pending by owner", OpCancel, BookingStatusPending, nil, customerID, RoleIDCustomer, nil},
		{"cancel assigned by owner", OpCancel, BookingStatusAssigned, &technicianID, customerID, RoleIDCustomer, nil},
		{"cancel in_progress by owner", OpCancel, BookingStatusInProgress, &technicianID, customerID, RoleIDCustomer, ErrInvalidTransition},
		{"cancel completed by owner", OpCancel, BookingStatusCompleted, &technicianID, customerID, RoleIDCustomer, ErrInvalidTransition},
		{"cancel cancelled repeat", OpCancel, BookingStatusCancelled, nil, customerID, RoleIDCustomer, ErrInvalidTransition},

		// admin_cancel: any non-terminal status
		{"admin cancel pending", OpAdminCancel, BookingStatusPending, nil, adminID, RoleIDAdmin, nil},
		{"admin cancel assigned", OpAdminCancel, BookingStatusAssigned, &technicianID, adminID, RoleIDAdmin, nil},
		{"admin cancel in_progress", OpAdminCancel, BookingStatusInProgress, &technicianID, adminID, RoleIDAdmin, nil},
		{"admin cancel completed", OpAdminCancel, BookingStatusCompleted, &technicianID, adminID, RoleIDAdmin, ErrInvalidTransition},
		{"admin cancel cancelled", OpAdminCancel, BookingStatusCancelled, nil, adminID, RoleIDAdmin, ErrInvalidTransition},

		// assign: admin, pending only
		{"assign pending", OpAssign, BookingStatusPending, nil, adminID, RoleIDAdmin, nil},
		{"assign assigned repeat", OpAssign, BookingStatusAssigned, &technicianID, adminID, RoleIDAdmin, ErrInvalidTransition},
		{"assign cancelled", OpAssign, BookingStatusCancelled, nil, adminID, RoleIDAdmin, ErrInvalidTransition},

		// reschedule: admin, any non-terminal status
		{"reschedule pending", OpReschedule, BookingStatusPending, nil, adminID, RoleIDAdmin, nil},
		{"reschedule in_progress", OpReschedule, BookingStatusInProgress, &technicianID, adminID, RoleIDAdmin, nil},
		{"reschedule completed", OpReschedule, BookingStatusCompleted, &technicianID, adminID, RoleIDAdmin, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(tt.status, tt.techID)
			err := Authorize(tt.op, b, tt.actorID, tt.roleID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthorizeActorGating(t *testing.T) {
	otherTechnician := uuid.New()
	otherCustomer := uuid.New()

	t.Run("role mismatch beats state check", func(t *testing.T) {
		// Customer trying a technician operation on a completed booking
		// must read as a permission problem, not a state problem.
		b := newBooking(BookingStatusCompleted, &technicianID)
		err := Authorize(OpStart, b, customerID, RoleIDCustomer)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("customer starts own booking", func(t *testing.T) {
		b := newBooking(BookingStatusAssigned, &technicianID)
		err := Authorize(OpStart, b, customerID, RoleIDCustomer)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("technician starts job assigned to someone else", func(t *testing.T) {
		b := newBooking(BookingStatusAssigned, &technicianID)
		err := Authorize(OpStart, b, otherTechnician, RoleIDTechnician)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("technician completes job assigned to someone else", func(t *testing.T) {
		b := newBooking(BookingStatusInProgress, &technicianID)
		err := Authorize(OpComplete, b, otherTechnician, RoleIDTechnician)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("customer cancels another customer's booking", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		err := Authorize(OpCancel, b, otherCustomer, RoleIDCustomer)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("technician cancels via customer operation", func(t *testing.T) {
		b := newBooking(BookingStatusAssigned, &technicianID)
		err := Authorize(OpCancel, b, technicianID, RoleIDTechnician)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("technician uses admin cancel", func(t *testing.T) {
		b := newBooking(BookingStatusInProgress, &technicianID)
		err := Authorize(OpAdminCancel, b, technicianID, RoleIDTechnician)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown operation", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		err := Authorize(Operation("archive"), b, adminID, RoleIDAdmin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestApplyTransitionSideEffects(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	t.Run("accept claims the job", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		event, err := ApplyTransition(b, OpAccept, technicianID, RoleIDTechnician, TransitionParams{Now: now})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusAssigned, b.Status)
		require.NotNil(t, b.TechnicianID)
		assert.Equal(t, technicianID, *b.TechnicianID)
		require.NotNil(t, event)
		assert.Equal(t, BookingStatusAssigned, event.Status)
		assert.Equal(t, technicianID, event.ChangedBy)
		assert.Equal(t, now, event.CreatedAt)
	})

	t.Run("reject clears the technician slot", func(t *testing.T) {
		b := newBooking(BookingStatusAssigned, &technicianID)
		event, err := ApplyTransition(b, OpRejectAssignment, technicianID, RoleIDTechnician, TransitionParams{Reason: "out of service area", Now: now})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusPending, b.Status)
		assert.Nil(t, b.TechnicianID)
		assert.Equal(t, "out of service area", event.Reason)
	})

	t.Run("start stamps started_at", func(t *testing.T) {
		b := newBooking(BookingStatusAssigned, &technicianID)
		_, err := ApplyTransition(b, OpStart, technicianID, RoleIDTechnician, TransitionParams{Now: now})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusInProgress, b.Status)
		require.NotNil(t, b.StartedAt)
		assert.Equal(t, now, *b.StartedAt)
	})

	t.Run("complete stamps completed_at and records final cost", func(t *testing.T) {
		cost := decimal.NewFromFloat(149.99)
		b := newBooking(BookingStatusInProgress, &technicianID)
		_, err := ApplyTransition(b, OpComplete, technicianID, RoleIDTechnician, TransitionParams{FinalCost: &cost, Now: now})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusCompleted, b.Status)
		require.NotNil(t, b.CompletedAt)
		require.NotNil(t, b.FinalCost)
		assert.True(t, cost.Equal(*b.FinalCost))
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		event, err := ApplyTransition(b, OpCancel, customerID, RoleIDCustomer, TransitionParams{Reason: "found a cheaper shop", Now: now})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusCancelled, b.Status)
		assert.Equal(t, "found a cheaper shop", b.CancelReason)
		assert.Equal(t, "found a cheaper shop", event.Reason)
	})

	t.Run("assign requires a technician", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		_, err := ApplyTransition(b, OpAssign, adminID, RoleIDAdmin, TransitionParams{Now: now})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, BookingStatusPending, b.Status)
	})

	t.Run("assign sets the chosen technician", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		_, err := ApplyTransition(b, OpAssign, adminID, RoleIDAdmin, TransitionParams{TechnicianID: &technicianID, Now: now})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusAssigned, b.Status)
		require.NotNil(t, b.TechnicianID)
		assert.Equal(t, technicianID, *b.TechnicianID)
	})

	t.Run("reschedule changes schedule fields only", func(t *testing.T) {
		b := newBooking(BookingStatusAssigned, &technicianID)
		historyBefore := len(b.StatusHistory)
		newDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		slot := TimeSlotEvening

		event, err := ApplyTransition(b, OpReschedule, adminID, RoleIDAdmin, TransitionParams{
			PreferredDate:     &newDate,
			PreferredTimeSlot: &slot,
			Now:               now,
		})
		require.NoError(t, err)

		assert.Nil(t, event)
		assert.Equal(t, BookingStatusAssigned, b.Status)
		assert.Equal(t, newDate, b.PreferredDate)
		assert.Equal(t, TimeSlotEvening, b.PreferredTimeSlot)
		assert.Len(t, b.StatusHistory, historyBefore)
	})

	t.Run("failed transition leaves booking untouched", func(t *testing.T) {
		b := newBooking(BookingStatusCompleted, &technicianID)
		historyBefore := len(b.StatusHistory)

		_, err := ApplyTransition(b, OpStart, technicianID, RoleIDTechnician, TransitionParams{Now: now})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, BookingStatusCompleted, b.Status)
		assert.Nil(t, b.StartedAt)
		assert.Len(t, b.StatusHistory, historyBefore)
	})
}

// TestBookingLifecycleHistory walks full lifecycles and checks the status
// history stays a complete, append-only record of every change.
func TestBookingLifecycleHistory(t *testing.T) {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	at := func(h int) TransitionParams { return TransitionParams{Now: base.Add(time.Duration(h) * time.Hour)} }

	t.Run("happy path to completion", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)

		_, err := ApplyTransition(b, OpAccept, technicianID, RoleIDTechnician, at(1))
		require.NoError(t, err)
		_, err = ApplyTransition(b, OpStart, technicianID, RoleIDTechnician, at(2))
		require.NoError(t, err)
		_, err = ApplyTransition(b, OpComplete, technicianID, RoleIDTechnician, at(3))
		require.NoError(t, err)

		require.Len(t, b.StatusHistory, 4)
		statuses := make([]BookingStatus, 0, 4)
		for i, e := range b.StatusHistory {
			statuses = append(statuses, e.Status)
			if i > 0 {
				assert.False(t, e.CreatedAt.Before(b.StatusHistory[i-1].CreatedAt))
			}
		}
		assert.Equal(t, []BookingStatus{
			BookingStatusPending,
			BookingStatusAssigned,
			BookingStatusInProgress,
			BookingStatusCompleted,
		}, statuses)
	})

	t.Run("customer cancels after assignment", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)

		_, err := ApplyTransition(b, OpAccept, technicianID, RoleIDTechnician, at(1))
		require.NoError(t, err)
		_, err = ApplyTransition(b, OpCancel, customerID, RoleIDCustomer, TransitionParams{Reason: "changed my mind", Now: base.Add(2 * time.Hour)})
		require.NoError(t, err)

		require.Len(t, b.StatusHistory, 3)
		last := b.StatusHistory[2]
		assert.Equal(t, BookingStatusCancelled, last.Status)
		assert.Equal(t, customerID, last.ChangedBy)
		assert.Equal(t, "changed my mind", last.Reason)
	})

	t.Run("rejection reopens the job for another technician", func(t *testing.T) {
		secondTechnician := uuid.New()
		b := newBooking(BookingStatusPending, nil)

		_, err := ApplyTransition(b, OpAccept, technicianID, RoleIDTechnician, at(1))
		require.NoError(t, err)
		_, err = ApplyTransition(b, OpRejectAssignment, technicianID, RoleIDTechnician, TransitionParams{Reason: "parts unavailable", Now: base.Add(2 * time.Hour)})
		require.NoError(t, err)

		// Reopened, so a different technician can now claim it
		_, err = ApplyTransition(b, OpAccept, secondTechnician, RoleIDTechnician, at(3))
		require.NoError(t, err)

		require.NotNil(t, b.TechnicianID)
		assert.Equal(t, secondTechnician, *b.TechnicianID)
		require.Len(t, b.StatusHistory, 4)
		assert.Equal(t, []BookingStatus{
			BookingStatusPending,
			BookingStatusAssigned,
			BookingStatusPending,
			BookingStatusAssigned,
		}, []BookingStatus{b.StatusHistory[0].Status, b.StatusHistory[1].Status, b.StatusHistory[2].Status, b.StatusHistory[3].Status})
	})

	t.Run("admin assigns then cancels mid job", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)

		_, err := ApplyTransition(b, OpAssign, adminID, RoleIDAdmin, TransitionParams{TechnicianID: &technicianID, Now: base.Add(time.Hour)})
		require.NoError(t, err)
		_, err = ApplyTransition(b, OpStart, technicianID, RoleIDTechnician, at(2))
		require.NoError(t, err)
		_, err = ApplyTransition(b, OpAdminCancel, adminID, RoleIDAdmin, TransitionParams{Reason: "customer unreachable", Now: base.Add(3 * time.Hour)})
		require.NoError(t, err)

		assert.Equal(t, BookingStatusCancelled, b.Status)
		assert.Equal(t, "customer unreachable", b.CancelReason)
		require.Len(t, b.StatusHistory, 4)
		assert.Equal(t, adminID, b.StatusHistory[3].ChangedBy)
	})

	t.Run("terminal booking rejects everything", func(t *testing.T) {
		b := newBooking(BookingStatusPending, nil)
		_, err := ApplyTransition(b, OpCancel, customerID, RoleIDCustomer, TransitionParams{Reason: "no longer needed", Now: base})
		require.NoError(t, err)

		for _, op := range []Operation{OpAdminCancel, OpAssign, OpReschedule} {
			_, err := ApplyTransition(b, op, adminID, RoleIDAdmin, TransitionParams{TechnicianID: &technicianID, Now: base})
			assert.ErrorIs(t, err, ErrInvalidTransition, "op %s", op)
		}
		_, err = ApplyTransition(b, OpAccept, technicianID, RoleIDTechnician, at(1))
		assert.ErrorIs(t, err, ErrInvalidTransition)
		require.Len(t, b.StatusHistory, 2)
	})
}

func TestSeedStatusHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	b := &Booking{ID: uuid.New(), CustomerID: customerID, Status: BookingStatusPending}

	event := SeedStatusHistory(b, now)

	require.Len(t, b.StatusHistory, 1)
	assert.Equal(t, BookingStatusPending, event.Status)
	assert.Equal(t, b.CustomerID, event.ChangedBy)
	assert.Equal(t, b.ID, event.BookingID)
	assert.Equal(t, now, event.CreatedAt)
}

func TestTransitionTarget(t *testing.T) {
	target, ok := TransitionTarget(OpComplete)
	assert.True(t, ok)
	assert.Equal(t, BookingStatusCompleted, target)

	_, ok = TransitionTarget(OpReschedule)
	assert.False(t, ok)
}
