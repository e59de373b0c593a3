package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTransition means the operation is not legal from the
	// booking's current status (includes repeats and terminal states).
	ErrInvalidTransition = errors.New("operation not allowed from current booking status")

	// ErrForbidden means the operation is valid from the current status
	// but the actor lacks rights over this booking.
	ErrForbidden = errors.New("actor does not have rights over this booking")
)

// Operation is a lifecycle transition a caller can request on a booking
type Operation string

const (
	OpAccept           Operation = "accept"
	OpRejectAssignment Operation = "reject_assignment"
	OpStart            Operation = "start"
	OpComplete         Operation = "complete"
	OpCancel           Operation = "cancel"
	OpAdminCancel      Operation = "admin_cancel"
	OpAssign           Operation = "assign"
	OpReschedule       Operation = "reschedule"
)

// ownership is the relation the actor must hold to the booking
type ownership int

const (
	ownershipNone ownership = iota
	ownershipCustomer
	ownershipAssignedTechnician
)

// transitionRule is one row of the lifecycle policy table: which statuses
// the operation may leave from, where it lands, which role may call it and
// what relation to the booking that role must hold. An empty from list
// means any non-terminal status. An empty to means the status is unchanged
// and no history entry is written.
type transitionRule struct {
	from   []BookingStatus
	to     BookingStatus
	roleID int
	owner  ownership
}

var transitionTable = map[Operation]transitionRule{
	OpAccept:           {from: []BookingStatus{BookingStatusPending}, to: BookingStatusAssigned, roleID: RoleIDTechnician},
	OpRejectAssignment: {from: []BookingStatus{BookingStatusAssigned}, to: BookingStatusPending, roleID: RoleIDTechnician, owner: ownershipAssignedTechnician},
	OpStart:            {from: []BookingStatus{BookingStatusAssigned}, to: BookingStatusInProgress, roleID: RoleIDTechnician, owner: ownershipAssignedTechnician},
	OpComplete:         {from: []BookingStatus{BookingStatusInProgress}, to: BookingStatusCompleted, roleID: RoleIDTechnician, owner: ownershipAssignedTechnician},
	OpCancel:           {from: []BookingStatus{BookingStatusPending, BookingStatusAssigned}, to: BookingStatusCancelled, roleID: RoleIDCustomer, owner: ownershipCustomer},
	OpAdminCancel:      {to: BookingStatusCancelled, roleID: RoleIDAdmin},
	OpAssign:           {from: []BookingStatus{BookingStatusPending}, to: BookingStatusAssigned, roleID: RoleIDAdmin},
	OpReschedule:       {roleID: RoleIDAdmin},
}

// TransitionTarget returns the status the operation lands in, if it changes
// the status at all.
func TransitionTarget(op Operation) (BookingStatus, bool) {
	rule, ok := transitionTable[op]
	if !ok || rule.to == "" {
		return "", false
	}
	return rule.to, true
}

// Authorize checks op against the policy table for the booking's current
// state and the acting user. Role and ownership violations return
// ErrForbidden; everything else that does not match the table returns
// ErrInvalidTransition. A nil return means the transition may be applied.
func Authorize(op Operation, b *Booking, actorID uuid.UUID, roleID int) error {
	rule, ok := transitionTable[op]
	if !ok {
		return ErrInvalidTransition
	}

	if roleID != rule.roleID {
		return ErrForbidden
	}

	if len(rule.from) == 0 {
		if b.Status.IsTerminal() {
			return ErrInvalidTransition
		}
	} else {
		allowed := false
		for _, s := range rule.from {
			if b.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidTransition
		}
	}

	// Accepting is only valid while the job is still open
	if op == OpAccept && b.TechnicianID != nil {
		return ErrInvalidTransition
	}

	switch rule.owner {
	case ownershipCustomer:
		if !b.IsOwnedBy(actorID) {
			return ErrForbidden
		}
	case ownershipAssignedTechnician:
		if !b.IsAssignedTo(actorID) {
			return ErrForbidden
		}
	}

	return nil
}

// TransitionParams carries the optional inputs a transition may consume
type TransitionParams struct {
	Reason            string
	FinalCost         *decimal.Decimal
	TechnicianID      *uuid.UUID
	PreferredDate     *time.Time
	PreferredTimeSlot *TimeSlot
	Now               time.Time
}

// ApplyTransition authorizes op and mutates the booking in memory: status,
// side-effect fields and one appended status-history entry. It returns the
// appended event (nil for reschedule, which never touches status or
// history). The booking is left unmodified on error.
func ApplyTransition(b *Booking, op Operation, actorID uuid.UUID, roleID int, p TransitionParams) (*BookingStatusEvent, error) {
	if err := Authorize(op, b, actorID, roleID); err != nil {
		return nil, err
	}

	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	switch op {
	case OpAccept:
		actor := actorID
		b.TechnicianID = &actor
	case OpRejectAssignment:
		b.TechnicianID = nil
	case OpStart:
		b.StartedAt = &now
	case OpComplete:
		b.CompletedAt = &now
		if p.FinalCost != nil {
			b.FinalCost = p.FinalCost
		}
	case OpCancel, OpAdminCancel:
		b.CancelReason = p.Reason
	case OpAssign:
		if p.TechnicianID == nil {
			return nil, ErrInvalidTransition
		}
		b.TechnicianID = p.TechnicianID
	case OpReschedule:
		if p.PreferredDate != nil {
			b.PreferredDate = *p.PreferredDate
		}
		if p.PreferredTimeSlot != nil {
			b.PreferredTimeSlot = *p.PreferredTimeSlot
		}
		b.UpdatedAt = now
		return nil, nil
	}

	rule := transitionTable[op]
	b.Status = rule.to
	b.UpdatedAt = now

	event := &BookingStatusEvent{
		BookingID: b.ID,
		Status:    rule.to,
		ChangedBy: actorID,
		Reason:    p.Reason,
		CreatedAt: now,
	}
	b.StatusHistory = append(b.StatusHistory, *event)

	return event, nil
}

// SeedStatusHistory returns the initial pending entry written when a
// booking is created. Creation always seeds exactly one entry so the
// history fully reconstructs the lifecycle from the start.
func SeedStatusHistory(b *Booking, now time.Time) *BookingStatusEvent {
	event := &BookingStatusEvent{
		BookingID: b.ID,
		Status:    BookingStatusPending,
		ChangedBy: b.CustomerID,
		CreatedAt: now,
	}
	b.StatusHistory = append(b.StatusHistory, *event)
	return event
}
