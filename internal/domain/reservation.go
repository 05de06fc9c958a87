package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending         ReservationStatus = "pending"
	ReservationStatusActive          ReservationStatus = "active"
	ReservationStatusReturnRequested ReservationStatus = "return_requested"
	ReservationStatusReturned        ReservationStatus = "returned"
	ReservationStatusRejected        ReservationStatus = "rejected"
	ReservationStatusCancelled       ReservationStatus = "cancelled"
)

type ReturnStatus string

const (
	ReturnStatusNormal  ReturnStatus = "normal"
	ReturnStatusLate    ReturnStatus = "late"
	ReturnStatusDamaged ReturnStatus = "damaged"
)

// reservationTransitions is the authoritative transition table. Statuses are
// monotonic; returned, rejected and cancelled are terminal. An admin may
// finalize a return directly from active, without a prior return request.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:         {ReservationStatusActive, ReservationStatusRejected, ReservationStatusCancelled},
	ReservationStatusActive:          {ReservationStatusReturnRequested, ReservationStatusReturned},
	ReservationStatusReturnRequested: {ReservationStatusReturned},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, t := range reservationTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Reservation is append-only history: created by checkout, mutated only
// through defined transitions, never deleted.
type Reservation struct {
	ID     string            `firestore:"-" json:"id"`
	UserID string            `firestore:"userId" json:"userId"`
	Items  []ReservationItem `firestore:"items" json:"items"`
	Status ReservationStatus `firestore:"status" json:"status"`

	CreatedAt  time.Time  `firestore:"createdAt" json:"createdAt"`
	ApprovedAt *time.Time `firestore:"approvedAt" json:"approvedAt,omitempty"`
	ApprovedBy string     `firestore:"approvedBy" json:"approvedBy,omitempty"`
	RejectedAt *time.Time `firestore:"rejectedAt" json:"rejectedAt,omitempty"`
	RejectedBy string     `firestore:"rejectedBy" json:"rejectedBy,omitempty"`
	RejectionReason string `firestore:"rejectionReason" json:"rejectionReason,omitempty"`

	ReturnRequestedAt *time.Time `firestore:"returnRequestedAt" json:"returnRequestedAt,omitempty"`
	ReturnedAt        *time.Time `firestore:"returnedAt" json:"returnedAt,omitempty"`
	ProcessedBy       string     `firestore:"processedBy" json:"processedBy,omitempty"`
	ReturnStatus      ReturnStatus `firestore:"returnStatus" json:"returnStatus,omitempty"`
	PenaltyPoints     int        `firestore:"penaltyPoints" json:"penaltyPoints,omitempty"`
	PenaltyReason     string     `firestore:"penaltyReason" json:"penaltyReason,omitempty"`
	ReturnImageRef    string     `firestore:"returnImageRef" json:"returnImageRef,omitempty"`

	// EstimatedCost is the daily-rate estimate captured at checkout, shown
	// to the user and the approving admin. Not a billing record.
	EstimatedCost int64 `firestore:"estimatedCost" json:"estimatedCost,omitempty"`

	OverdueNotified bool `firestore:"overdueNotified" json:"overdueNotified,omitempty"`
}

type ReservationItem struct {
	ItemID    string            `firestore:"itemId" json:"itemId"`
	Equipment EquipmentSnapshot `firestore:"equipment" json:"equipment"`
	Window    Window            `firestore:"window" json:"window"`
}

// LatestReturn returns the latest return time across the reservation's items.
func (r *Reservation) LatestReturn() time.Time {
	var latest time.Time
	for _, it := range r.Items {
		if it.Window.End.After(latest) {
			latest = it.Window.End
		}
	}
	return latest
}

// Span returns the window covering all items, used for the calendar event.
func (r *Reservation) Span() Window {
	var w Window
	for _, it := range r.Items {
		if w.Start.IsZero() || it.Window.Start.Before(w.Start) {
			w.Start = it.Window.Start
		}
		if it.Window.End.After(w.End) {
			w.End = it.Window.End
		}
	}
	return w
}
