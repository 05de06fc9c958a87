package firestoredb

import (
	"fmt"
	"time"

	"gearroom-backend/internal/domain"
)

// The store carries two generations of document shape: newer documents hold
// a nested window with RFC3339 timestamps, legacy ones hold flat
// rentalDate/rentalTime/returnDate/returnTime strings. Normalization happens
// here, at the store boundary, and fails closed on malformed records.

type windowDoc struct {
	Start time.Time `firestore:"startDateTime"`
	End   time.Time `firestore:"endDateTime"`
}

type legacyWindowFields struct {
	RentalDate string `firestore:"rentalDate"`
	RentalTime string `firestore:"rentalTime"`
	ReturnDate string `firestore:"returnDate"`
	ReturnTime string `firestore:"returnTime"`
}

func normalizeWindow(w *windowDoc, legacy legacyWindowFields) (domain.Window, error) {
	if w != nil && !w.Start.IsZero() && !w.End.IsZero() {
		win := domain.Window{Start: w.Start, End: w.End}
		if err := win.Validate(); err != nil {
			return domain.Window{}, err
		}
		return win, nil
	}
	return domain.ParseWindow(legacy.RentalDate, legacy.RentalTime, legacy.ReturnDate, legacy.ReturnTime)
}

type cartItemDoc struct {
	ItemID    string                   `firestore:"itemId"`
	Equipment domain.EquipmentSnapshot `firestore:"equipment"`
	Window    *windowDoc               `firestore:"window"`
	AddedAt   time.Time                `firestore:"addedAt"`
	LongTerm  bool                     `firestore:"longTerm"`
	legacyWindowFields
}

func (d cartItemDoc) normalize() (domain.CartItem, error) {
	if d.Equipment.ID == "" {
		return domain.CartItem{}, fmt.Errorf("cart item missing equipment id")
	}
	win, err := normalizeWindow(d.Window, d.legacyWindowFields)
	if err != nil {
		return domain.CartItem{}, err
	}
	return domain.CartItem{
		ID:        d.ItemID,
		Equipment: d.Equipment,
		Window:    win,
		AddedAt:   d.AddedAt,
		LongTerm:  d.LongTerm,
	}, nil
}

type cartDoc struct {
	UserID    string        `firestore:"userId"`
	Items     []cartItemDoc `firestore:"items"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
}

func (d cartDoc) normalize(userID string) (*domain.Cart, error) {
	cart := &domain.Cart{UserID: userID, Items: make([]domain.CartItem, 0, len(d.Items)), UpdatedAt: d.UpdatedAt}
	for i, it := range d.Items {
		item, err := it.normalize()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}

type reservationItemDoc struct {
	ItemID    string                   `firestore:"itemId"`
	Equipment domain.EquipmentSnapshot `firestore:"equipment"`
	Window    *windowDoc               `firestore:"window"`
	legacyWindowFields
}

type reservationDoc struct {
	UserID string               `firestore:"userId"`
	Items  []reservationItemDoc `firestore:"items"`
	Status string               `firestore:"status"`

	CreatedAt  time.Time  `firestore:"createdAt"`
	ApprovedAt *time.Time `firestore:"approvedAt"`
	ApprovedBy string     `firestore:"approvedBy"`
	RejectedAt *time.Time `firestore:"rejectedAt"`
	RejectedBy string     `firestore:"rejectedBy"`
	RejectionReason string `firestore:"rejectionReason"`

	ReturnRequestedAt *time.Time `firestore:"returnRequestedAt"`
	ReturnedAt        *time.Time `firestore:"returnedAt"`
	ProcessedBy       string     `firestore:"processedBy"`
	ReturnStatus      string     `firestore:"returnStatus"`
	PenaltyPoints     int        `firestore:"penaltyPoints"`
	PenaltyReason     string     `firestore:"penaltyReason"`
	ReturnImageRef    string     `firestore:"returnImageRef"`

	OverdueNotified bool `firestore:"overdueNotified"`
}

func (d reservationDoc) normalize(id string) (*domain.Reservation, error) {
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("reservation missing items array")
	}
	r := &domain.Reservation{
		ID:                id,
		UserID:            d.UserID,
		Status:            domain.ReservationStatus(d.Status),
		CreatedAt:         d.CreatedAt,
		ApprovedAt:        d.ApprovedAt,
		ApprovedBy:        d.ApprovedBy,
		RejectedAt:        d.RejectedAt,
		RejectedBy:        d.RejectedBy,
		RejectionReason:   d.RejectionReason,
		ReturnRequestedAt: d.ReturnRequestedAt,
		ReturnedAt:        d.ReturnedAt,
		ProcessedBy:       d.ProcessedBy,
		ReturnStatus:      domain.ReturnStatus(d.ReturnStatus),
		PenaltyPoints:     d.PenaltyPoints,
		PenaltyReason:     d.PenaltyReason,
		ReturnImageRef:    d.ReturnImageRef,
		OverdueNotified:   d.OverdueNotified,
	}
	for i, it := range d.Items {
		if it.Equipment.ID == "" {
			return nil, fmt.Errorf("item %d: missing equipment id", i)
		}
		win, err := normalizeWindow(it.Window, it.legacyWindowFields)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		r.Items = append(r.Items, domain.ReservationItem{
			ItemID:    it.ItemID,
			Equipment: it.Equipment,
			Window:    win,
		})
	}
	return r, nil
}
