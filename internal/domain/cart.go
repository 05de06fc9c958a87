package domain

import "time"

// Cart is the per-user provisional selection list. Keyed 1:1 by user id and
// cleared on successful checkout.
type Cart struct {
	UserID    string     `firestore:"userId" json:"userId"`
	Items     []CartItem `firestore:"items" json:"items"`
	UpdatedAt time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

type CartItem struct {
	ID        string            `firestore:"itemId" json:"itemId"`
	Equipment EquipmentSnapshot `firestore:"equipment" json:"equipment"`
	Window    Window            `firestore:"window" json:"window"`
	AddedAt   time.Time         `firestore:"addedAt" json:"addedAt"`
	LongTerm  bool              `firestore:"longTerm" json:"longTerm"`
}

// CartAddRequest carries the raw selection form fields. The window arrives
// in the four-field date/time form and is strictly parsed before any write.
type CartAddRequest struct {
	EquipmentID string `json:"equipmentId"`
	RentalDate  string `json:"rentalDate"`
	RentalTime  string `json:"rentalTime"`
	ReturnDate  string `json:"returnDate"`
	ReturnTime  string `json:"returnTime"`
	LongTerm    bool   `json:"longTerm"`
}

// FindItem returns the cart item with the given id, or nil.
func (c *Cart) FindItem(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// HasDuplicate reports whether the cart already holds the equipment for the
// same rental start.
func (c *Cart) HasDuplicate(equipmentID string, start time.Time) bool {
	for _, it := range c.Items {
		if it.Equipment.ID == equipmentID && it.Window.Start.Equal(start) {
			return true
		}
	}
	return false
}
