package domain

import "time"

type EquipmentStatus string

const (
	EquipmentStatusAvailable EquipmentStatus = "available"
	EquipmentStatusRented    EquipmentStatus = "rented"
)

type EquipmentCondition string

const (
	EquipmentConditionNormal  EquipmentCondition = "normal"
	EquipmentConditionCaution EquipmentCondition = "caution"
	EquipmentConditionRepair  EquipmentCondition = "repair"
)

// Accessory categories the attachment resolver searches.
const (
	CategoryBattery = "battery"
	CategorySDCard  = "sdcard"
)

type Equipment struct {
	ID              string             `firestore:"-" json:"id"`
	Name            string             `firestore:"name" json:"name"`
	Category        string             `firestore:"category" json:"category"`
	Brand           string             `firestore:"brand" json:"brand"`
	Condition       EquipmentCondition `firestore:"condition" json:"condition"`
	Status          EquipmentStatus    `firestore:"status" json:"status"`
	MountType       []string           `firestore:"mountType" json:"mountType"`
	BatteryModel    string             `firestore:"batteryModel" json:"batteryModel"`
	RecommendSDCard string             `firestore:"recommendSDCard" json:"recommendSDCard"`
	DailyRentalPrice int64             `firestore:"dailyRentalPrice" json:"dailyRentalPrice"`
	ImageRef        string             `firestore:"imageRef" json:"imageRef"`
	// LastRentalID points at the reservation currently holding the unit.
	// Written only by the reservation lifecycle, never by catalog tooling.
	LastRentalID  string         `firestore:"lastRentalId" json:"lastRentalId"`
	DamageHistory []DamageRecord `firestore:"damageHistory" json:"damageHistory,omitempty"`
	CreatedAt     time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

type DamageRecord struct {
	ID            string    `firestore:"id" json:"id"`
	ReservationID string    `firestore:"reservationId" json:"reservationId"`
	UserID        string    `firestore:"userId" json:"userId"`
	Points        int       `firestore:"points" json:"points"`
	Reason        string    `firestore:"reason" json:"reason"`
	Date          time.Time `firestore:"date" json:"date"`
}

// EquipmentSnapshot is the subset of equipment fields frozen into cart items
// and reservation items at selection time.
type EquipmentSnapshot struct {
	ID               string `firestore:"id" json:"id"`
	Name             string `firestore:"name" json:"name"`
	Category         string `firestore:"category" json:"category"`
	DailyRentalPrice int64  `firestore:"dailyRentalPrice" json:"dailyRentalPrice"`
	ImageRef         string `firestore:"imageRef" json:"imageRef"`
}

func (e *Equipment) Snapshot() EquipmentSnapshot {
	return EquipmentSnapshot{
		ID:               e.ID,
		Name:             e.Name,
		Category:         e.Category,
		DailyRentalPrice: e.DailyRentalPrice,
		ImageRef:         e.ImageRef,
	}
}
