package domain

import "time"

// UserProfile accumulates penalty bookkeeping and the agreement submission
// state. Account identity itself is resolved by the auth collaborator.
type UserProfile struct {
	ID                 string          `firestore:"-" json:"id"`
	DisplayName        string          `firestore:"displayName" json:"displayName"`
	Email              string          `firestore:"email" json:"email"`
	PenaltyPoints      int             `firestore:"penaltyPoints" json:"penaltyPoints"`
	PenaltyHistory     []PenaltyRecord `firestore:"penaltyHistory" json:"penaltyHistory,omitempty"`
	AgreementSubmitted bool            `firestore:"agreementSubmitted" json:"agreementSubmitted"`
	AgreementDocRef    string          `firestore:"agreementDocRef" json:"agreementDocRef,omitempty"`
	CreatedAt          time.Time       `firestore:"createdAt" json:"createdAt"`
}

type PenaltyRecord struct {
	ID       string    `firestore:"id" json:"id"`
	Points   int       `firestore:"points" json:"points"`
	Reason   string    `firestore:"reason" json:"reason"`
	Date     time.Time `firestore:"date" json:"date"`
	RentalID string    `firestore:"rentalId" json:"rentalId"`
}
