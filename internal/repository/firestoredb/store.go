// Package firestoredb implements the repository interfaces on Cloud
// Firestore. Shared list fields (cart items, penalty history, damage
// history) are only ever written with array-transform operations, and
// status moves are guarded by document update-time preconditions; the store
// itself is last-write-wins per document.
package firestoredb

import (
	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gearroom-backend/internal/domain"
)

const (
	equipmentCollection    = "equipment"
	reservationsCollection = "reservations"
	cartsCollection        = "carts"
	usersCollection        = "users"
)

// Store bundles the Firestore-backed repositories, mirroring a single
// client connection.
type Store struct {
	Equipment    *EquipmentRepo
	Reservations *ReservationRepo
	Carts        *CartRepo
	Users        *UserRepo
}

func NewStore(client *firestore.Client) *Store {
	return &Store{
		Equipment:    &EquipmentRepo{client: client},
		Reservations: &ReservationRepo{client: client},
		Carts:        &CartRepo{client: client},
		Users:        &UserRepo{client: client},
	}
}

// classify maps a Firestore error onto the core taxonomy.
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return domain.WrapE(domain.KindNotFound, op, "document not found", err)
	case codes.AlreadyExists:
		return domain.WrapE(domain.KindDuplicateItem, op, "document already exists", err)
	case codes.FailedPrecondition, codes.Aborted:
		// The document changed between read and write; the caller must
		// re-read rather than retry blindly.
		return domain.WrapE(domain.KindInvalidTransition, op, "document modified concurrently", err)
	case codes.PermissionDenied:
		return domain.WrapE(domain.KindPermissionDenied, op, "store denied access", err)
	default:
		return domain.WrapE(domain.KindExternalServiceFailure, op, "store operation failed", err)
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
