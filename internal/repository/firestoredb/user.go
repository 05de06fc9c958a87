package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"gearroom-backend/internal/domain"
)

type UserRepo struct {
	client *firestore.Client
}

func (r *UserRepo) col() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	const op = "user.get"
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	var p domain.UserProfile
	if err := doc.DataTo(&p); err != nil {
		return nil, domain.WrapE(domain.KindValidation, op, "malformed user document", err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

// ApplyPenalty appends to the history and bumps the accumulator in a single
// write, both as transforms; a stale in-memory copy can never clobber
// another admin's concurrent penalty.
func (r *UserRepo) ApplyPenalty(ctx context.Context, userID string, rec domain.PenaltyRecord) error {
	const op = "user.applyPenalty"
	_, err := r.col().Doc(userID).Set(ctx, map[string]any{
		"penaltyHistory": firestore.ArrayUnion(rec),
		"penaltyPoints":  firestore.Increment(rec.Points),
	}, firestore.MergeAll)
	if err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *UserRepo) SetAgreement(ctx context.Context, userID, docRef string) error {
	const op = "user.setAgreement"
	_, err := r.col().Doc(userID).Set(ctx, map[string]any{
		"agreementSubmitted": true,
		"agreementDocRef":    docRef,
	}, firestore.MergeAll)
	if err != nil {
		return classify(op, err)
	}
	return nil
}
