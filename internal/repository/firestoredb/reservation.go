package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository"
)

type ReservationRepo struct {
	client *firestore.Client
}

func (r *ReservationRepo) col() *firestore.CollectionRef {
	return r.client.Collection(reservationsCollection)
}

func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	const op = "reservation.create"
	ref := r.col().NewDoc()
	res.ID = ref.ID
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	if _, err := ref.Create(ctx, res); err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	const op = "reservation.get"
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	return r.decode(op, doc)
}

func (r *ReservationRepo) decode(op string, doc *firestore.DocumentSnapshot) (*domain.Reservation, error) {
	var raw reservationDoc
	if err := doc.DataTo(&raw); err != nil {
		return nil, domain.WrapE(domain.KindValidation, op, "malformed reservation document", err)
	}
	res, err := raw.normalize(doc.Ref.ID)
	if err != nil {
		return nil, domain.WrapE(domain.KindValidation, op, "malformed reservation document", err)
	}
	return res, nil
}

func (r *ReservationRepo) ListActive(ctx context.Context) ([]domain.Reservation, int, error) {
	const op = "reservation.listActive"
	docs, err := r.col().Where("status", "==", string(domain.ReservationStatusActive)).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, classify(op, err)
	}
	out := make([]domain.Reservation, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		res, err := r.decode(op, doc)
		if err != nil {
			skipped++
			logger.Warn("Skipping malformed reservation document", "id", doc.Ref.ID, "error", err)
			continue
		}
		out = append(out, *res)
	}
	return out, skipped, nil
}

func (r *ReservationRepo) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	const op = "reservation.listByStatus"
	docs, err := r.col().Where("status", "==", string(status)).Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(op, err)
	}
	return r.decodeAll(op, docs), nil
}

func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	const op = "reservation.listByUser"
	docs, err := r.col().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(op, err)
	}
	return r.decodeAll(op, docs), nil
}

func (r *ReservationRepo) decodeAll(op string, docs []*firestore.DocumentSnapshot) []domain.Reservation {
	out := make([]domain.Reservation, 0, len(docs))
	for _, doc := range docs {
		res, err := r.decode(op, doc)
		if err != nil {
			logger.Warn("Skipping malformed reservation document", "id", doc.Ref.ID, "error", err)
			continue
		}
		out = append(out, *res)
	}
	return out
}

// Transition moves a reservation between states with a compare-and-set:
// the current document must be in the expected from state, and the write is
// guarded by the document's update time so a concurrent transition loses
// cleanly instead of overwriting.
func (r *ReservationRepo) Transition(ctx context.Context, id string, from, to domain.ReservationStatus, fields map[string]any) error {
	const op = "reservation.transition"
	ref := r.col().Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return classify(op, err)
	}
	current, err := doc.DataAt("status")
	if err != nil {
		return domain.WrapE(domain.KindValidation, op, "reservation document missing status", err)
	}
	if cur, _ := current.(string); cur != string(from) {
		return domain.E(domain.KindInvalidTransition, op,
			fmt.Sprintf("reservation is %q, expected %q", cur, from))
	}
	updates := []firestore.Update{{Path: "status", Value: string(to)}}
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if _, err := ref.Update(ctx, updates, firestore.LastUpdateTime(doc.UpdateTime)); err != nil {
		return classify(op, err)
	}
	return nil
}

// TransitionBatch applies every transition as one batched write. The batch
// is all-or-nothing: each document is re-read for its expected state and the
// commit carries per-document update-time preconditions.
func (r *ReservationRepo) TransitionBatch(ctx context.Context, transitions []repository.StatusTransition) error {
	const op = "reservation.transitionBatch"
	if len(transitions) == 0 {
		return nil
	}
	batch := r.client.Batch()
	for _, t := range transitions {
		ref := r.col().Doc(t.ID)
		doc, err := ref.Get(ctx)
		if err != nil {
			return classify(op, err)
		}
		current, err := doc.DataAt("status")
		if err != nil {
			return domain.WrapE(domain.KindValidation, op, "reservation document missing status", err)
		}
		if cur, _ := current.(string); cur != string(t.From) {
			return domain.E(domain.KindInvalidTransition, op,
				fmt.Sprintf("reservation %s is %q, expected %q", t.ID, cur, t.From))
		}
		updates := []firestore.Update{{Path: "status", Value: string(t.To)}}
		for path, value := range t.Fields {
			updates = append(updates, firestore.Update{Path: path, Value: value})
		}
		batch.Update(ref, updates, firestore.LastUpdateTime(doc.UpdateTime))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *ReservationRepo) MarkOverdueNotified(ctx context.Context, id string) error {
	const op = "reservation.markOverdueNotified"
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "overdueNotified", Value: true},
	})
	if err != nil {
		return classify(op, err)
	}
	return nil
}
