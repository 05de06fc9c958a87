package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
)

type CartRepo struct {
	client *firestore.Client
}

func (r *CartRepo) col() *firestore.CollectionRef {
	return r.client.Collection(cartsCollection)
}

func (r *CartRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	const op = "cart.get"
	doc, err := r.col().Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, classify(op, err)
	}
	var raw cartDoc
	if err := doc.DataTo(&raw); err != nil {
		return nil, domain.WrapE(domain.KindValidation, op, "malformed cart document", err)
	}
	cart, err := raw.normalize(userID)
	if err != nil {
		return nil, domain.WrapE(domain.KindValidation, op, "malformed cart document", err)
	}
	return cart, nil
}

func (r *CartRepo) ListAll(ctx context.Context) ([]domain.Cart, int, error) {
	const op = "cart.listAll"
	docs, err := r.col().Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, classify(op, err)
	}
	out := make([]domain.Cart, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		var raw cartDoc
		if err := doc.DataTo(&raw); err != nil {
			skipped++
			logger.Warn("Skipping malformed cart document", "id", doc.Ref.ID, "error", err)
			continue
		}
		cart, err := raw.normalize(doc.Ref.ID)
		if err != nil {
			skipped++
			logger.Warn("Skipping malformed cart document", "id", doc.Ref.ID, "error", err)
			continue
		}
		out = append(out, *cart)
	}
	return out, skipped, nil
}

// AppendItem uses an array-union merge so two near-simultaneous adds for the
// same user both land; the cart document is created on first use.
func (r *CartRepo) AppendItem(ctx context.Context, userID string, item domain.CartItem) error {
	const op = "cart.appendItem"
	_, err := r.col().Doc(userID).Set(ctx, map[string]any{
		"userId":    userID,
		"items":     firestore.ArrayUnion(item),
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return classify(op, err)
	}
	return nil
}

// RemoveItem removes the stored element whose itemId matches, using the raw
// stored value so legacy-shaped items are removable too. Absent ids no-op.
func (r *CartRepo) RemoveItem(ctx context.Context, userID, itemID string) error {
	const op = "cart.removeItem"
	ref := r.col().Doc(userID)
	doc, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return classify(op, err)
	}
	rawItems, _ := doc.Data()["items"].([]any)
	for _, raw := range rawItems {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := m["itemId"].(string); id != itemID {
			continue
		}
		_, err := ref.Update(ctx, []firestore.Update{
			{Path: "items", Value: firestore.ArrayRemove(raw)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
		if err != nil {
			return classify(op, err)
		}
		return nil
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	const op = "cart.clear"
	_, err := r.col().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "items", Value: []any{}},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return classify(op, err)
	}
	return nil
}
