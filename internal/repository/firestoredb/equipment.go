package firestoredb

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
)

type EquipmentRepo struct {
	client *firestore.Client
}

func (r *EquipmentRepo) col() *firestore.CollectionRef {
	return r.client.Collection(equipmentCollection)
}

func (r *EquipmentRepo) Create(ctx context.Context, eq *domain.Equipment) error {
	const op = "equipment.create"
	ref := r.col().NewDoc()
	eq.ID = ref.ID
	eq.CreatedAt = time.Now().UTC()
	eq.UpdatedAt = eq.CreatedAt
	if eq.Status == "" {
		eq.Status = domain.EquipmentStatusAvailable
	}
	if _, err := ref.Create(ctx, eq); err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	const op = "equipment.get"
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	var eq domain.Equipment
	if err := doc.DataTo(&eq); err != nil {
		return nil, domain.WrapE(domain.KindValidation, op, "malformed equipment document", err)
	}
	eq.ID = doc.Ref.ID
	return &eq, nil
}

// Update writes catalog metadata. Status and lastRentalId are deliberately
// not part of the update set; only the lifecycle writers touch those.
func (r *EquipmentRepo) Update(ctx context.Context, eq *domain.Equipment) error {
	const op = "equipment.update"
	updates := []firestore.Update{
		{Path: "name", Value: eq.Name},
		{Path: "category", Value: eq.Category},
		{Path: "brand", Value: eq.Brand},
		{Path: "condition", Value: eq.Condition},
		{Path: "mountType", Value: eq.MountType},
		{Path: "batteryModel", Value: eq.BatteryModel},
		{Path: "recommendSDCard", Value: eq.RecommendSDCard},
		{Path: "dailyRentalPrice", Value: eq.DailyRentalPrice},
		{Path: "imageRef", Value: eq.ImageRef},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if _, err := r.col().Doc(eq.ID).Update(ctx, updates); err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *EquipmentRepo) List(ctx context.Context, category string, status domain.EquipmentStatus) ([]domain.Equipment, error) {
	const op = "equipment.list"
	q := r.col().Query
	if category != "" {
		q = q.Where("category", "==", category)
	}
	if status != "" {
		q = q.Where("status", "==", string(status))
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(op, err)
	}
	out := make([]domain.Equipment, 0, len(docs))
	for _, doc := range docs {
		var eq domain.Equipment
		if err := doc.DataTo(&eq); err != nil {
			logger.Warn("Skipping malformed equipment document", "id", doc.Ref.ID, "error", err)
			continue
		}
		eq.ID = doc.Ref.ID
		out = append(out, eq)
	}
	return out, nil
}

// SearchByNamePrefix uses the standard Firestore prefix-range trick on the
// name field, restricted to available units in the category.
func (r *EquipmentRepo) SearchByNamePrefix(ctx context.Context, category, prefix string) ([]domain.Equipment, error) {
	const op = "equipment.searchPrefix"
	q := r.col().
		Where("category", "==", category).
		Where("status", "==", string(domain.EquipmentStatusAvailable)).
		Where("name", ">=", prefix).
		Where("name", "<", prefix+"\uf8ff").
		OrderBy("name", firestore.Asc)
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(op, err)
	}
	out := make([]domain.Equipment, 0, len(docs))
	for _, doc := range docs {
		var eq domain.Equipment
		if err := doc.DataTo(&eq); err != nil {
			logger.Warn("Skipping malformed equipment document", "id", doc.Ref.ID, "error", err)
			continue
		}
		eq.ID = doc.Ref.ID
		out = append(out, eq)
	}
	return out, nil
}

// SetRented flips a unit to rented on behalf of a reservation. Calling it
// again for the same reservation is a no-op; a unit already held by another
// reservation fails with NotAvailable.
func (r *EquipmentRepo) SetRented(ctx context.Context, id, rentalID string) error {
	const op = "equipment.setRented"
	ref := r.col().Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return classify(op, err)
	}
	var eq domain.Equipment
	if err := doc.DataTo(&eq); err != nil {
		return domain.WrapE(domain.KindValidation, op, "malformed equipment document", err)
	}
	if eq.Status == domain.EquipmentStatusRented {
		if eq.LastRentalID == rentalID {
			return nil
		}
		return domain.E(domain.KindNotAvailable, op, "equipment already rented by another reservation")
	}
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: string(domain.EquipmentStatusRented)},
		{Path: "lastRentalId", Value: rentalID},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}, firestore.LastUpdateTime(doc.UpdateTime))
	if err != nil {
		return classify(op, err)
	}
	return nil
}

// SetAvailable returns a unit to the pool and clears its rental pointer.
// Idempotent: an already-available unit is left alone.
func (r *EquipmentRepo) SetAvailable(ctx context.Context, id string) error {
	const op = "equipment.setAvailable"
	ref := r.col().Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return classify(op, err)
	}
	var eq domain.Equipment
	if err := doc.DataTo(&eq); err != nil {
		return domain.WrapE(domain.KindValidation, op, "malformed equipment document", err)
	}
	if eq.Status == domain.EquipmentStatusAvailable && eq.LastRentalID == "" {
		return nil
	}
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: string(domain.EquipmentStatusAvailable)},
		{Path: "lastRentalId", Value: ""},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}, firestore.LastUpdateTime(doc.UpdateTime))
	if err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *EquipmentRepo) AppendDamage(ctx context.Context, id string, rec domain.DamageRecord) error {
	const op = "equipment.appendDamage"
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "damageHistory", Value: firestore.ArrayUnion(rec)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return classify(op, err)
	}
	return nil
}
