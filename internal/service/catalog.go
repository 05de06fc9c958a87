package service

import (
	"context"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/repository"
)

type catalogService struct {
	equipmentRepo repository.EquipmentRepository
}

func NewCatalogService(equipmentRepo repository.EquipmentRepository) CatalogService {
	return &catalogService{equipmentRepo: equipmentRepo}
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

func (s *catalogService) List(ctx context.Context, category string, status domain.EquipmentStatus) ([]domain.Equipment, error) {
	return s.equipmentRepo.List(ctx, category, status)
}

func (s *catalogService) Create(ctx context.Context, eq *domain.Equipment) error {
	const op = "catalog.create"
	if eq.Name == "" || eq.Category == "" {
		return domain.E(domain.KindValidation, op, "name and category are required")
	}
	if eq.Condition == "" {
		eq.Condition = domain.EquipmentConditionNormal
	}
	return s.equipmentRepo.Create(ctx, eq)
}

func (s *catalogService) Update(ctx context.Context, eq *domain.Equipment) error {
	const op = "catalog.update"
	if eq.ID == "" {
		return domain.E(domain.KindValidation, op, "equipment id is required")
	}
	if eq.Name == "" || eq.Category == "" {
		return domain.E(domain.KindValidation, op, "name and category are required")
	}
	return s.equipmentRepo.Update(ctx, eq)
}
