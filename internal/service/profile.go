package service

import (
	"context"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/repository"
)

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *profileService) SubmitAgreement(ctx context.Context, userID, docRef string) error {
	const op = "profile.submitAgreement"
	if docRef == "" {
		return domain.E(domain.KindValidation, op, "agreement document reference is required")
	}
	return s.userRepo.SetAgreement(ctx, userID, docRef)
}
