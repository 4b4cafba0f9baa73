package repository

import (
	"context"

	"invoicely/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessRepository stores the tenant's business profile and bank details.
// One row of each per tenant.
type BusinessRepository interface {
	FindProfileByUser(ctx context.Context, userID uuid.UUID) (*model.BusinessProfile, error)
	SaveProfile(ctx context.Context, profile *model.BusinessProfile) error
	FindBankByUser(ctx context.Context, userID uuid.UUID) (*model.BankDetail, error)
	SaveBank(ctx context.Context, bank *model.BankDetail) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) FindProfileByUser(ctx context.Context, userID uuid.UUID) (*model.BusinessProfile, error) {
	var profile model.BusinessProfile
	if err := GetDB(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *businessRepository) SaveProfile(ctx context.Context, profile *model.BusinessProfile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

func (r *businessRepository) FindBankByUser(ctx context.Context, userID uuid.UUID) (*model.BankDetail, error) {
	var bank model.BankDetail
	if err := GetDB(ctx, r.db).First(&bank, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *businessRepository) SaveBank(ctx context.Context, bank *model.BankDetail) error {
	return GetDB(ctx, r.db).Save(bank).Error
}
