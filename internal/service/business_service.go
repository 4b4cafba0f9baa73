package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicely/internal/model"
	"invoicely/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type SaveBusinessRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	GSTIN        string `json:"gstin"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type SaveBankRequest struct {
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
	UPIID         string `json:"upi_id"`
}

type BusinessResponse struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	GSTIN        string `json:"gstin,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Pincode      string `json:"pincode,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

type BankDetailResponse struct {
	ID            string `json:"id"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	UPIID         string `json:"upi_id,omitempty"`
	UpdatedAt     string `json:"updated_at"`
}

// --- Interface ---

// BusinessService maintains the tenant's own business profile and bank
// details. Both are single-row-per-tenant upserts.
type BusinessService interface {
	GetProfile(ctx context.Context, userID string) (BusinessResponse, error)
	SaveProfile(ctx context.Context, userID string, req SaveBusinessRequest) (BusinessResponse, error)
	GetBank(ctx context.Context, userID string) (BankDetailResponse, error)
	SaveBank(ctx context.Context, userID string, req SaveBankRequest) (BankDetailResponse, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository) BusinessService {
	return &businessService{businessRepo: businessRepo}
}

// --- Implementation ---

func (s *businessService) GetProfile(ctx context.Context, userID string) (BusinessResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BusinessResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	profile, err := s.businessRepo.FindProfileByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BusinessResponse{}, fmt.Errorf("%w: business profile", ErrNotFound)
		}
		return BusinessResponse{}, fmt.Errorf("failed to fetch business profile: %w", err)
	}

	return toBusinessResponse(*profile), nil
}

func (s *businessService) SaveProfile(ctx context.Context, userID string, req SaveBusinessRequest) (BusinessResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BusinessResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	profile, err := s.businessRepo.FindProfileByUser(ctx, uid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return BusinessResponse{}, fmt.Errorf("failed to fetch business profile: %w", err)
		}
		profile = &model.BusinessProfile{UserID: uid}
	}

	profile.BusinessName = req.BusinessName
	profile.GSTIN = req.GSTIN
	profile.Address = req.Address
	profile.City = req.City
	profile.State = req.State
	profile.Pincode = req.Pincode
	profile.Phone = req.Phone
	profile.Email = req.Email

	if err := s.businessRepo.SaveProfile(ctx, profile); err != nil {
		return BusinessResponse{}, fmt.Errorf("failed to save business profile: %w", err)
	}

	return toBusinessResponse(*profile), nil
}

func (s *businessService) GetBank(ctx context.Context, userID string) (BankDetailResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BankDetailResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	bank, err := s.businessRepo.FindBankByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BankDetailResponse{}, fmt.Errorf("%w: bank details", ErrNotFound)
		}
		return BankDetailResponse{}, fmt.Errorf("failed to fetch bank details: %w", err)
	}

	return toBankDetailResponse(*bank), nil
}

func (s *businessService) SaveBank(ctx context.Context, userID string, req SaveBankRequest) (BankDetailResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BankDetailResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	bank, err := s.businessRepo.FindBankByUser(ctx, uid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return BankDetailResponse{}, fmt.Errorf("failed to fetch bank details: %w", err)
		}
		bank = &model.BankDetail{UserID: uid}
	}

	bank.AccountName = req.AccountName
	bank.AccountNumber = req.AccountNumber
	bank.IFSCCode = req.IFSCCode
	bank.BankName = req.BankName
	bank.UPIID = req.UPIID

	if err := s.businessRepo.SaveBank(ctx, bank); err != nil {
		return BankDetailResponse{}, fmt.Errorf("failed to save bank details: %w", err)
	}

	return toBankDetailResponse(*bank), nil
}

// --- Mapping ---

func toBusinessResponse(p model.BusinessProfile) BusinessResponse {
	return BusinessResponse{
		ID:           p.ID.String(),
		BusinessName: p.BusinessName,
		GSTIN:        p.GSTIN,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		Pincode:      p.Pincode,
		Phone:        p.Phone,
		Email:        p.Email,
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

func toBankDetailResponse(b model.BankDetail) BankDetailResponse {
	return BankDetailResponse{
		ID:            b.ID.String(),
		AccountName:   b.AccountName,
		AccountNumber: b.AccountNumber,
		IFSCCode:      b.IFSCCode,
		BankName:      b.BankName,
		UPIID:         b.UPIID,
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}
