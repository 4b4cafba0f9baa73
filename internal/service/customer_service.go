package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"invoicely/internal/model"
	"invoicely/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	GSTIN   *string `json:"gstin"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Pincode *string `json:"pincode"`
	Status  *string `json:"status"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Pincode   string `json:"pincode,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type CustomerService interface {
	CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error)
	UpdateCustomer(ctx context.Context, userID, customerID string, req UpdateCustomerRequest) (CustomerResponse, error)
	GetCustomer(ctx context.Context, userID, customerID string) (CustomerResponse, error)
	ListCustomers(ctx context.Context, userID, search, status string, page, limit int) ([]CustomerResponse, int64, error)
	DeleteCustomer(ctx context.Context, userID, customerID string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	audit        *auditLogger
}

func NewCustomerService(customerRepo repository.CustomerRepository, db *gorm.DB) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		audit:        newAuditLogger(db),
	}
}

// --- Implementation ---

func (s *customerService) CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return CustomerResponse{}, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
		}
	}

	customer := model.Customer{
		UserID:  uid,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		GSTIN:   req.GSTIN,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
		Status:  model.CustomerStatusActive,
	}

	if err := s.customerRepo.Create(ctx, &customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to create customer: %w", err)
	}

	s.audit.write(ctx, uid, model.ActionCreateCustomer, customer.ID.String(), customer.Name, req)

	return toCustomerResponse(customer), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, userID, customerID string, req UpdateCustomerRequest) (CustomerResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	custID, err := uuid.Parse(customerID)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, uid, custID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return CustomerResponse{}, fmt.Errorf("failed to fetch customer: %w", err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		if *req.Email != "" {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				return CustomerResponse{}, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
			}
		}
		customer.Email = *req.Email
	}
	if req.GSTIN != nil {
		customer.GSTIN = *req.GSTIN
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.State != nil {
		customer.State = *req.State
	}
	if req.Pincode != nil {
		customer.Pincode = *req.Pincode
	}
	if req.Status != nil {
		if *req.Status != model.CustomerStatusActive && *req.Status != model.CustomerStatusInactive {
			return CustomerResponse{}, fmt.Errorf("%w: status must be active or inactive", ErrInvalidInput)
		}
		customer.Status = *req.Status
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to update customer: %w", err)
	}

	s.audit.write(ctx, uid, model.ActionUpdateCustomer, customer.ID.String(), customer.Name, req)

	return toCustomerResponse(*customer), nil
}

func (s *customerService) GetCustomer(ctx context.Context, userID, customerID string) (CustomerResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	custID, err := uuid.Parse(customerID)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, uid, custID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return CustomerResponse{}, fmt.Errorf("failed to fetch customer: %w", err)
	}

	return toCustomerResponse(*customer), nil
}

func (s *customerService) ListCustomers(ctx context.Context, userID, search, status string, page, limit int) ([]CustomerResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.customerRepo.List(ctx, uid, search, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	result := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, toCustomerResponse(c))
	}
	return result, total, nil
}

// DeleteCustomer soft-deletes the customer. Existing invoices keep their
// customer_id; the row just stops appearing in lists and lookups.
func (s *customerService) DeleteCustomer(ctx context.Context, userID, customerID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	custID, err := uuid.Parse(customerID)
	if err != nil {
		return fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, uid, custID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: customer", ErrNotFound)
		}
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	if err := s.customerRepo.Delete(ctx, customer); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// --- Mapping ---

func toCustomerResponse(c model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		GSTIN:     c.GSTIN,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Pincode:   c.Pincode,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
