package service

import (
	"context"
	"testing"

	"invoicely/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLifecycle(t *testing.T) {
	userID := uuid.New()
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, userID.String(), CreateCustomerRequest{
		Name:  "Acme Traders",
		Phone: "9876543210",
		State: "Karnataka",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CustomerStatusActive, created.Status)

	newName := "Acme Traders Pvt Ltd"
	inactive := model.CustomerStatusInactive
	updated, err := svc.UpdateCustomer(ctx, userID.String(), created.ID, UpdateCustomerRequest{
		Name:   &newName,
		Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, model.CustomerStatusInactive, updated.Status)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Karnataka", updated.State)

	list, total, err := svc.ListCustomers(ctx, userID.String(), "", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteCustomer(ctx, userID.String(), created.ID))

	_, err = svc.GetCustomer(ctx, userID.String(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerValidation(t *testing.T) {
	userID := uuid.New()
	svc := NewCustomerService(newFakeCustomerRepo(), nil)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, userID.String(), CreateCustomerRequest{
		Name:  "Acme",
		Phone: "9876543210",
		Email: "not-an-email",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.CreateCustomer(ctx, userID.String(), CreateCustomerRequest{
		Name:  "Acme",
		Phone: "9876543210",
	})
	require.NoError(t, err)

	badStatus := "archived"
	_, err = svc.UpdateCustomer(ctx, userID.String(), created.ID, UpdateCustomerRequest{Status: &badStatus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerTenantIsolation(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	owner := uuid.New()
	created, err := svc.CreateCustomer(ctx, owner.String(), CreateCustomerRequest{
		Name:  "Acme",
		Phone: "9876543210",
	})
	require.NoError(t, err)

	_, err = svc.GetCustomer(ctx, uuid.NewString(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteCustomer(ctx, uuid.NewString(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
