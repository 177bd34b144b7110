package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mercatus/webstore/internal/hash"
	"github.com/mercatus/webstore/internal/models"
)

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByEmail returns (nil, nil) when no row matches: callers use it
// both for uniqueness checks and login lookup, neither of which treats an
// absent row as a failure.
func (r *GormRepo) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, email, fullName, password string) (*models.Customer, error) {
	existing, err := r.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	customer := models.Customer{
		Email:          email,
		HashedPassword: pwHash,
		FullName:       fullName,
	}
	if err := r.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Authenticate yields the same error for an unknown email and a wrong
// password so callers cannot tell the cases apart.
func (r *GormRepo) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	customer, err := r.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrInvalidCredentials
	}
	if !hash.CheckPassword(customer.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	return customer, nil
}
