package service

import (
	"context"

	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
)

type AdminService interface {
	GetStats(ctx context.Context) (*models.AdminStats, error)
}

type adminService struct {
	store repository.Store
}

func NewAdminService(store repository.Store) AdminService {
	return &adminService{store: store}
}

// GetStats runs independent read queries, the numbers are not a single snapshot.
func (s *adminService) GetStats(ctx context.Context) (*models.AdminStats, error) {

	users, err := s.store.Users().CountUsers(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to count users").WithError(err)
	}

	products, err := s.store.Products().CountProducts(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to count products").WithError(err)
	}

	orders, err := s.store.Orders().CountOrders(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to count orders").WithError(err)
	}

	revenue, err := s.store.Orders().TotalRevenue(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to compute revenue").WithError(err)
	}

	return &models.AdminStats{
		TotalUsers:    users,
		TotalProducts: products,
		TotalOrders:   orders,
		Revenue:       revenue,
	}, nil
}
