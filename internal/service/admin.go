package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
)

type AdminService struct {
	repo    *repository.Repository
	isAdmin func(username string) bool
}

func NewAdminService(repo *repository.Repository, isAdmin func(username string) bool) *AdminService {
	return &AdminService{repo: repo, isAdmin: isAdmin}
}

// IsAdmin reports whether the user is on the configured admin list.
func (s *AdminService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.isAdmin(user.Username), nil
}

type Stats struct {
	TotalUsers     int64                        `json:"total_users"`
	ActiveUsers    int64                        `json:"active_users"`
	TotalOrders    int64                        `json:"total_orders"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	PaidRevenue    int64                        `json:"paid_revenue"`
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalUsers, err = s.repo.Users.Count(ctx, false); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.repo.Users.Count(ctx, true); err != nil {
		return nil, err
	}
	if stats.OrdersByStatus, err = s.repo.Orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	for _, n := range stats.OrdersByStatus {
		stats.TotalOrders += n
	}
	if stats.PaidRevenue, err = s.repo.Orders.PaidRevenue(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
