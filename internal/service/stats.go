package service

import (
	"context"
	"fmt"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
)

type StatsService struct {
	userRepo    repo.UserRepository
	menuRepo    repo.MenuRepository
	reviewRepo  repo.ReviewRepository
	paymentRepo repo.PaymentRepository
}

func NewStatsService(
	userRepo repo.UserRepository,
	menuRepo repo.MenuRepository,
	reviewRepo repo.ReviewRepository,
	paymentRepo repo.PaymentRepository,
) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		menuRepo:    menuRepo,
		reviewRepo:  reviewRepo,
		paymentRepo: paymentRepo,
	}
}

// AdminStats gathers the dashboard counters. Any failing lookup fails the
// whole call; partial numbers are never returned.
func (s *StatsService) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	menuItems, err := s.menuRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count menu items: %w", err)
	}

	reviews, err := s.reviewRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	orders, err := s.paymentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	revenue, err := s.paymentRepo.Revenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &domain.AdminStats{
		Users:     users,
		MenuItems: menuItems,
		Reviews:   reviews,
		Orders:    orders,
		Revenue:   revenue,
	}, nil
}
