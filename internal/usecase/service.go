package usecase

import (
	"context"

	"salon-calendar/internal/data/repository"
	"salon-calendar/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Calendar CalendarService
}

// NewService builds the services. ctx scopes background work such as live view reloads.
func NewService(ctx context.Context, repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Calendar: NewCalendarService(ctx, NewCalendarSource(repo, log), config, log),
	}
}
