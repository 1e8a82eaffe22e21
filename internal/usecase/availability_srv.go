package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/response"

	"go.uber.org/zap"
)

// AvailabilityService keeps movies.availability in line with seat counts and
// release dates.
type AvailabilityService interface {
	// Reconcile runs both rules once. Each rule is a single guarded update, so
	// running it again right away changes nothing.
	Reconcile(ctx context.Context) (*response.AvailabilityReport, error)
}

type availabilityService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) Reconcile(ctx context.Context) (*response.AvailabilityReport, error) {
	now := s.now().UTC()
	var errs []error

	// Rule 1: sold out movies become housefull (ended stays ended)
	housefull, err := s.repo.Movie.MarkHousefull(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("mark housefull: %w", err))
	}

	// Rule 2: coming soon movies whose release date has passed are now showing
	nowShowing, err := s.repo.Movie.PromoteReleased(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("promote released: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("Availability update failed", zap.Error(err))
		return nil, err
	}

	if housefull == nil {
		housefull = []string{}
	}
	if nowShowing == nil {
		nowShowing = []string{}
	}

	s.log.Info("Availability updated",
		zap.Strings("housefull", housefull),
		zap.Strings("now_showing", nowShowing),
	)

	return &response.AvailabilityReport{
		Timestamp:  now,
		Housefull:  housefull,
		NowShowing: nowShowing,
	}, nil
}
