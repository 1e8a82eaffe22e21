package usecase

import (
	"context"
	"fmt"

	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TheaterService interface {
	GetTheaters(ctx context.Context, req *request.TheaterListRequest) (*response.PaginatedResponse[response.TheaterResponse], error)
	GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error)
}

type theaterService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTheaterService(repo *repository.Repository, log *zap.Logger) TheaterService {
	return &theaterService{
		repo: repo,
		log:  log.With(zap.String("service", "theater")),
	}
}

func (s *theaterService) GetTheaters(ctx context.Context, req *request.TheaterListRequest) (*response.PaginatedResponse[response.TheaterResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	theaters, err := s.repo.Theater.FindAll(ctx, limit, offset, req.Location)
	if err != nil {
		s.log.Error("Failed to get theaters from repository",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
			zap.Stringp("location", req.Location),
		)
		return nil, fmt.Errorf("get theaters: %w", err)
	}

	total, err := s.repo.Theater.CountAll(ctx, req.Location)
	if err != nil {
		s.log.Error("Failed to count theaters",
			zap.Error(err),
			zap.Stringp("location", req.Location),
		)
		return nil, fmt.Errorf("count theaters: %w", err)
	}

	theaterResponses := make([]response.TheaterResponse, len(theaters))
	for i, theater := range theaters {
		theaterResponses[i] = response.TheaterToResponse(theater)
	}

	return response.NewPaginatedResponse(theaterResponses, req.Page, limit, total), nil
}

func (s *theaterService) GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error) {
	id, err := uuid.Parse(theaterID)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID format %s: %w", theaterID, err)
	}

	theater, err := s.repo.Theater.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get theater by ID",
			zap.Error(err),
			zap.String("theater_id", theaterID),
		)
		return nil, fmt.Errorf("get theater %s: %w", theaterID, err)
	}
	if theater == nil {
		return nil, fmt.Errorf("theater %s not found", theaterID)
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}
