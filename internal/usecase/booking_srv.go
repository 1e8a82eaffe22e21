package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingInput is a pending booking as the checkout computed it.
type CreateBookingInput struct {
	UserID     uuid.UUID
	MovieID    uuid.UUID
	ShowtimeID *uuid.UUID
	Seats      int      `validate:"min=1,max=10"`
	SeatLabels []string `validate:"omitempty,dive,min=2,max=3"`
	Method     entity.PaymentMethod
	Total      float64 `validate:"gte=0"`
}

// BookingLifecycle creates bookings and moves them out of pending.
type BookingLifecycle interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) (*entity.Booking, error)
}

type BookingService interface {
	BookingLifecycle

	// Public endpoints (butuh auth)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetPaymentMethods(ctx context.Context) []response.PaymentMethodResponse

	// Admin endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	SetBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*entity.Booking, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("must be logged in")
	}

	if errs := utils.ValidateStruct(in); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := s.now()
	booking := &entity.Booking{
		ID:          uuid.New(),
		OrderID:     utils.GenerateOrderID(now),
		UserID:      in.UserID,
		MovieID:     in.MovieID,
		ShowtimeID:  in.ShowtimeID,
		Seats:       in.Seats,
		SeatLabels:  in.SeatLabels,
		TotalAmount: in.Total,
		Status:      entity.BookingStatusPending,
		BookedAt:    now,
		UpdatedAt:   now,
	}
	if in.Method != "" {
		method := in.Method
		booking.PaymentMethod = &method
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", in.UserID.String()),
			zap.String("movie_id", in.MovieID.String()),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", in.UserID.String()),
		zap.Int("seats", booking.Seats),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	return booking, nil
}

// UpdateStatus only moves pending bookings; paid and cancelled are final.
func (s *bookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	if !entity.BookingStatusPending.CanTransitionTo(status) {
		return nil, fmt.Errorf("invalid booking status %s", status)
	}

	booking, err := s.repo.Booking.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if booking == nil {
		existing, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("get booking: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("booking %s not found", bookingID.String())
		}
		return nil, fmt.Errorf("booking is already %s, cannot change to %s", existing.Status, status)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(status)),
	)

	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	// Parse user ID
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	s.log.Debug("User bookings retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(bookingResponses, req.Page, limit, total), nil
}

func (s *bookingService) GetPaymentMethods(ctx context.Context) []response.PaymentMethodResponse {
	return paymentMethodResponses()
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) SetBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	status, err := entity.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, err
	}

	booking, err := s.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.SetBookingStatus(ctx, bookingID, &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCancelled),
	})
}
