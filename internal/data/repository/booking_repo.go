package repository

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// UpdateStatus moves a pending booking to status and returns the updated
	// row, or nil when no pending booking with that id exists. Paying also
	// takes the seats out of the showtime and movie inventory.
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) (*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, user_id, movie_id, showtime_id, seats, seat_labels,
		       payment_method, total_amount, status, booked_at, updated_at`

func scanBooking(row pgx.Row, extra ...any) (*entity.Booking, error) {
	var booking entity.Booking
	dest := []any{
		&booking.ID,
		&booking.OrderID,
		&booking.UserID,
		&booking.MovieID,
		&booking.ShowtimeID,
		&booking.Seats,
		&booking.SeatLabels,
		&booking.PaymentMethod,
		&booking.TotalAmount,
		&booking.Status,
		&booking.BookedAt,
		&booking.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, order_id, user_id, movie_id, showtime_id, seats, seat_labels,
		                      payment_method, total_amount, status, booked_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	labels := booking.SeatLabels
	if labels == nil {
		labels = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.MovieID,
		booking.ShowtimeID,
		booking.Seats,
		labels,
		booking.PaymentMethod,
		booking.TotalAmount,
		booking.Status,
		booking.BookedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.order_id, b.user_id, b.movie_id, b.showtime_id, b.seats, b.seat_labels,
		       b.payment_method, b.total_amount, b.status, b.booked_at, b.updated_at,
		       m.title, m.poster
		FROM bookings b
		INNER JOIN movies m ON m.id = b.movie_id
		WHERE b.user_id = $1
		ORDER BY b.booked_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var (
			title  string
			poster *string
		)
		booking, err := scanBooking(rows, &title, &poster)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		booking.MovieTitle = title
		booking.MoviePoster = poster
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, query, bookingID, status, entity.BookingStatusPending))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if status == entity.BookingStatusPaid {
		if err := r.takeSeats(ctx, tx, booking); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking %s status: %w", bookingID.String(), err)
	}

	return booking, nil
}

// takeSeats decrements remaining inventory, never below zero.
func (r *bookingRepository) takeSeats(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error {
	if booking.ShowtimeID != nil {
		_, err := tx.Exec(ctx,
			`UPDATE showtimes SET available_seats = GREATEST(available_seats - $2, 0) WHERE id = $1`,
			*booking.ShowtimeID, booking.Seats,
		)
		if err != nil {
			r.log.Error("Failed to take showtime seats",
				zap.Error(err),
				zap.String("showtime_id", booking.ShowtimeID.String()),
			)
			return fmt.Errorf("take showtime seats: %w", err)
		}
	}

	_, err := tx.Exec(ctx,
		`UPDATE movies SET available_seats = GREATEST(available_seats - $2, 0), updated_at = NOW()
		 WHERE id = $1 AND available_seats IS NOT NULL`,
		booking.MovieID, booking.Seats,
	)
	if err != nil {
		r.log.Error("Failed to take movie seats",
			zap.Error(err),
			zap.String("movie_id", booking.MovieID.String()),
		)
		return fmt.Errorf("take movie seats: %w", err)
	}

	return nil
}
