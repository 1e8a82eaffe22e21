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

type ShowtimeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	// FindByMovieID returns the showtimes of a movie ordered by date then time,
	// each with its theater attached.
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error)
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeSelect = `
		SELECT s.id, s.movie_id, s.theater_id, s.show_date,
		       to_char(s.show_time, 'HH24:MI'), s.price, s.available_seats, s.created_at,
		       t.id, t.name, t.location, t.created_at
		FROM showtimes s
		INNER JOIN theaters t ON t.id = s.theater_id
`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var st entity.Showtime
	err := row.Scan(
		&st.ID,
		&st.MovieID,
		&st.TheaterID,
		&st.ShowDate,
		&st.ShowTime,
		&st.Price,
		&st.AvailableSeats,
		&st.CreatedAt,
		&st.Theater.ID,
		&st.Theater.Name,
		&st.Theater.Location,
		&st.Theater.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := showtimeSelect + ` WHERE s.id = $1`

	st, err := scanShowtime(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	return st, nil
}

func (r *showtimeRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	query := showtimeSelect + ` WHERE s.movie_id = $1 ORDER BY s.show_date, s.show_time`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find showtimes by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find showtimes by movie ID %s: %w", movieID.String(), err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, st)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate showtime rows: %w", err)
	}

	return showtimes, nil
}
