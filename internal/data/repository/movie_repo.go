package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindAll(ctx context.Context, offset, limit int, genre *string) ([]*entity.Movie, error)
	CountAll(ctx context.Context, genre *string) (int64, error)
	FindFeatured(ctx context.Context) ([]*entity.Movie, error)

	// Availability reconciliation. Each returns the titles it changed.
	MarkHousefull(ctx context.Context) ([]string, error)
	PromoteReleased(ctx context.Context, today time.Time) ([]string, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, genre, rating, poster, description, price,
		       available_seats, availability, release_date, featured, created_at, updated_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Rating,
		&movie.Poster,
		&movie.Description,
		&movie.Price,
		&movie.AvailableSeats,
		&movie.Availability,
		&movie.ReleaseDate,
		&movie.Featured,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, offset, limit int, genre *string) ([]*entity.Movie, error) {
	// Build query dengan optional filter
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + movieColumns + ` FROM movies WHERE 1 = 1`)

	args := []any{}
	argCount := 1

	if genre != nil && *genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND $%d = ANY(genre)", argCount))
		args = append(args, *genre)
		argCount++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
			zap.Stringp("genre", genre),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer rows.Close()

	movies, err := r.collect(rows)
	if err != nil {
		return nil, err
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context, genre *string) (int64, error) {
	query := `SELECT COUNT(*) FROM movies`
	args := []any{}

	if genre != nil && *genre != "" {
		query += " WHERE $1 = ANY(genre)"
		args = append(args, *genre)
	}

	var total int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count movies",
			zap.Error(err),
			zap.Stringp("genre", genre),
		)
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return total, nil
}

func (r *movieRepository) FindFeatured(ctx context.Context) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE featured = TRUE ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find featured movies", zap.Error(err))
		return nil, fmt.Errorf("failed to find featured movies: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// MarkHousefull flags sold out movies. The guard keeps reruns from touching
// rows that are already housefull or ended.
func (r *movieRepository) MarkHousefull(ctx context.Context) ([]string, error) {
	query := `
		UPDATE movies
		SET availability = $1, updated_at = NOW()
		WHERE available_seats = 0
		  AND availability NOT IN ($1, $2)
		RETURNING title
	`

	titles, err := r.updateTitles(ctx, query, entity.AvailabilityHousefull, entity.AvailabilityEnded)
	if err != nil {
		r.log.Error("Failed to mark housefull movies", zap.Error(err))
		return nil, fmt.Errorf("mark housefull: %w", err)
	}

	return titles, nil
}

// PromoteReleased moves coming_soon movies whose release date has arrived
// to now_showing. today is compared as a calendar date.
func (r *movieRepository) PromoteReleased(ctx context.Context, today time.Time) ([]string, error) {
	query := `
		UPDATE movies
		SET availability = $1, updated_at = NOW()
		WHERE availability = $2
		  AND release_date <= $3::date
		RETURNING title
	`

	day := today.Format(time.DateOnly)
	titles, err := r.updateTitles(ctx, query, entity.AvailabilityNowShowing, entity.AvailabilityComingSoon, day)
	if err != nil {
		r.log.Error("Failed to promote released movies", zap.Error(err), zap.String("today", day))
		return nil, fmt.Errorf("promote released: %w", err)
	}

	return titles, nil
}

func (r *movieRepository) updateTitles(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}

	return titles, rows.Err()
}

func (r *movieRepository) collect(rows pgx.Rows) ([]*entity.Movie, error) {
	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return movies, nil
}
