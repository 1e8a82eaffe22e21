package repository

import (
	"context"
	"fmt"
	"strings"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheaterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error)
	FindAll(ctx context.Context, limit, offset int, locationFilter *string) ([]*entity.Theater, error)
	CountAll(ctx context.Context, locationFilter *string) (int64, error)
}

type theaterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTheaterRepository(db database.PgxIface, log *zap.Logger) TheaterRepository {
	return &theaterRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater")),
	}
}

func (r *theaterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	query := `SELECT id, name, location, created_at FROM theaters WHERE id = $1`

	var theater entity.Theater
	err := r.db.QueryRow(ctx, query, id).Scan(
		&theater.ID,
		&theater.Name,
		&theater.Location,
		&theater.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by ID",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return nil, fmt.Errorf("find theater by ID %s: %w", id.String(), err)
	}

	return &theater, nil
}

func (r *theaterRepository) FindAll(ctx context.Context, limit, offset int, locationFilter *string) ([]*entity.Theater, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, location, created_at FROM theaters WHERE 1 = 1`)

	args := []any{}
	argCount := 1

	if locationFilter != nil && *locationFilter != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND location ILIKE $%d", argCount))
		args = append(args, "%"+*locationFilter+"%")
		argCount++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all theaters",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Stringp("location_filter", locationFilter),
		)
		return nil, fmt.Errorf("find all theaters limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var theaters []*entity.Theater
	for rows.Next() {
		var theater entity.Theater
		if err := rows.Scan(&theater.ID, &theater.Name, &theater.Location, &theater.CreatedAt); err != nil {
			r.log.Error("Failed to scan theater row", zap.Error(err))
			return nil, fmt.Errorf("scan theater row: %w", err)
		}
		theaters = append(theaters, &theater)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate theater rows: %w", err)
	}

	return theaters, nil
}

func (r *theaterRepository) CountAll(ctx context.Context, locationFilter *string) (int64, error) {
	query := `SELECT COUNT(*) FROM theaters`
	args := []any{}

	if locationFilter != nil && *locationFilter != "" {
		query += " WHERE location ILIKE $1"
		args = append(args, "%"+*locationFilter+"%")
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count theaters", zap.Error(err))
		return 0, fmt.Errorf("count theaters: %w", err)
	}

	return count, nil
}
