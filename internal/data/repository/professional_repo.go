package repository

import (
	"context"
	"fmt"

	"salon-calendar/internal/data/entity"
	"salon-calendar/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProfessionalRepository interface {
	FindAll(ctx context.Context) ([]*entity.Professional, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Professional, error)
}

type professionalRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfessionalRepository(db database.PgxIface, log *zap.Logger) ProfessionalRepository {
	return &professionalRepository{
		db:  db,
		log: log.With(zap.String("repository", "professional")),
	}
}

// FindAll lists every professional by name, placeholder rows included.
func (r *professionalRepository) FindAll(ctx context.Context) ([]*entity.Professional, error) {
	query := `SELECT id, name, created_at FROM professionals ORDER BY name, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find professionals", zap.Error(err))
		return nil, fmt.Errorf("find professionals: %w", err)
	}
	return r.collect(rows)
}

func (r *professionalRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Professional, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, created_at FROM professionals WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find professionals by IDs",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return nil, fmt.Errorf("find professionals by ids: %w", err)
	}
	return r.collect(rows)
}

func (r *professionalRepository) collect(rows pgx.Rows) ([]*entity.Professional, error) {
	defer rows.Close()

	var professionals []*entity.Professional
	for rows.Next() {
		var professional entity.Professional
		if err := rows.Scan(&professional.ID, &professional.Name, &professional.CreatedAt); err != nil {
			r.log.Error("Failed to scan professional row", zap.Error(err))
			return nil, fmt.Errorf("scan professional row: %w", err)
		}
		professionals = append(professionals, &professional)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professional rows: %w", err)
	}

	return professionals, nil
}
