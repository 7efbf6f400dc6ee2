package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"csemotors/web/internal/models"
)

type ClassificationRepository struct {
	pool *pgxpool.Pool
}

func NewClassificationRepository(pool *pgxpool.Pool) *ClassificationRepository {
	return &ClassificationRepository{pool: pool}
}

func (r *ClassificationRepository) List(ctx context.Context) ([]models.Classification, error) {
	const query = `
		SELECT classification_id, classification_name
		FROM classification
		ORDER BY classification_name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classifications []models.Classification
	for rows.Next() {
		var c models.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		classifications = append(classifications, c)
	}
	return classifications, rows.Err()
}

func (r *ClassificationRepository) Create(ctx context.Context, name string) (models.Classification, error) {
	const query = `
		INSERT INTO classification (classification_name) VALUES ($1)
		RETURNING classification_id, classification_name
	`
	var c models.Classification
	if err := r.pool.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name); err != nil {
		return models.Classification{}, translate(err)
	}
	return c, nil
}

func (r *ClassificationRepository) NameExists(ctx context.Context, name string) (bool, error) {
	const query = `
		SELECT EXISTS (SELECT 1 FROM classification WHERE LOWER(classification_name) = LOWER($1))
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
