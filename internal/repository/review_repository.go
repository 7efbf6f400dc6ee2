package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"csemotors/web/internal/models"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) ListByVehicle(ctx context.Context, vehicleID int) ([]models.Review, error) {
	const query = `
		SELECT r.review_id, r.review_text, r.review_rating, r.review_date,
		       r.inv_id, r.account_id, a.account_firstname
		FROM review AS r
		JOIN account AS a ON r.account_id = a.account_id
		WHERE r.inv_id = $1
		ORDER BY r.review_date DESC
	`
	rows, err := r.pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.Text,
			&review.Rating,
			&review.Date,
			&review.VehicleID,
			&review.AccountID,
			&review.AuthorFirstName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) ListByAccount(ctx context.Context, accountID int) ([]models.Review, error) {
	const query = `
		SELECT r.review_id, r.review_text, r.review_rating, r.review_date,
		       r.inv_id, r.account_id, i.inv_make, i.inv_model
		FROM review AS r
		JOIN inventory AS i ON r.inv_id = i.inv_id
		WHERE r.account_id = $1
		ORDER BY r.review_date DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.Text,
			&review.Rating,
			&review.Date,
			&review.VehicleID,
			&review.AccountID,
			&review.VehicleMake,
			&review.VehicleModel,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int) (models.Review, error) {
	const query = `
		SELECT r.review_id, r.review_text, r.review_rating, r.review_date,
		       r.inv_id, r.account_id, i.inv_make, i.inv_model, i.inv_year
		FROM review AS r
		JOIN inventory AS i ON r.inv_id = i.inv_id
		WHERE r.review_id = $1
	`
	var review models.Review
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.Text,
		&review.Rating,
		&review.Date,
		&review.VehicleID,
		&review.AccountID,
		&review.VehicleMake,
		&review.VehicleModel,
		&review.VehicleYear,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Review{}, ErrReviewNotFound
		}
		return models.Review{}, err
	}
	return review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review models.Review) (models.Review, error) {
	const query = `
		INSERT INTO review (review_text, review_rating, inv_id, account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING review_id, review_date
	`
	if err := r.pool.QueryRow(ctx, query,
		review.Text,
		review.Rating,
		review.VehicleID,
		review.AccountID,
	).Scan(&review.ID, &review.Date); err != nil {
		return models.Review{}, translate(err)
	}
	return review, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id int, text string, rating int) (int64, error) {
	const query = `
		UPDATE review
		SET review_text = $2, review_rating = $3, review_date = NOW()
		WHERE review_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, text, rating)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM review WHERE review_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
