package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"csemotors/web/internal/models"
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleSelect = `
	SELECT i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description, i.inv_image,
	       i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color, i.classification_id,
	       c.classification_name, i.created_at
	FROM inventory AS i
	JOIN classification AS c ON i.classification_id = c.classification_id
`

func scanVehicle(row pgx.Row) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Description,
		&v.Image,
		&v.Thumbnail,
		&v.Price,
		&v.Miles,
		&v.Color,
		&v.ClassificationID,
		&v.ClassificationName,
		&v.CreatedAt,
	)
	return v, err
}

func (r *VehicleRepository) ListByClassification(ctx context.Context, classificationID int) ([]models.Vehicle, error) {
	query := vehicleSelect + `
		WHERE i.classification_id = $1
		ORDER BY i.inv_make, i.inv_model
	`
	rows, err := r.pool.Query(ctx, query, classificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int) (models.Vehicle, error) {
	query := vehicleSelect + ` WHERE i.inv_id = $1`
	v, err := scanVehicle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Vehicle{}, ErrVehicleNotFound
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

func (r *VehicleRepository) Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	const query = `
		INSERT INTO inventory (
			classification_id, inv_make, inv_model, inv_description, inv_image,
			inv_thumbnail, inv_price, inv_year, inv_miles, inv_color
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING inv_id, created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		v.ClassificationID,
		v.Make,
		v.Model,
		v.Description,
		v.Image,
		v.Thumbnail,
		v.Price,
		v.Year,
		v.Miles,
		v.Color,
	).Scan(&v.ID, &v.CreatedAt); err != nil {
		return models.Vehicle{}, translateVehicleWrite(err)
	}
	return v, nil
}

// Update rewrites every editable column and reports how many rows changed.
func (r *VehicleRepository) Update(ctx context.Context, v models.Vehicle) (int64, error) {
	const query = `
		UPDATE inventory
		SET inv_make = $2,
		    inv_model = $3,
		    inv_description = $4,
		    inv_image = $5,
		    inv_thumbnail = $6,
		    inv_price = $7,
		    inv_year = $8,
		    inv_miles = $9,
		    inv_color = $10,
		    classification_id = $11
		WHERE inv_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		v.ID,
		v.Make,
		v.Model,
		v.Description,
		v.Image,
		v.Thumbnail,
		v.Price,
		v.Year,
		v.Miles,
		v.Color,
		v.ClassificationID,
	)
	if err != nil {
		return 0, translateVehicleWrite(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM inventory WHERE inv_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
