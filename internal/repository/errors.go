package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrClassificationNotFound = errors.New("classification not found")
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrReviewNotFound         = errors.New("review not found")
	ErrDuplicate              = errors.New("duplicate value")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// translateVehicleWrite maps a failed classification reference on insert or
// update to ErrClassificationNotFound.
func translateVehicleWrite(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrClassificationNotFound
	}
	return translate(err)
}
