package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"csemotors/web/internal/models"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `
	account_id, account_firstname, account_lastname, account_email, account_password,
	account_type, created_at, updated_at
`

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	if err := row.Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.PasswordHash,
		&account.Type,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

// Create inserts a new account. The account type always starts as Client.
func (r *AccountRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
		INSERT INTO account (
			account_firstname, account_lastname, account_email, account_password, account_type
		) VALUES (
			$1, $2, $3, $4, 'Client'
		)
		RETURNING ` + accountColumns

	created, err := scanAccount(r.pool.QueryRow(ctx, query,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
	))
	if err != nil {
		return models.Account{}, translate(err)
	}
	return created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_email = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) GetByID(ctx context.Context, id int) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM account WHERE account_email = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (models.Account, error) {
	query := `
		UPDATE account
		SET account_firstname = $2,
		    account_lastname = $3,
		    account_email = $4,
		    updated_at = NOW()
		WHERE account_id = $1
		RETURNING ` + accountColumns

	updated, err := scanAccount(r.pool.QueryRow(ctx, query, id, firstName, lastName, email))
	if err != nil {
		return models.Account{}, translate(err)
	}
	return updated, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id int, passwordHash []byte) error {
	const query = `
		UPDATE account SET account_password = $2, updated_at = NOW() WHERE account_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
