package service

import (
	"context"
	"errors"
	"time"

	"csemotors/web/internal/models"
	"csemotors/web/internal/worker/tasks"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrWriteFailed        = errors.New("write failed")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidID          = errors.New("invalid id")
	ErrRevocationFailed   = errors.New("session revocation failed")
)

type AccountRepository interface {
	Create(ctx context.Context, account models.Account) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id int) (models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (models.Account, error)
	UpdatePassword(ctx context.Context, id int, passwordHash []byte) error
}

type ClassificationRepository interface {
	List(ctx context.Context) ([]models.Classification, error)
	Create(ctx context.Context, name string) (models.Classification, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

type VehicleRepository interface {
	ListByClassification(ctx context.Context, classificationID int) ([]models.Vehicle, error)
	GetByID(ctx context.Context, id int) (models.Vehicle, error)
	Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error)
	Update(ctx context.Context, v models.Vehicle) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type ReviewRepository interface {
	ListByVehicle(ctx context.Context, vehicleID int) ([]models.Review, error)
	ListByAccount(ctx context.Context, accountID int) ([]models.Review, error)
	GetByID(ctx context.Context, id int) (models.Review, error)
	Create(ctx context.Context, review models.Review) (models.Review, error)
	Update(ctx context.Context, id int, text string, rating int) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// ClassificationCache fronts ClassificationRepository.List for the nav bar.
type ClassificationCache interface {
	List(ctx context.Context) ([]models.Classification, error)
	Refresh(ctx context.Context) ([]models.Classification, error)
	Invalidate(ctx context.Context) error
}

type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	RevokeAccount(ctx context.Context, accountID int, at time.Time, ttl time.Duration) error
}

type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	KeyFor(imageURL string) (string, bool)
}

type TaskQueue interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}

// Actor is the authenticated account performing an action.
type Actor struct {
	AccountID int
	Type      models.AccountType
}
