package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"csemotors/web/internal/models"
	"csemotors/web/internal/repository"
	"csemotors/web/internal/validation"
)

type ReviewService struct {
	reviews   ReviewRepository
	vehicles  VehicleRepository
	validator *validation.Validator
	log       zerolog.Logger
}

func NewReviewService(reviews ReviewRepository, vehicles VehicleRepository, validator *validation.Validator, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		vehicles:  vehicles,
		validator: validator,
		log:       log,
	}
}

func (s *ReviewService) ForVehicle(ctx context.Context, vehicleID int) ([]models.Review, error) {
	reviews, err := s.reviews.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list vehicle reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ForAccount(ctx context.Context, accountID int) ([]models.Review, error) {
	reviews, err := s.reviews.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account reviews: %w", err)
	}
	return reviews, nil
}

// Add records a review written by actor. The author always comes from the
// identity, never from the submitted form.
func (s *ReviewService) Add(ctx context.Context, actor Actor, form validation.Review) (models.Review, models.Vehicle, error) {
	form.Normalize()
	if errs := s.validator.Check(form); len(errs) > 0 {
		return models.Review{}, models.Vehicle{}, errs
	}

	vehicleID, ok := validation.ParseID(form.InvID)
	if !ok {
		return models.Review{}, models.Vehicle{}, ErrInvalidID
	}
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if errors.Is(err, repository.ErrVehicleNotFound) {
		return models.Review{}, models.Vehicle{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, models.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}

	rating, _ := strconv.Atoi(form.Rating)
	created, err := s.reviews.Create(ctx, models.Review{
		Text:      form.Text,
		Rating:    rating,
		VehicleID: vehicleID,
		AccountID: actor.AccountID,
	})
	if err != nil {
		return models.Review{}, vehicle, fmt.Errorf("%w: create review: %v", ErrWriteFailed, err)
	}
	return created, vehicle, nil
}

// Editable loads a review the actor may change: their own, or any when the
// actor is an Admin.
func (s *ReviewService) Editable(ctx context.Context, actor Actor, reviewID int) (models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repository.ErrReviewNotFound) {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("get review: %w", err)
	}
	if review.AccountID != actor.AccountID && actor.Type != models.AccountTypeAdmin {
		return models.Review{}, ErrForbidden
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, actor Actor, form validation.ReviewUpdate) (models.Review, error) {
	form.Normalize()
	if errs := s.validator.Check(form); len(errs) > 0 {
		return models.Review{}, errs
	}

	reviewID, ok := validation.ParseID(form.ReviewID)
	if !ok {
		return models.Review{}, ErrInvalidID
	}
	review, err := s.Editable(ctx, actor, reviewID)
	if err != nil {
		return models.Review{}, err
	}

	rating, _ := strconv.Atoi(form.Rating)
	rows, err := s.reviews.Update(ctx, reviewID, form.Text, rating)
	if err != nil {
		return models.Review{}, fmt.Errorf("update review: %w", err)
	}
	if rows == 0 {
		return models.Review{}, ErrWriteFailed
	}

	review.Text = form.Text
	review.Rating = rating
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor Actor, rawID string) (models.Review, error) {
	reviewID, ok := validation.ParseID(rawID)
	if !ok {
		return models.Review{}, ErrInvalidID
	}
	review, err := s.Editable(ctx, actor, reviewID)
	if err != nil {
		return models.Review{}, err
	}

	rows, err := s.reviews.Delete(ctx, reviewID)
	if err != nil {
		return models.Review{}, fmt.Errorf("delete review: %w", err)
	}
	if rows == 0 {
		return models.Review{}, ErrNotFound
	}
	return review, nil
}
