// Package memory keeps the dealership tables in process memory. It backs the
// test suites and lets the web server run in development without postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"csemotors/web/internal/models"
	"csemotors/web/internal/repository"
)

type Store struct {
	mu              sync.RWMutex
	accounts        map[int]models.Account
	classifications map[int]models.Classification
	vehicles        map[int]models.Vehicle
	reviews         map[int]models.Review
	seq             int
	now             func() time.Time
}

func New() *Store {
	return &Store{
		accounts:        make(map[int]models.Account),
		classifications: make(map[int]models.Classification),
		vehicles:        make(map[int]models.Vehicle),
		reviews:         make(map[int]models.Review),
		now:             time.Now,
	}
}

// NewSeeded returns a store holding the default classifications.
func NewSeeded() *Store {
	s := New()
	for _, name := range []string{"Custom", "Sedan", "Sport", "SUV", "Truck"} {
		_, _ = s.Classifications().Create(context.Background(), name)
	}
	return s
}

func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{s: s}
}

func (s *Store) Classifications() *ClassificationRepository {
	return &ClassificationRepository{s: s}
}

func (s *Store) Vehicles() *VehicleRepository {
	return &VehicleRepository{s: s}
}

func (s *Store) Reviews() *ReviewRepository {
	return &ReviewRepository{s: s}
}

// SetAccountType changes an account role; production does this with SQL.
func (s *Store) SetAccountType(id int, t models.AccountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.Type = t
	s.accounts[id] = account
	return nil
}

type AccountRepository struct {
	s *Store
}

func (r *AccountRepository) Create(_ context.Context, account models.Account) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return models.Account{}, repository.ErrDuplicate
		}
	}
	account.ID = r.s.nextID()
	account.Type = models.AccountTypeClient
	account.CreatedAt = r.s.now()
	account.UpdatedAt = account.CreatedAt
	r.s.accounts[account.ID] = account
	return account, nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, account := range r.s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (r *AccountRepository) GetByID(_ context.Context, id int) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == repository.ErrAccountNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *AccountRepository) UpdateProfile(_ context.Context, id int, firstName, lastName, email string) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	for otherID, other := range r.s.accounts {
		if otherID != id && strings.EqualFold(other.Email, email) {
			return models.Account{}, repository.ErrDuplicate
		}
	}
	account.FirstName = firstName
	account.LastName = lastName
	account.Email = email
	account.UpdatedAt = r.s.now()
	r.s.accounts[id] = account
	return account, nil
}

func (r *AccountRepository) UpdatePassword(_ context.Context, id int, passwordHash []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = r.s.now()
	r.s.accounts[id] = account
	return nil
}

type ClassificationRepository struct {
	s *Store
}

func (r *ClassificationRepository) List(_ context.Context) ([]models.Classification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Classification, 0, len(r.s.classifications))
	for _, c := range r.s.classifications {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ClassificationRepository) Create(_ context.Context, name string) (models.Classification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.classifications {
		if c.Name == name {
			return models.Classification{}, repository.ErrDuplicate
		}
	}
	c := models.Classification{ID: r.s.nextID(), Name: name}
	r.s.classifications[c.ID] = c
	return c, nil
}

func (r *ClassificationRepository) NameExists(_ context.Context, name string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.classifications {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

type VehicleRepository struct {
	s *Store
}

// withClassification fills the joined column; callers hold the lock.
func (r *VehicleRepository) withClassification(v models.Vehicle) models.Vehicle {
	v.ClassificationName = r.s.classifications[v.ClassificationID].Name
	return v
}

func (r *VehicleRepository) ListByClassification(_ context.Context, classificationID int) ([]models.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Vehicle
	for _, v := range r.s.vehicles {
		if v.ClassificationID == classificationID {
			out = append(out, r.withClassification(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *VehicleRepository) GetByID(_ context.Context, id int) (models.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return models.Vehicle{}, repository.ErrVehicleNotFound
	}
	return r.withClassification(v), nil
}

func (r *VehicleRepository) Create(_ context.Context, v models.Vehicle) (models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.classifications[v.ClassificationID]; !ok {
		return models.Vehicle{}, repository.ErrClassificationNotFound
	}
	v.ID = r.s.nextID()
	v.CreatedAt = r.s.now()
	r.s.vehicles[v.ID] = v
	return r.withClassification(v), nil
}

func (r *VehicleRepository) Update(_ context.Context, v models.Vehicle) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.vehicles[v.ID]
	if !ok {
		return 0, nil
	}
	if _, ok := r.s.classifications[v.ClassificationID]; !ok {
		return 0, repository.ErrClassificationNotFound
	}
	v.CreatedAt = existing.CreatedAt
	r.s.vehicles[v.ID] = v
	return 1, nil
}

func (r *VehicleRepository) Delete(_ context.Context, id int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[id]; !ok {
		return 0, nil
	}
	delete(r.s.vehicles, id)
	for reviewID, review := range r.s.reviews {
		if review.VehicleID == id {
			delete(r.s.reviews, reviewID)
		}
	}
	return 1, nil
}

type ReviewRepository struct {
	s *Store
}

func newestFirst(reviews []models.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].Date.Equal(reviews[j].Date) {
			return reviews[i].ID > reviews[j].ID
		}
		return reviews[i].Date.After(reviews[j].Date)
	})
}

func (r *ReviewRepository) ListByVehicle(_ context.Context, vehicleID int) ([]models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Review
	for _, review := range r.s.reviews {
		if review.VehicleID == vehicleID {
			review.AuthorFirstName = r.s.accounts[review.AccountID].FirstName
			out = append(out, review)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *ReviewRepository) ListByAccount(_ context.Context, accountID int) ([]models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Review
	for _, review := range r.s.reviews {
		if review.AccountID == accountID {
			v := r.s.vehicles[review.VehicleID]
			review.VehicleMake = v.Make
			review.VehicleModel = v.Model
			out = append(out, review)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id int) (models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return models.Review{}, repository.ErrReviewNotFound
	}
	v := r.s.vehicles[review.VehicleID]
	review.VehicleMake = v.Make
	review.VehicleModel = v.Model
	review.VehicleYear = v.Year
	return review, nil
}

func (r *ReviewRepository) Create(_ context.Context, review models.Review) (models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[review.VehicleID]; !ok {
		return models.Review{}, repository.ErrVehicleNotFound
	}
	if _, ok := r.s.accounts[review.AccountID]; !ok {
		return models.Review{}, repository.ErrAccountNotFound
	}
	review.ID = r.s.nextID()
	review.Date = r.s.now()
	r.s.reviews[review.ID] = review
	return review, nil
}

func (r *ReviewRepository) Update(_ context.Context, id int, text string, rating int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return 0, nil
	}
	review.Text = text
	review.Rating = rating
	review.Date = r.s.now()
	r.s.reviews[id] = review
	return 1, nil
}

func (r *ReviewRepository) Delete(_ context.Context, id int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return 0, nil
	}
	delete(r.s.reviews, id)
	return 1, nil
}
