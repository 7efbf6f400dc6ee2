package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"csemotors/web/internal/config"
	"csemotors/web/internal/models"
	"csemotors/web/internal/repository"
	"csemotors/web/internal/security"
	"csemotors/web/internal/validation"
)

const (
	msgEmailRegistered = "Email exists. Please log in or use different email"
	msgEmailTaken      = "This email already exists. Please use a different email address."
)

type AccountService struct {
	accounts  AccountRepository
	revoker   TokenRevoker
	hasher    *security.PasswordHasher
	validator *validation.Validator
	cfg       *config.AppConfig
	log       zerolog.Logger
	now       func() time.Time
}

func NewAccountService(
	accounts AccountRepository,
	revoker TokenRevoker,
	hasher *security.PasswordHasher,
	validator *validation.Validator,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		revoker:   revoker,
		hasher:    hasher,
		validator: validator,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Session is a freshly signed identity token and the account it describes.
type Session struct {
	Token   string
	Claims  security.IdentityClaims
	Account models.Account
}

func (s *AccountService) Register(ctx context.Context, form validation.Registration) (models.Account, error) {
	form.Normalize()
	errs := s.validator.Check(form)

	if !errs.Has("account_email") {
		exists, err := s.accounts.EmailExists(ctx, form.Email)
		if err != nil {
			return models.Account{}, fmt.Errorf("check email: %w", err)
		}
		if exists {
			errs = append(errs, validation.FieldError{Field: "account_email", Message: msgEmailRegistered})
		}
	}
	if len(errs) > 0 {
		return models.Account{}, errs
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, models.Account{
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: hash,
		Type:         models.AccountTypeClient,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Account{}, validation.Errors{{Field: "account_email", Message: msgEmailRegistered}}
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: create account: %v", ErrWriteFailed, err)
	}
	if account.ID == 0 {
		return models.Account{}, fmt.Errorf("%w: create account returned no row", ErrWriteFailed)
	}

	s.log.Info().Int("account_id", account.ID).Msg("account registered")
	return account, nil
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AccountService) Login(ctx context.Context, form validation.Login) (Session, error) {
	form.Normalize()
	if errs := s.validator.Check(form); len(errs) > 0 {
		return Session{}, errs
	}

	account, err := s.accounts.FindByEmail(ctx, form.Email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("find account: %w", err)
	}

	ok, err := s.hasher.Verify(form.Password, account.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Int("account_id", account.ID).Msg("stored password hash unreadable")
		return Session{}, ErrInvalidCredentials
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	return s.Issue(account)
}

func (s *AccountService) Issue(account models.Account) (Session, error) {
	token, claims, err := security.GenerateIdentityToken(s.cfg.Security.JWTSecret, account, s.cfg.Security.TokenTTL)
	if err != nil {
		return Session{}, err
	}
	account.PasswordHash = nil
	return Session{Token: token, Claims: claims, Account: account}, nil
}

func (s *AccountService) Get(ctx context.Context, id int) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// UpdateProfile stores the new names and email and re-issues the identity
// token so the cookie reflects them.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID int, form validation.AccountUpdate) (Session, error) {
	form.Normalize()
	errs := s.validator.Check(form)

	current, err := s.Get(ctx, accountID)
	if err != nil {
		return Session{}, err
	}

	if !errs.Has("account_email") && form.Email != current.Email {
		exists, err := s.accounts.EmailExists(ctx, form.Email)
		if err != nil {
			return Session{}, fmt.Errorf("check email: %w", err)
		}
		if exists {
			errs = append(errs, validation.FieldError{Field: "account_email", Message: msgEmailTaken})
		}
	}
	if len(errs) > 0 {
		return Session{}, errs
	}

	updated, err := s.accounts.UpdateProfile(ctx, accountID, form.FirstName, form.LastName, form.Email)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return Session{}, validation.Errors{{Field: "account_email", Message: msgEmailTaken}}
	case errors.Is(err, repository.ErrAccountNotFound):
		return Session{}, ErrNotFound
	case err != nil:
		return Session{}, fmt.Errorf("%w: update account: %v", ErrWriteFailed, err)
	}

	return s.Issue(updated)
}

// ChangePassword stores the new hash and invalidates every token issued to
// the account so far, the caller's included.
func (s *AccountService) ChangePassword(ctx context.Context, claims *security.IdentityClaims, form validation.PasswordChange) error {
	form.Normalize()
	if errs := s.validator.Check(form); len(errs) > 0 {
		return errs
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.accounts.UpdatePassword(ctx, claims.AccountID, hash)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: update password: %v", ErrWriteFailed, err)
	}

	// The change only counts once older cookies are denied.
	revokeErr := errors.Join(
		s.revoker.RevokeToken(ctx, claims.ID, claims.Remaining()),
		s.revoker.RevokeAccount(ctx, claims.AccountID, s.now(), s.cfg.Security.TokenTTL),
	)
	if revokeErr != nil {
		s.log.Error().Err(revokeErr).Int("account_id", claims.AccountID).Msg("password changed but sessions not revoked")
		return fmt.Errorf("%w: %v", ErrRevocationFailed, revokeErr)
	}

	s.log.Info().Int("account_id", claims.AccountID).Msg("password changed")
	return nil
}

// Logout denies the token for the rest of its lifetime. Failures are logged
// only; the cookie is cleared regardless.
func (s *AccountService) Logout(ctx context.Context, claims *security.IdentityClaims) {
	if claims == nil {
		return
	}
	if err := s.revoker.RevokeToken(ctx, claims.ID, claims.Remaining()); err != nil {
		s.log.Warn().Err(err).Int("account_id", claims.AccountID).Msg("revoke token on logout failed")
	}
}
