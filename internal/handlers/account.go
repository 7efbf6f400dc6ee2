package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"csemotors/web/internal/middleware"
	"csemotors/web/internal/service"
	"csemotors/web/internal/validation"
	"csemotors/web/internal/view"
)

const (
	msgBadCredentials     = "Please check your credentials and try again."
	msgRegistrationFailed = "Sorry, the registration failed."
	msgSessionsNotRevoked = "Your password was changed, but other sessions could not be signed out. Please change it again."
)

func (h HandlerSet) LoginView(c *gin.Context) {
	page := h.page(c, "Login", 0)
	page.Content = view.LoginContent{}
	h.html(c, http.StatusOK, "account/login", page)
}

func (h HandlerSet) Login(c *gin.Context) {
	var form validation.Login
	_ = c.ShouldBind(&form)

	session, err := h.accounts.Login(c.Request.Context(), form)
	if err != nil {
		page := h.page(c, "Login", 0)
		page.Content = view.LoginContent{Email: validation.NormalizeEmail(form.Email)}
		if errs, ok := validationErrors(err); ok {
			page.Errors = errs
		} else if errors.Is(err, service.ErrInvalidCredentials) {
			page.Notices = append(page.Notices, msgBadCredentials)
		} else {
			h.serverError(c, err)
			return
		}
		h.html(c, http.StatusBadRequest, "account/login", page)
		return
	}

	middleware.SetIdentityCookie(c, h.cookie, session.Token, h.cfg.Security.TokenTTL)
	h.Redirect(c, "/account/", "")
}

func (h HandlerSet) RegistrationView(c *gin.Context) {
	page := h.page(c, "Register", 0)
	page.Content = view.RegistrationContent{}
	h.html(c, http.StatusOK, "account/registration", page)
}

func (h HandlerSet) Register(c *gin.Context) {
	var form validation.Registration
	_ = c.ShouldBind(&form)

	account, err := h.accounts.Register(c.Request.Context(), form)
	if err != nil {
		form.Normalize()
		page := h.page(c, "Register", 0)
		page.Content = view.RegistrationContent{FirstName: form.FirstName, LastName: form.LastName, Email: form.Email}

		status := http.StatusBadRequest
		if errs, ok := validationErrors(err); ok {
			page.Errors = errs
		} else if errors.Is(err, service.ErrWriteFailed) {
			h.log.Error().Err(err).Msg("registration not stored")
			status = http.StatusNotImplemented
			page.Notices = append(page.Notices, msgRegistrationFailed)
		} else {
			h.serverError(c, err)
			return
		}
		h.html(c, status, "account/registration", page)
		return
	}

	h.Redirect(c, "/account/login", "Congratulations, you're registered "+account.FirstName+". Please log in.")
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.accounts.Logout(c.Request.Context(), middleware.Identity(c))
	middleware.ClearIdentityCookie(c, h.cookie)
	h.Redirect(c, "/", "You have been logged out.")
}

func (h HandlerSet) AccountView(c *gin.Context) {
	identity := middleware.Identity(c)

	reviews, err := h.reviews.ForAccount(c.Request.Context(), identity.AccountID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	page := h.page(c, "Account Management", 0)
	page.Content = view.AccountContent{
		FirstName:          identity.FirstName,
		CanManageInventory: identity.Type.CanManageInventory(),
		Reviews:            view.BuildAccountReviews(reviews),
	}
	h.html(c, http.StatusOK, "account/management", page)
}

func (h HandlerSet) UpdateAccountView(c *gin.Context) {
	identity := middleware.Identity(c)

	account, err := h.accounts.Get(c.Request.Context(), identity.AccountID)
	if errors.Is(err, service.ErrNotFound) {
		h.Fail(c, http.StatusNotFound, msgLost)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	page := h.page(c, "Edit Account", 0)
	page.Content = view.AccountUpdateContent{
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
	}
	h.html(c, http.StatusOK, "account/update", page)
}

// UpdateAccount always targets the logged in account; a submitted account_id
// is ignored.
func (h HandlerSet) UpdateAccount(c *gin.Context) {
	identity := middleware.Identity(c)

	var form validation.AccountUpdate
	_ = c.ShouldBind(&form)

	session, err := h.accounts.UpdateProfile(c.Request.Context(), identity.AccountID, form)
	if err != nil {
		form.Normalize()
		page := h.page(c, "Edit Account", 0)
		page.Content = view.AccountUpdateContent{
			AccountID: identity.AccountID,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
		}

		status := http.StatusBadRequest
		switch errs, ok := validationErrors(err); {
		case ok:
			page.Errors = errs
		case errors.Is(err, service.ErrWriteFailed):
			h.log.Error().Err(err).Int("account_id", identity.AccountID).Msg("account update not stored")
			status = http.StatusNotImplemented
			page.Notices = append(page.Notices, msgUpdateFailed)
		case errors.Is(err, service.ErrNotFound):
			h.Fail(c, http.StatusNotFound, msgLost)
			return
		default:
			h.serverError(c, err)
			return
		}
		h.html(c, status, "account/update", page)
		return
	}

	middleware.SetIdentityCookie(c, h.cookie, session.Token, h.cfg.Security.TokenTTL)
	h.Redirect(c, "/account/", "Congratulations, your information has been updated.")
}

// UpdatePassword ends every session of the account, so the visitor logs in
// again with the new password.
func (h HandlerSet) UpdatePassword(c *gin.Context) {
	identity := middleware.Identity(c)
	ctx := c.Request.Context()

	var form validation.PasswordChange
	_ = c.ShouldBind(&form)

	err := h.accounts.ChangePassword(ctx, identity, form)
	if err == nil {
		middleware.ClearIdentityCookie(c, h.cookie)
		h.Redirect(c, "/account/login", "Your password has been updated. Please log in again.")
		return
	}

	errs, ok := validationErrors(err)
	if !ok && !errors.Is(err, service.ErrWriteFailed) {
		if errors.Is(err, service.ErrRevocationFailed) {
			_ = c.Error(err)
			h.Fail(c, http.StatusInternalServerError, msgSessionsNotRevoked)
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			h.Fail(c, http.StatusNotFound, msgLost)
			return
		}
		h.serverError(c, err)
		return
	}

	account, getErr := h.accounts.Get(ctx, identity.AccountID)
	if getErr != nil {
		h.serverError(c, getErr)
		return
	}

	page := h.page(c, "Edit Account", 0)
	page.Content = view.AccountUpdateContent{
		AccountID:      account.ID,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		Email:          account.Email,
		PasswordErrors: errs,
	}

	status := http.StatusBadRequest
	if !ok {
		h.log.Error().Err(err).Int("account_id", identity.AccountID).Msg("password change not stored")
		status = http.StatusNotImplemented
		page.Notices = append(page.Notices, "Sorry, the password update failed.")
	}
	h.html(c, status, "account/update", page)
}
