package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"csemotors/web/internal/config"
	"csemotors/web/internal/middleware"
	"csemotors/web/internal/models"
	"csemotors/web/internal/service"
	"csemotors/web/internal/validation"
	"csemotors/web/internal/view"
)

const (
	msgLost  = "Sorry, You are lost. No, we appear to have lost that page."
	msgCrash = "Oh no! There was a crash. Maybe try a different route?"
)

// Notices queues one-shot messages for the next page a session renders.
type Notices interface {
	Add(ctx context.Context, sessionID string, message string) error
	Pop(ctx context.Context, sessionID string) ([]string, error)
}

// PingFunc reports whether a backing service answers.
type PingFunc func(ctx context.Context) error

type Dependencies struct {
	Log        zerolog.Logger
	Config     *config.AppConfig
	Notices    Notices
	Accounts   *service.AccountService
	Inventory  *service.InventoryService
	Reviews    *service.ReviewService
	Revocation middleware.RevocationChecker
	Health     map[string]PingFunc
}

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	notices    Notices
	accounts   *service.AccountService
	inventory  *service.InventoryService
	reviews    *service.ReviewService
	revocation middleware.RevocationChecker
	health     map[string]PingFunc
	cookie     middleware.CookieOptions
}

func NewHandlerSet(deps Dependencies) HandlerSet {
	return HandlerSet{
		log:        deps.Log,
		cfg:        deps.Config,
		notices:    deps.Notices,
		accounts:   deps.Accounts,
		inventory:  deps.Inventory,
		reviews:    deps.Reviews,
		revocation: deps.Revocation,
		health:     deps.Health,
		cookie: middleware.CookieOptions{
			Name:   deps.Config.Security.CookieName,
			Secure: !deps.Config.IsDevelopment(),
		},
	}
}

// Middleware is the per-request chain every route runs behind, outermost
// first.
func (h HandlerSet) Middleware() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Logger(h.log),
		middleware.Recovery(h.log, h),
		middleware.SecurityHeaders(),
		middleware.Session(h.cookie.Secure),
		middleware.Identify(h.cfg.Security.JWTSecret, h.cookie, h.revocation, h.log, h),
		middleware.CSRF(h.cfg.Security.CSRF, h.cfg.Security.CSRFSecret, h),
	}
}

func (h HandlerSet) Routes(router gin.IRouter) {
	router.GET("/", h.Home)
	router.GET("/healthz", h.Health)
	router.GET("/error", h.TriggerError)

	account := router.Group("/account")
	{
		account.GET("/login", h.LoginView)
		account.POST("/login", h.Login)
		account.GET("/registration", h.RegistrationView)
		account.POST("/register", h.Register)
		account.POST("/registration", h.Register)
		account.GET("/logout", h.Logout)

		member := account.Group("", middleware.RequireLogin(h))
		member.GET("/", h.AccountView)
		member.GET("/update", h.UpdateAccountView)
		member.POST("/update", h.UpdateAccount)
		member.POST("/update-password", h.UpdatePassword)
	}

	inv := router.Group("/inv")
	{
		inv.GET("/type/:classificationId", h.ByClassification)
		inv.GET("/detail/:invId", h.VehicleDetail)
		inv.GET("/getInventory/:classification_id", middleware.CORS(h.cfg.AllowCORSOrigins), h.InventoryJSON)
		inv.OPTIONS("/getInventory/:classification_id", middleware.CORS(h.cfg.AllowCORSOrigins))
		inv.POST("/add-review", middleware.RequireLogin(h), h.AddReview)

		staff := inv.Group("", middleware.RequireRoles(h, models.AccountTypeEmployee, models.AccountTypeAdmin))
		staff.GET("/", h.Management)
		staff.GET("/add-classification", h.AddClassificationView)
		staff.POST("/add-classification", h.AddClassification)
		staff.GET("/add-inventory", h.AddVehicleView)
		staff.POST("/add-inventory", h.AddVehicle)
		staff.GET("/edit/:inventoryId", h.EditVehicleView)
		staff.POST("/update", h.UpdateVehicle)
		staff.GET("/delete/:invId", h.DeleteVehicleView)
		staff.POST("/delete", h.DeleteVehicle)
	}

	reviews := router.Group("/reviews", middleware.RequireLogin(h))
	{
		reviews.POST("/add-review", h.AddReview)
		reviews.GET("/edit/:reviewId", h.EditReviewView)
		reviews.POST("/update", h.UpdateReview)
		reviews.GET("/delete/:reviewId", h.DeleteReviewView)
		reviews.POST("/delete", h.DeleteReview)
	}
}

// page assembles the data shared by every template. activeNav highlights a
// classification in the nav bar; zero highlights none.
func (h HandlerSet) page(c *gin.Context, title string, activeNav int) view.Page {
	ctx := c.Request.Context()

	classifications, err := h.inventory.Classifications(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("load nav classifications")
	}

	notices, err := h.notices.Pop(ctx, middleware.SessionID(c))
	if err != nil {
		h.log.Warn().Err(err).Msg("pop flash notices")
	}

	return view.Page{
		Title:     title,
		Nav:       view.BuildNav(classifications, activeNav),
		Notices:   notices,
		Identity:  middleware.Identity(c),
		CSRFToken: middleware.CSRFToken(c),
	}
}

func (h HandlerSet) html(c *gin.Context, status int, name string, page view.Page) {
	c.HTML(status, name, page)
}

// Fail renders the error page and stops the chain.
func (h HandlerSet) Fail(c *gin.Context, status int, message string) {
	page := h.page(c, http.StatusText(status), 0)
	page.Content = view.ErrorContent{Status: status, Message: message}
	h.html(c, status, "errors/error", page)
	c.Abort()
}

// Redirect queues notice for the next page and answers 303 See Other.
func (h HandlerSet) Redirect(c *gin.Context, location string, notice string) {
	if notice != "" {
		if err := h.notices.Add(c.Request.Context(), middleware.SessionID(c), notice); err != nil {
			h.log.Warn().Err(err).Msg("queue flash notice")
		}
	}
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

// serverError logs err against the request and renders the generic 500 page.
func (h HandlerSet) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.Fail(c, http.StatusInternalServerError, msgCrash)
}

func (h HandlerSet) NotFound(c *gin.Context) {
	h.Fail(c, http.StatusNotFound, msgLost)
}

func actor(c *gin.Context) service.Actor {
	identity := middleware.Identity(c)
	if identity == nil {
		return service.Actor{}
	}
	return service.Actor{AccountID: identity.AccountID, Type: identity.Type}
}

func validationErrors(err error) (validation.Errors, bool) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
