package view

import (
	"csemotors/web/internal/security"
	"csemotors/web/internal/validation"
)

// Page is the data every template receives. Content holds the page specific
// view-model.
type Page struct {
	Title     string
	Nav       []NavItem
	Notices   []string
	Identity  *security.IdentityClaims
	CSRFToken string
	Errors    validation.Errors
	Content   any
}

// LoggedIn and CanManageInventory drive the header links.
func (p Page) LoggedIn() bool {
	return p.Identity != nil
}

func (p Page) CanManageInventory() bool {
	return p.Identity != nil && p.Identity.Type.CanManageInventory()
}

type LoginContent struct {
	Email string
}

type RegistrationContent struct {
	FirstName string
	LastName  string
	Email     string
}

type AccountContent struct {
	FirstName          string
	CanManageInventory bool
	Reviews            []AccountReview
}

type AccountUpdateContent struct {
	AccountID      int
	FirstName      string
	LastName       string
	Email          string
	PasswordErrors validation.Errors
}

type ClassificationContent struct {
	Grid []GridItem
}

type DetailContent struct {
	Vehicle       Details
	Reviews       []ReviewItem
	CanReview     bool
	ReviewText    string
	ReviewRating  string
	ReviewerLabel string
}

type ManagementContent struct {
	Options  []Option
	Vehicles []GridItem
	Selected int
}

type ClassificationFormContent struct {
	Name string
}

// VehicleFormContent backs the add and edit inventory forms.
type VehicleFormContent struct {
	InvID         int
	Form          validation.Vehicle
	Options       []Option
	UploadEnabled bool
}

type VehicleDeleteContent struct {
	InvID int
	Name  string
	Year  string
	Price string
}

type ReviewFormContent struct {
	ReviewID int
	Vehicle  string
	Text     string
	Rating   string
}

type ReviewDeleteContent struct {
	ReviewID int
	Vehicle  string
	Text     string
	Date     string
}

type ErrorContent struct {
	Status  int
	Message string
}
