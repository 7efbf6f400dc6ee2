package validation

import (
	"strconv"
	"strings"
)

const strongPasswordMessage = "Password must be at least 12 characters with 1 uppercase, 1 lowercase, 1 number, and 1 special character."

var nameMessages = Messages{
	"account_firstname.required":   "Please provide a first name.",
	"account_firstname.personname": "First name must contain only letters.",
	"account_lastname.required":    "Please provide a last name.",
	"account_lastname.personname":  "Last name must contain only letters.",
	"account_email.required":       "Email is required.",
	"account_email.email":          "A valid email is required.",
}

type Registration struct {
	FirstName string `form:"account_firstname" validate:"required,personname"`
	LastName  string `form:"account_lastname" validate:"required,personname"`
	Email     string `form:"account_email" validate:"required,email"`
	Password  string `form:"account_password" validate:"required,strongpassword"`
}

func (f *Registration) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = NormalizeEmail(f.Email)
	f.Password = strings.TrimSpace(f.Password)
}

func (Registration) Messages() Messages {
	return merge(nameMessages, Messages{
		"account_password.required":       "Password is required.",
		"account_password.strongpassword": strongPasswordMessage,
	})
}

type Login struct {
	Email    string `form:"account_email" validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

func (f *Login) Normalize() {
	f.Email = NormalizeEmail(f.Email)
	f.Password = strings.TrimSpace(f.Password)
}

func (Login) Messages() Messages {
	return Messages{
		"account_email.required":    "Email is required.",
		"account_email.email":       "A valid email is required.",
		"account_password.required": "Password is required.",
	}
}

type AccountUpdate struct {
	FirstName string `form:"account_firstname" validate:"required,personname"`
	LastName  string `form:"account_lastname" validate:"required,personname"`
	Email     string `form:"account_email" validate:"required,email"`
}

func (f *AccountUpdate) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = NormalizeEmail(f.Email)
}

func (AccountUpdate) Messages() Messages {
	return nameMessages
}

type PasswordChange struct {
	Password string `form:"account_password" validate:"required,strongpassword"`
}

func (f *PasswordChange) Normalize() {
	f.Password = strings.TrimSpace(f.Password)
}

func (PasswordChange) Messages() Messages {
	return Messages{
		"account_password.required":       "Password is required.",
		"account_password.strongpassword": strongPasswordMessage,
	}
}

type Classification struct {
	Name string `form:"classification_name" validate:"required,startsalpha,classname"`
}

func (f *Classification) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

func (Classification) Messages() Messages {
	return Messages{
		"classification_name.required":    "Please provide a classification name.",
		"classification_name.startsalpha": "Name must start with a letter and cannot contain spaces or special characters.",
		"classification_name.classname":   "Classification name cannot contain spaces or special characters.",
	}
}

// Vehicle keeps every field as submitted so a failed form can be shown again
// exactly as typed.
type Vehicle struct {
	Make             string `form:"inv_make" validate:"min=3,alphanumspace"`
	Model            string `form:"inv_model" validate:"min=3,alphanumspace"`
	Year             string `form:"inv_year" validate:"len=4,number"`
	Description      string `form:"inv_description" validate:"min=10"`
	Image            string `form:"inv_image" validate:"required"`
	Thumbnail        string `form:"inv_thumbnail" validate:"required"`
	Price            string `form:"inv_price" validate:"numeric"`
	Miles            string `form:"inv_miles" validate:"number"`
	Color            string `form:"inv_color" validate:"required"`
	ClassificationID string `form:"classification_id" validate:"number"`
}

func (f *Vehicle) Normalize() {
	for _, field := range []*string{
		&f.Make, &f.Model, &f.Year, &f.Description, &f.Image,
		&f.Thumbnail, &f.Price, &f.Miles, &f.Color, &f.ClassificationID,
	} {
		*field = strings.TrimSpace(*field)
	}
}

func (Vehicle) Messages() Messages {
	return Messages{
		"inv_make.min":            "Please provide the Make (minimum 3 characters).",
		"inv_make.alphanumspace":  "Make must only contain alphanumeric characters and spaces.",
		"inv_model.min":           "Please provide the Model (minimum 3 characters).",
		"inv_model.alphanumspace": "Model must only contain alphanumeric characters and spaces.",
		"inv_year.len":            "Please provide a 4-digit year.",
		"inv_year.number":         "Year must be a number.",
		"inv_description":         "Please provide a description (minimum 10 characters).",
		"inv_image":               "Image path is required.",
		"inv_thumbnail":           "Thumbnail path is required.",
		"inv_price":               "Price must be a valid number.",
		"inv_miles":               "Miles must be a valid whole number (no decimals).",
		"inv_color":               "Color is required.",
		"classification_id":       "Classification is required and must be a valid ID.",
	}
}

type Review struct {
	Text   string `form:"review_text" validate:"required"`
	Rating string `form:"review_rating" validate:"oneof=1 2 3 4 5"`
	InvID  string `form:"inv_id" validate:"number"`
}

func (f *Review) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
	f.Rating = strings.TrimSpace(f.Rating)
	f.InvID = strings.TrimSpace(f.InvID)
}

func (Review) Messages() Messages {
	return Messages{
		"review_text":   "Please write your review before submitting.",
		"review_rating": "The rating must be an integer between 1 and 5.",
		"inv_id":        "Invalid inventory ID.",
	}
}

type ReviewUpdate struct {
	Text     string `form:"review_text" validate:"required"`
	Rating   string `form:"review_rating" validate:"oneof=1 2 3 4 5"`
	ReviewID string `form:"review_id" validate:"number"`
}

func (f *ReviewUpdate) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
	f.Rating = strings.TrimSpace(f.Rating)
	f.ReviewID = strings.TrimSpace(f.ReviewID)
}

func (ReviewUpdate) Messages() Messages {
	return Messages{
		"review_text":   "Please write your review.",
		"review_rating": "The rating must be an integer between 1 and 5.",
		"review_id":     "Invalid review ID.",
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseID reads a positive identifier that fits an INTEGER column.
func ParseID(raw string) (int, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int(id), true
}

// OptionalInt returns nil for blank or unparsable input.
func OptionalInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

// OptionalFloat returns nil for blank or unparsable input.
func OptionalFloat(raw string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &f
}

func merge(sets ...Messages) Messages {
	out := Messages{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}
