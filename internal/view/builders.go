package view

import (
	"fmt"
	"strings"
	"time"

	"csemotors/web/internal/models"
)

const dateLayout = "January 2, 2006"

type NavItem struct {
	Name   string
	URL    string
	Title  string
	Active bool
}

// BuildNav returns the site navigation: Home followed by one entry per
// classification. activeID marks the classification being browsed.
func BuildNav(classifications []models.Classification, activeID int) []NavItem {
	items := make([]NavItem, 0, len(classifications)+1)
	items = append(items, NavItem{Name: "Home", URL: "/", Title: "Home page"})
	for _, c := range classifications {
		items = append(items, NavItem{
			Name:   c.Name,
			URL:    fmt.Sprintf("/inv/type/%d", c.ID),
			Title:  fmt.Sprintf("See our inventory of %s vehicles", c.Name),
			Active: c.ID == activeID,
		})
	}
	return items
}

type GridItem struct {
	ID        int
	Name      string
	DetailURL string
	Thumbnail string
	Alt       string
	Title     string
	Price     string
}

func BuildClassificationGrid(vehicles []models.Vehicle) []GridItem {
	items := make([]GridItem, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, GridItem{
			ID:        v.ID,
			Name:      v.Name(),
			DetailURL: fmt.Sprintf("/inv/detail/%d", v.ID),
			Thumbnail: v.Thumbnail,
			Alt:       fmt.Sprintf("Image of %s on CSE Motors", v.Name()),
			Title:     fmt.Sprintf("View %s details", v.Name()),
			Price:     FormatPrice(v.Price),
		})
	}
	return items
}

type Details struct {
	ID             int
	Name           string
	Heading        string
	Image          string
	Alt            string
	Price          string
	Year           string
	Mileage        string
	Description    string
	Color          string
	Classification string
}

func BuildDetails(v models.Vehicle) Details {
	return Details{
		ID:             v.ID,
		Name:           v.Name(),
		Heading:        v.Name() + " Details",
		Image:          v.Image,
		Alt:            fmt.Sprintf("%s image", v.Name()),
		Price:          FormatPrice(v.Price),
		Year:           FormatYear(v.Year),
		Mileage:        FormatMiles(v.Miles),
		Description:    v.Description,
		Color:          v.Color,
		Classification: v.ClassificationName,
	}
}

type ReviewItem struct {
	ID     int
	Author string
	Date   string
	Rating int
	Stars  string
	Text   string
}

func BuildReviewList(reviews []models.Review) []ReviewItem {
	items := make([]ReviewItem, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, ReviewItem{
			ID:     r.ID,
			Author: r.AuthorFirstName,
			Date:   FormatDate(r.Date),
			Rating: r.Rating,
			Stars:  stars(r.Rating),
			Text:   r.Text,
		})
	}
	return items
}

type Option struct {
	Value    int
	Label    string
	Selected bool
}

func BuildClassificationOptions(classifications []models.Classification, selected int) []Option {
	options := make([]Option, 0, len(classifications))
	for _, c := range classifications {
		options = append(options, Option{Value: c.ID, Label: c.Name, Selected: c.ID == selected})
	}
	return options
}

type AccountReview struct {
	ID        int
	Vehicle   string
	Date      string
	Rating    int
	Stars     string
	EditURL   string
	DeleteURL string
}

func BuildAccountReviews(reviews []models.Review) []AccountReview {
	items := make([]AccountReview, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, AccountReview{
			ID:        r.ID,
			Vehicle:   r.VehicleName(),
			Date:      FormatDate(r.Date),
			Rating:    r.Rating,
			Stars:     stars(r.Rating),
			EditURL:   fmt.Sprintf("/reviews/edit/%d", r.ID),
			DeleteURL: fmt.Sprintf("/reviews/delete/%d", r.ID),
		})
	}
	return items
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
