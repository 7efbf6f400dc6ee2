package models

import "time"

type Classification struct {
	ID   int
	Name string
}

// Vehicle is a row of the inventory table. Year, Price and Miles are nullable
// in storage.
type Vehicle struct {
	ID                 int
	Make               string
	Model              string
	Year               *int
	Description        string
	Image              string
	Thumbnail          string
	Price              *float64
	Miles              *int
	Color              string
	ClassificationID   int
	ClassificationName string
	CreatedAt          time.Time
}

func (v Vehicle) Name() string {
	return v.Make + " " + v.Model
}
