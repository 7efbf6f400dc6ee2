package models

import "time"

type Review struct {
	ID        int
	Text      string
	Rating    int
	Date      time.Time
	VehicleID int
	AccountID int

	// Joined columns, populated depending on the query.
	AuthorFirstName string
	VehicleMake     string
	VehicleModel    string
	VehicleYear     *int
}

func (r Review) VehicleName() string {
	return r.VehicleMake + " " + r.VehicleModel
}
