package models

import "time"

type AccountType string

const (
	AccountTypeClient   AccountType = "Client"
	AccountTypeEmployee AccountType = "Employee"
	AccountTypeAdmin    AccountType = "Admin"
)

type Account struct {
	ID           int
	FirstName    string
	LastName     string
	Email        string
	PasswordHash []byte
	Type         AccountType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanManageInventory reports whether the account type may use the inventory
// management views.
func (t AccountType) CanManageInventory() bool {
	return t == AccountTypeEmployee || t == AccountTypeAdmin
}
