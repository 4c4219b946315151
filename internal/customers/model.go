package customers

import "time"

// Category classifies customers for concentration reporting.
const (
	CategoryA = "A"
	CategoryB = "B"
	CategoryC = "C"
)

// Customer is a buyer of the production output.
type Customer struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Category    string    `json:"category" db:"category"`
	Phone       string    `json:"phone" db:"phone"`
	Email       string    `json:"email" db:"email"`
	Address     string    `json:"address" db:"address"`
	Notes       string    `json:"notes" db:"notes"`
	Archived    bool      `json:"archived" db:"archived"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName prefers the company name, matching how orders reference
// customers.
func (c Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.Name
}
