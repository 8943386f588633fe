package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Account is the identity-provider view of a customer. SessionActive may be
// false right after sign-up when the provider defers activation to email
// confirmation.
type Account struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	SessionActive bool   `json:"sessionActive"`
}

// Profile is the locally stored customer record keyed by identity id.
// CorrectedEmail keeps the customer's originally typed address when sign-up
// had to fall back to a placeholder, so support staff can recover it.
type Profile struct {
	AccountID      string    `json:"accountId" gorm:"primaryKey;type:varchar(64)"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Street         string    `json:"street"`
	Number         string    `json:"number"`
	Complement     string    `json:"complement"`
	Neighborhood   string    `json:"neighborhood"`
	City           string    `json:"city"`
	PostalCode     string    `json:"postalCode"`
	CorrectedEmail string    `json:"correctedEmail,omitempty"`
	EmailCorrected bool      `json:"emailCorrected"`
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// AccountRole associates an identity with a role; consulted to gate the
// admin surface.
type AccountRole struct {
	AccountID string `json:"accountId" gorm:"primaryKey;type:varchar(64)"`
	Role      Role   `json:"role" gorm:"type:varchar(16);default:'customer'"`
}
