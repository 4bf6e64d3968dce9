// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. Accounts are never deleted; Active false
// marks a deactivated one.
type Account struct {
	ID       string
	Username string
	Email    string
	// PasswordDigest is empty for accounts created through the external
	// provider.
	PasswordDigest  string
	Providers       ProviderSet
	ExternalSubject string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a *Account) HasPassword() bool { return a.PasswordDigest != "" }

// PublicAccount is what clients may see of an account.
type PublicAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Provider string `json:"auth_provider"`
}

func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Provider: a.Providers.String(),
	}
}
