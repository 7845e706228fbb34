// Package billing is a loader fixture that reuses a simple name.
package billing

import "github.com/griffnb/core-schemagen/internal/loader/testdata/models"

// User is the billing contact, distinct from models.User.
type User struct {
	Account models.User `json:"account"`
}

// Invoice is issued to a user.
type Invoice struct {
	To     User                           `json:"to"`
	Amount float64                        `json:"amount"`
	Lines  map[string]models.Page[string] `json:"lines"`
}
