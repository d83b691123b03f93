// Package model defines domain entities for the application.
package model

// User is a customer that owns orders.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
