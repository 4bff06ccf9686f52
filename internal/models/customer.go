package models

import "time"

type Customer struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	Address        string    `json:"address,omitempty"`
	LoyaltyPoints  int       `json:"loyaltyPoints"`
	RegisteredDate time.Time `json:"registeredDate"`
}
