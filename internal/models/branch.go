package models

type Branch struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Manager     string `json:"manager,omitempty"`
	Active      bool   `json:"active"`
}
