package models

type Supplier struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	TaxID       string `json:"taxId,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Active      bool   `json:"active"`
}
