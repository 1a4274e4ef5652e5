package domain

import "strings"

// EmergencyContact is someone to notify about a patient.
type EmergencyContact struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required,min=7"`
	Initials string `json:"initials"`
}

// NewEmergencyContact creates a contact with derived initials.
func NewEmergencyContact(id, name, phone string) (*EmergencyContact, error) {
	c := &EmergencyContact{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
		Initials: Initials(name),
	}
	if err := validateStruct("emergency contact", c); err != nil {
		return nil, err
	}
	return c, nil
}

// PhoneDigits strips everything but digits from a phone number.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
