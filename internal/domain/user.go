package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Role is the kind of account a user holds.
type Role string

// Possible roles.
const (
	RolePatient   Role = "patient"
	RoleDoctor    Role = "doctor"
	RoleCaretaker Role = "caretaker"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleCaretaker:
		return true
	default:
		return false
	}
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User is the account record shared by all roles. Patients are mirrored into
// the users collection with their doctor and caretaker links; caretakers carry
// the patient they look after and doctors their patient list.
type User struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Role        Role     `json:"role" validate:"required,oneof=patient doctor caretaker"`
	Avatar      string   `json:"avatar"`
	Fallback    string   `json:"fallback"`
	PatientID   string   `json:"patientId,omitempty"`
	PatientIDs  []string `json:"patientIds,omitempty"`
	DoctorID    string   `json:"doctorId,omitempty"`
	CaretakerID string   `json:"caretakerId,omitempty"`
}

// Validate checks the user's fields.
func (u *User) Validate() error {
	return validateStruct("user", u)
}

// Doctor is a clinician with a list of patients.
type Doctor struct {
	ID             string    `json:"id" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Role           Role      `json:"role" validate:"eq=doctor"`
	Avatar         string    `json:"avatar"`
	Fallback       string    `json:"fallback"`
	PatientIDs     []string  `json:"patientIds"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Validate checks the doctor's fields.
func (d *Doctor) Validate() error {
	return validateStruct("doctor", d)
}

// User returns the doctor's account record.
func (d *Doctor) User() User {
	return User{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		Role:       RoleDoctor,
		Avatar:     d.Avatar,
		Fallback:   d.Fallback,
		PatientIDs: d.PatientIDs,
	}
}

// Caretaker is a relative or carer who follows one patient.
type Caretaker struct {
	ID           string    `json:"id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Role         Role      `json:"role" validate:"eq=caretaker"`
	Avatar       string    `json:"avatar"`
	Fallback     string    `json:"fallback"`
	PatientID    string    `json:"patientId,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewCaretaker fills in the derived fields of a caretaker and validates it.
// The ID is kept when given.
func NewCaretaker(c Caretaker, id string, now time.Time) (*Caretaker, error) {
	if c.ID == "" {
		c.ID = id
	}
	c.Role = RoleCaretaker
	if c.Fallback == "" {
		c.Fallback = Initials(c.Name)
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the caretaker's fields.
func (c *Caretaker) Validate() error {
	return validateStruct("caretaker", c)
}

// User returns the caretaker's account record.
func (c *Caretaker) User() User {
	return User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      RoleCaretaker,
		Avatar:    c.Avatar,
		Fallback:  c.Fallback,
		PatientID: c.PatientID,
	}
}

// Initials returns the upper-cased first letters of the first two words of
// name: "John Doe" gives "JD", "Mom" gives "M".
func Initials(name string) string {
	words := strings.Fields(name)
	var sb strings.Builder
	for i := 0; i < len(words) && i < 2; i++ {
		r, _ := utf8.DecodeRuneInString(words[i])
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
