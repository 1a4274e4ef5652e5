package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// PatientIDPrefix starts every generated patient ID.
const PatientIDPrefix = "user-patient-"

const patientCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MedicalHistory is free text kept with the patient record.
type MedicalHistory struct {
	Allergies         string `json:"allergies"`
	ChronicConditions string `json:"chronicConditions"`
}

// NextAppointment holds the date (YYYY-MM-DD) of the patient's next visit.
type NextAppointment struct {
	Next string `json:"next,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Patient is the full patient record, including medications and contacts.
type Patient struct {
	ID                string             `json:"id" validate:"required"`
	Name              string             `json:"name" validate:"required"`
	Email             string             `json:"email" validate:"required,email"`
	Role              Role               `json:"role" validate:"eq=patient"`
	Avatar            string             `json:"avatar"`
	Fallback          string             `json:"fallback"`
	PatientCode       string             `json:"patientCode"`
	CaretakerID       string             `json:"caretakerId,omitempty"`
	DoctorID          string             `json:"doctorId,omitempty"`
	Medications       []Medication       `json:"medications" validate:"dive"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" validate:"dive"`
	MedicalHistory    MedicalHistory     `json:"medicalHistory"`
	Appointments      NextAppointment    `json:"appointments"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NewPatientInput is what a doctor supplies to register a patient.
type NewPatientInput struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	DoctorID     string          `json:"doctorId"`
	CaretakerID  string          `json:"caretakerId,omitempty"`
	Appointments NextAppointment `json:"appointments"`
}

// NewPatient creates a patient with a generated ID and patient code and no
// medications or contacts yet.
func NewPatient(in NewPatientInput, now time.Time) (*Patient, error) {
	fallback := Initials(in.Name)
	p := &Patient{
		ID:                fmt.Sprintf("%s%d", PatientIDPrefix, now.UnixMilli()),
		Name:              strings.TrimSpace(in.Name),
		Email:             strings.TrimSpace(in.Email),
		Role:              RolePatient,
		Fallback:          fallback,
		PatientCode:       NewPatientCode(fallback),
		CaretakerID:       in.CaretakerID,
		DoctorID:          in.DoctorID,
		Medications:       []Medication{},
		EmergencyContacts: []EmergencyContact{},
		MedicalHistory:    MedicalHistory{Allergies: "None", ChronicConditions: "None"},
		Appointments:      in.Appointments,
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPatientCode returns "<fallback>-" followed by six random upper-case
// letters or digits.
func NewPatientCode(fallback string) string {
	var sb strings.Builder
	sb.WriteString(fallback)
	sb.WriteByte('-')
	for i := 0; i < 6; i++ {
		sb.WriteByte(patientCodeAlphabet[rand.IntN(len(patientCodeAlphabet))])
	}
	return sb.String()
}

// Validate checks the patient's fields.
func (p *Patient) Validate() error {
	return validateStruct("patient", p)
}

// User returns the account record mirrored into the users collection.
func (p *Patient) User() User {
	return User{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Role:        RolePatient,
		Avatar:      p.Avatar,
		Fallback:    p.Fallback,
		DoctorID:    p.DoctorID,
		CaretakerID: p.CaretakerID,
	}
}

// Medication returns the medication with the given ID.
func (p *Patient) Medication(id string) (*Medication, error) {
	for i := range p.Medications {
		if p.Medications[i].ID == id {
			return &p.Medications[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMedicationNotFound, id)
}

// AddMedication appends a medication.
func (p *Patient) AddMedication(m Medication, now time.Time) {
	p.Medications = append(p.Medications, m)
	p.UpdatedAt = now.UTC()
}

// RemoveMedication deletes the medication with the given ID.
func (p *Patient) RemoveMedication(id string, now time.Time) error {
	for i := range p.Medications {
		if p.Medications[i].ID == id {
			p.Medications = append(p.Medications[:i], p.Medications[i+1:]...)
			p.UpdatedAt = now.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMedicationNotFound, id)
}

// RecordDose marks a dose of one of the patient's medications.
func (p *Patient) RecordDose(medicationID, scheduled string, status DoseStatus, now time.Time) error {
	m, err := p.Medication(medicationID)
	if err != nil {
		return err
	}
	if err := m.RecordDose(scheduled, status); err != nil {
		return err
	}
	p.UpdatedAt = now.UTC()
	return nil
}

// Contact returns the emergency contact with the given ID.
func (p *Patient) Contact(id string) (*EmergencyContact, error) {
	for i := range p.EmergencyContacts {
		if p.EmergencyContacts[i].ID == id {
			return &p.EmergencyContacts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrContactNotFound, id)
}

// AddContact appends an emergency contact.
func (p *Patient) AddContact(c EmergencyContact, now time.Time) {
	p.EmergencyContacts = append(p.EmergencyContacts, c)
	p.UpdatedAt = now.UTC()
}

// RemoveContact deletes the emergency contact with the given ID.
func (p *Patient) RemoveContact(id string, now time.Time) error {
	for i := range p.EmergencyContacts {
		if p.EmergencyContacts[i].ID == id {
			p.EmergencyContacts = append(p.EmergencyContacts[:i], p.EmergencyContacts[i+1:]...)
			p.UpdatedAt = now.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContactNotFound, id)
}

// SetMedicalHistory replaces the patient's medical history.
func (p *Patient) SetMedicalHistory(h MedicalHistory, now time.Time) {
	p.MedicalHistory = h
	p.UpdatedAt = now.UTC()
}
