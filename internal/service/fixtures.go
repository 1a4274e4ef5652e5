package service

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"gopkg.in/yaml.v2"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

const dateLayout = "2006-01-02"

// Fixtures is the demo data set resolved against a point in time.
type Fixtures struct {
	Doctors      []domain.Doctor
	Caretakers   []domain.Caretaker
	Patients     []domain.Patient
	Appointments []domain.Appointment
}

// Users returns the account record of every fixture person.
func (f *Fixtures) Users() []domain.User {
	users := make([]domain.User, 0, len(f.Patients)+len(f.Doctors)+len(f.Caretakers))
	for i := range f.Patients {
		users = append(users, f.Patients[i].User())
	}
	for i := range f.Doctors {
		users = append(users, f.Doctors[i].User())
	}
	for i := range f.Caretakers {
		users = append(users, f.Caretakers[i].User())
	}
	return users
}

type fixturePerson struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Avatar   string `yaml:"avatar"`
	Fallback string `yaml:"fallback"`
}

type fixtureDoctor struct {
	fixturePerson  `yaml:",inline"`
	PatientIDs     []string `yaml:"patientIds"`
	Specialization string   `yaml:"specialization"`
}

type fixtureCaretaker struct {
	fixturePerson `yaml:",inline"`
	PatientID     string `yaml:"patientId"`
	Relationship  string `yaml:"relationship"`
}

type fixtureDose struct {
	Scheduled string `yaml:"scheduled"`
	Status    string `yaml:"status"`
}

type fixtureMedication struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Dosage       string        `yaml:"dosage"`
	Frequency    string        `yaml:"frequency"`
	StartDaysAgo int           `yaml:"startDaysAgo"`
	Timings      []string      `yaml:"timings"`
	Doses        []fixtureDose `yaml:"doses"`
}

type fixtureContact struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
}

type fixturePatient struct {
	fixturePerson         `yaml:",inline"`
	PatientCode           string              `yaml:"patientCode"`
	CaretakerID           string              `yaml:"caretakerId"`
	DoctorID              string              `yaml:"doctorId"`
	Medications           []fixtureMedication `yaml:"medications"`
	EmergencyContacts     []fixtureContact    `yaml:"emergencyContacts"`
	MedicalHistory        struct {
		Allergies         string `yaml:"allergies"`
		ChronicConditions string `yaml:"chronicConditions"`
	} `yaml:"medicalHistory"`
	NextAppointmentInDays int `yaml:"nextAppointmentInDays"`
}

type fixtureAppointment struct {
	ID          string `yaml:"id"`
	PatientID   string `yaml:"patientId"`
	DoctorID    string `yaml:"doctorId"`
	InDays      int    `yaml:"inDays"`
	Time        string `yaml:"time"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

type fixtureFile struct {
	Doctors      []fixtureDoctor      `yaml:"doctors"`
	Caretakers   []fixtureCaretaker   `yaml:"caretakers"`
	Patients     []fixturePatient     `yaml:"patients"`
	Appointments []fixtureAppointment `yaml:"appointments"`
}

// DefaultFixtures loads the embedded demo data as of now.
func DefaultFixtures(now time.Time) (*Fixtures, error) {
	return LoadFixtures(fixturesYAML, now)
}

// LoadFixtures parses a fixture file and resolves its relative dates
// against now. Every record is validated.
func LoadFixtures(data []byte, now time.Time) (*Fixtures, error) {
	var file fixtureFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	now = now.UTC()
	f := &Fixtures{
		Doctors:      make([]domain.Doctor, 0, len(file.Doctors)),
		Caretakers:   make([]domain.Caretaker, 0, len(file.Caretakers)),
		Patients:     make([]domain.Patient, 0, len(file.Patients)),
		Appointments: make([]domain.Appointment, 0, len(file.Appointments)),
	}

	for _, d := range file.Doctors {
		doctor := domain.Doctor{
			ID:             d.ID,
			Name:           d.Name,
			Email:          d.Email,
			Role:           domain.RoleDoctor,
			Avatar:         d.Avatar,
			Fallback:       fallbackFor(d.fixturePerson),
			PatientIDs:     append([]string{}, d.PatientIDs...),
			Specialization: d.Specialization,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := doctor.Validate(); err != nil {
			return nil, fmt.Errorf("fixture doctor %s: %w", d.ID, err)
		}
		f.Doctors = append(f.Doctors, doctor)
	}

	for _, c := range file.Caretakers {
		caretaker := domain.Caretaker{
			ID:           c.ID,
			Name:         c.Name,
			Email:        c.Email,
			Role:         domain.RoleCaretaker,
			Avatar:       c.Avatar,
			Fallback:     fallbackFor(c.fixturePerson),
			PatientID:    c.PatientID,
			Relationship: c.Relationship,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := caretaker.Validate(); err != nil {
			return nil, fmt.Errorf("fixture caretaker %s: %w", c.ID, err)
		}
		f.Caretakers = append(f.Caretakers, caretaker)
	}

	for _, p := range file.Patients {
		patient, err := p.resolve(now)
		if err != nil {
			return nil, fmt.Errorf("fixture patient %s: %w", p.ID, err)
		}
		f.Patients = append(f.Patients, *patient)
	}

	for _, a := range file.Appointments {
		appointment := domain.Appointment{
			ID:          a.ID,
			PatientID:   a.PatientID,
			DoctorID:    a.DoctorID,
			Date:        now.AddDate(0, 0, a.InDays).Format(dateLayout),
			Time:        a.Time,
			Description: a.Description,
			Status:      domain.AppointmentStatus(a.Status),
		}
		if err := appointment.Validate(); err != nil {
			return nil, fmt.Errorf("fixture appointment %s: %w", a.ID, err)
		}
		f.Appointments = append(f.Appointments, appointment)
	}

	return f, nil
}

func (p fixturePatient) resolve(now time.Time) (*domain.Patient, error) {
	patient := &domain.Patient{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		Role:              domain.RolePatient,
		Avatar:            p.Avatar,
		Fallback:          fallbackFor(p.fixturePerson),
		PatientCode:       p.PatientCode,
		CaretakerID:       p.CaretakerID,
		DoctorID:          p.DoctorID,
		Medications:       make([]domain.Medication, 0, len(p.Medications)),
		EmergencyContacts: make([]domain.EmergencyContact, 0, len(p.EmergencyContacts)),
		MedicalHistory: domain.MedicalHistory{
			Allergies:         p.MedicalHistory.Allergies,
			ChronicConditions: p.MedicalHistory.ChronicConditions,
		},
		Appointments: domain.NextAppointment{
			Next: now.AddDate(0, 0, p.NextAppointmentInDays).Format(dateLayout),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if patient.PatientCode == "" {
		patient.PatientCode = domain.NewPatientCode(patient.Fallback)
	}

	for _, m := range p.Medications {
		med := domain.Medication{
			ID:        m.ID,
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Timings:   append([]string{}, m.Timings...),
			StartDate: now.AddDate(0, 0, -m.StartDaysAgo),
			Doses:     make([]domain.Dose, 0, len(m.Doses)),
		}
		for _, d := range m.Doses {
			med.Doses = append(med.Doses, domain.Dose{Scheduled: d.Scheduled, Status: domain.DoseStatus(d.Status)})
		}
		patient.Medications = append(patient.Medications, med)
	}

	for _, c := range p.EmergencyContacts {
		contact, err := domain.NewEmergencyContact(c.ID, c.Name, c.Phone)
		if err != nil {
			return nil, err
		}
		patient.EmergencyContacts = append(patient.EmergencyContacts, *contact)
	}

	if err := patient.Validate(); err != nil {
		return nil, err
	}
	return patient, nil
}

func fallbackFor(p fixturePerson) string {
	if p.Fallback != "" {
		return p.Fallback
	}
	return domain.Initials(p.Name)
}
