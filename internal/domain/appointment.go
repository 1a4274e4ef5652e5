package domain

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

// Possible appointment statuses.
const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	default:
		return false
	}
}

// Appointment is a visit between a patient and a doctor.
type Appointment struct {
	ID          string            `json:"id" validate:"required"`
	PatientID   string            `json:"patientId" validate:"required"`
	DoctorID    string            `json:"doctorId" validate:"required"`
	Date        string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string            `json:"time" validate:"required,datetime=15:04"`
	Description string            `json:"description"`
	Status      AppointmentStatus `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

// NewAppointment assigns id and defaults the status to scheduled.
func NewAppointment(a Appointment, id string) (*Appointment, error) {
	a.ID = id
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks the appointment's fields.
func (a *Appointment) Validate() error {
	return validateStruct("appointment", a)
}

// SetStatus changes the appointment status.
func (a *Appointment) SetStatus(status AppointmentStatus) error {
	if !status.Valid() {
		return ErrInvalidAppointmentStatus
	}
	a.Status = status
	return nil
}
