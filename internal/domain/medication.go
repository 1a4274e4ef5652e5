package domain

import (
	"fmt"
	"time"
)

// TimeOfDayLayout is the HH:mm layout used for dose timings.
const TimeOfDayLayout = "15:04"

// DoseStatus tracks whether a scheduled dose was taken.
type DoseStatus string

// Possible dose statuses. A dose starts pending and may move once to taken
// or skipped.
const (
	DoseStatusPending DoseStatus = "pending"
	DoseStatusTaken   DoseStatus = "taken"
	DoseStatusSkipped DoseStatus = "skipped"
)

// Dose is one scheduled intake of a medication.
type Dose struct {
	Scheduled string     `json:"scheduled" validate:"required,datetime=15:04"`
	Status    DoseStatus `json:"status" validate:"required,oneof=pending taken skipped"`
}

// Medication is a drug a patient takes on a daily schedule.
type Medication struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Dosage    string    `json:"dosage" validate:"required"`
	Frequency string    `json:"frequency" validate:"required"`
	Timings   []string  `json:"timings" validate:"min=1,dive,datetime=15:04"`
	StartDate time.Time `json:"startDate"`
	Doses     []Dose    `json:"doses" validate:"dive"`
}

// Schedule describes doses taken every IntervalHours from Start until End,
// both HH:mm on the same day.
type Schedule struct {
	Start         string `json:"startTime" validate:"required,datetime=15:04"`
	End           string `json:"endTime" validate:"required,datetime=15:04"`
	IntervalHours int    `json:"interval" validate:"gt=0"`
}

// MedicationInput is what a caller supplies to add a medication. Timings
// may be given directly or derived from Schedule.
type MedicationInput struct {
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	Timings   []string  `json:"timings,omitempty"`
	Schedule  *Schedule `json:"schedule,omitempty"`
}

// NewMedication creates a medication with one pending dose per timing.
func NewMedication(id string, in MedicationInput, now time.Time) (*Medication, error) {
	timings := in.Timings
	if len(timings) == 0 && in.Schedule != nil {
		if err := validateStruct("schedule", in.Schedule); err != nil {
			return nil, err
		}
		var err error
		timings, err = BuildTimings(in.Schedule.Start, in.Schedule.End, in.Schedule.IntervalHours)
		if err != nil {
			return nil, err
		}
	}

	m := &Medication{
		ID:        id,
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		Timings:   append([]string(nil), timings...),
		StartDate: now.UTC(),
		Doses:     make([]Dose, 0, len(timings)),
	}
	for _, t := range timings {
		m.Doses = append(m.Doses, Dose{Scheduled: t, Status: DoseStatusPending})
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the medication's fields.
func (m *Medication) Validate() error {
	return validateStruct("medication", m)
}

// RecordDose marks the dose scheduled at the given time as taken or skipped.
// Only pending doses can change.
func (m *Medication) RecordDose(scheduled string, status DoseStatus) error {
	if status != DoseStatusTaken && status != DoseStatusSkipped {
		return ErrInvalidDoseStatus
	}
	for i := range m.Doses {
		if m.Doses[i].Scheduled != scheduled {
			continue
		}
		if m.Doses[i].Status != DoseStatusPending {
			return fmt.Errorf("%w: dose at %s is already %s", ErrDoseNotPending, scheduled, m.Doses[i].Status)
		}
		m.Doses[i].Status = status
		return nil
	}
	return fmt.Errorf("%w: no dose scheduled at %s", ErrDoseNotFound, scheduled)
}

// BuildTimings lists the HH:mm times from start to end inclusive, stepping
// by intervalHours. When end is before start, or the interval is not
// positive, the result is just start.
func BuildTimings(start, end string, intervalHours int) ([]string, error) {
	from, err := time.Parse(TimeOfDayLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidTime, start)
	}
	to, err := time.Parse(TimeOfDayLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidTime, end)
	}

	var timings []string
	if intervalHours > 0 {
		step := time.Duration(intervalHours) * time.Hour
		for t := from; !t.After(to); t = t.Add(step) {
			timings = append(timings, t.Format(TimeOfDayLayout))
		}
	}
	if len(timings) == 0 {
		return []string{from.Format(TimeOfDayLayout)}, nil
	}
	return timings, nil
}

// DurationLabel describes how long a medication has been taken: "Day N"
// during the first month, then "Month N".
func DurationLabel(start, now time.Time) string {
	days := int(now.Sub(start).Hours() / 24)
	if days < 1 {
		return "Day 1"
	}
	if months := monthsBetween(start, now); months >= 1 {
		return fmt.Sprintf("Month %d", months+1)
	}
	return fmt.Sprintf("Day %d", days+1)
}

// DaysTaken counts calendar days since start, including the first day.
func DaysTaken(start, now time.Time) int {
	days := int(now.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() || (b.Day() == a.Day() && timeOfDay(b) < timeOfDay(a)) {
		months--
	}
	return months
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
}
