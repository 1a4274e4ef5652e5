package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MedicationAdherence summarises one medication.
type MedicationAdherence struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Taken     int    `json:"taken"`
	Skipped   int    `json:"skipped"`
	Pending   int    `json:"pending"`
	Adherence int    `json:"adherence"`
	Days      int    `json:"days"`
	Duration  string `json:"duration"`
}

// AdherenceSummary totals dose outcomes across a patient's medications.
type AdherenceSummary struct {
	Taken       int                   `json:"taken"`
	Skipped     int                   `json:"skipped"`
	Pending     int                   `json:"pending"`
	Total       int                   `json:"total"`
	Medications []MedicationAdherence `json:"medications"`
}

// Adherence computes the summary for meds as of now. A medication's
// adherence is the rounded percentage of taken doses among recorded ones,
// or 0 when none has been recorded.
func Adherence(meds []Medication, now time.Time) AdherenceSummary {
	s := AdherenceSummary{Medications: make([]MedicationAdherence, 0, len(meds))}
	for _, m := range meds {
		ma := MedicationAdherence{
			ID:       m.ID,
			Name:     m.Name,
			Days:     DaysTaken(m.StartDate, now),
			Duration: DurationLabel(m.StartDate, now),
		}
		for _, d := range m.Doses {
			switch d.Status {
			case DoseStatusTaken:
				ma.Taken++
			case DoseStatusSkipped:
				ma.Skipped++
			default:
				ma.Pending++
			}
		}
		ma.Adherence = percentage(ma.Taken, ma.Taken+ma.Skipped)

		s.Taken += ma.Taken
		s.Skipped += ma.Skipped
		s.Pending += ma.Pending
		s.Medications = append(s.Medications, ma)
	}
	s.Total = s.Taken + s.Skipped + s.Pending
	return s
}

func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// ReportText renders the adherence report sent to emergency contacts.
// Asterisks mark bold text in WhatsApp.
func ReportText(patientName string, s AdherenceSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi! Here is the medication adherence report for %s from Pocket Doctor:\n", patientName)
	fmt.Fprintf(&sb, "- *Doses Taken Today:* %d\n", s.Taken)
	fmt.Fprintf(&sb, "- *Doses Skipped Today:* %d\n", s.Skipped)
	sb.WriteString("\n*Per-Medication Adherence (Overall):*\n")
	for _, m := range s.Medications {
		fmt.Fprintf(&sb, "- %s: %d%%\n", m.Name, m.Adherence)
	}
	sb.WriteString("\nThis is an automated report.")
	return sb.String()
}
