// Package assistant exposes the medication guide, chat assistant and
// prescription parser flows as a service.
package assistant

import (
	"context"
)

// Canonical disclaimers. They replace whatever the model returns.
const (
	GuideDisclaimer = "This information is for educational purposes only and not a substitute for " +
		"professional medical advice. Always consult your doctor or pharmacist."
	AssistantDisclaimer = "This is not a substitute for advice from qualified healthcare professionals. " +
		"Always recommend consulting healthcare professionals for serious concerns."
)

// MedicationGuideInput names the medication to describe.
type MedicationGuideInput struct {
	MedicationName string `json:"medicationName"`
}

// MedicationGuideOutput is a structured guide for one medication.
type MedicationGuideOutput struct {
	MedicationName     string   `json:"medicationName"`
	SuggestedDosage    string   `json:"suggestedDosage"`
	SuggestedFrequency string   `json:"suggestedFrequency"`
	Timing             string   `json:"timing"`
	Food               string   `json:"food"`
	Advantages         []string `json:"advantages"`
	Disadvantages      []string `json:"disadvantages"`
	Duration           string   `json:"duration"`
	Disclaimer         string   `json:"disclaimer"`
}

// MedicationAssistantInput is a free-text question with optional context.
type MedicationAssistantInput struct {
	Query              string   `json:"query"`
	CurrentMedications []string `json:"currentMedications,omitempty"`
}

// MedicationAssistantOutput is the assistant's answer.
type MedicationAssistantOutput struct {
	Response   string `json:"response"`
	Disclaimer string `json:"disclaimer"`
}

// PrescriptionParserInput carries a prescription photo as a data URI.
type PrescriptionParserInput struct {
	PhotoDataURI string `json:"photoDataUri"`
}

// ParsedMedication is one medication read from a prescription.
type ParsedMedication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// PrescriptionParserOutput lists the medications found. An empty list is a
// valid result.
type PrescriptionParserOutput struct {
	Medications []ParsedMedication `json:"medications"`
}

// Service runs the assistant flows. Errors are the generation package's
// typed errors: *generation.InputValidationError,
// *generation.GenerationBackendError or *generation.SchemaMismatchError.
type Service interface {
	// GetMedicationGuide returns a guide for the named medication. The result
	// always echoes the requested name and carries GuideDisclaimer.
	GetMedicationGuide(ctx context.Context, in MedicationGuideInput) (*MedicationGuideOutput, error)

	// AskAssistant answers a medication question. The result always carries
	// AssistantDisclaimer.
	AskAssistant(ctx context.Context, in MedicationAssistantInput) (*MedicationAssistantOutput, error)

	// ParsePrescription extracts medications from a prescription photo.
	ParsePrescription(ctx context.Context, in PrescriptionParserInput) (*PrescriptionParserOutput, error)
}
