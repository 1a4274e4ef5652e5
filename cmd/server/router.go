package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/pocket-doctor/internal/api"
	apiMiddleware "github.com/phrazzld/pocket-doctor/internal/api/middleware"
)

// newRouter creates the application router with all routes and middleware.
// A zero timeout disables the per-request deadline.
func newRouter(svc services, logger *slog.Logger, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	patients := api.NewPatientHandler(svc.patients, logger)
	reports := api.NewReportHandler(svc.reports, svc.prescriptions, logger)
	appointments := api.NewAppointmentHandler(svc.appointments, logger)
	directory := api.NewDirectoryHandler(svc.directory, logger)
	assistant := api.NewAssistantHandler(svc.assistant, logger)
	maintenance := api.NewMaintenanceHandler(svc.maintenance, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patients.ListPatients)
			r.Post("/", patients.CreatePatient)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", patients.GetPatient)
				r.Put("/medical-history", patients.UpdateMedicalHistory)
				r.Post("/medications", patients.AddMedication)
				r.Delete("/medications/{medicationId}", patients.RemoveMedication)
				r.Post("/medications/{medicationId}/doses", patients.RecordDose)
				r.Post("/contacts", patients.AddContact)
				r.Delete("/contacts/{contactId}", patients.RemoveContact)
				r.Get("/adherence", reports.GetAdherence)
				r.Post("/adherence/share", reports.ShareAdherence)
			})
		})

		r.Get("/prescriptions", reports.ListPrescriptions)

		r.Get("/appointments", appointments.ListAppointments)
		r.Post("/appointments", appointments.CreateAppointment)
		r.Patch("/appointments/{id}", appointments.UpdateAppointment)
		r.Delete("/appointments/{id}", appointments.DeleteAppointment)

		r.Get("/users", directory.ListUsers)
		r.Get("/users/{id}", directory.GetUser)
		r.Get("/doctors", directory.ListDoctors)
		r.Get("/caretakers", directory.ListCaretakers)
		r.Post("/caretakers", directory.CreateCaretaker)
		r.Post("/session", directory.Session)

		r.Route("/assistant", func(r chi.Router) {
			r.Post("/guide", assistant.MedicationGuide)
			r.Post("/chat", assistant.Ask)
			r.Post("/prescriptions/parse", assistant.ParsePrescription)
		})

		r.Post("/seed", maintenance.Seed)
		r.Post("/init-db", maintenance.Setup)
		r.Post("/setup", maintenance.Setup)
		r.Get("/test-db", maintenance.TestConnection)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
