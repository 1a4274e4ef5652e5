package service

import (
	"fmt"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// Repositories bundles typed access to every collection over one store.
type Repositories struct {
	Store        store.DocumentStore
	Patients     *store.Repository[domain.Patient]
	Doctors      *store.Repository[domain.Doctor]
	Caretakers   *store.Repository[domain.Caretaker]
	Appointments *store.Repository[domain.Appointment]
	Users        *store.Repository[domain.User]
}

// NewRepositories creates the repositories for s.
func NewRepositories(s store.DocumentStore) *Repositories {
	return &Repositories{
		Store:        s,
		Patients:     store.NewRepository(s, store.CollectionPatients, func(p *domain.Patient) string { return p.ID }),
		Doctors:      store.NewRepository(s, store.CollectionDoctors, func(d *domain.Doctor) string { return d.ID }),
		Caretakers:   store.NewRepository(s, store.CollectionCaretakers, func(c *domain.Caretaker) string { return c.ID }),
		Appointments: store.NewRepository(s, store.CollectionAppointments, func(a *domain.Appointment) string { return a.ID }),
		Users:        store.NewRepository(s, store.CollectionUsers, func(u *domain.User) string { return u.ID }),
	}
}

func checkRepositories(service string, repos *Repositories) error {
	if repos == nil || repos.Store == nil {
		return nilDependency(service, "repositories")
	}
	return nil
}

func nilDependency(service, name string) error {
	return NewServiceError(service, "create_service", fmt.Errorf("%s cannot be nil", name))
}
