// Package domain contains the core business entities, value objects, and
// domain logic of the application: patients and the medications they take,
// dose tracking, appointments, emergency contacts and adherence reporting.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
