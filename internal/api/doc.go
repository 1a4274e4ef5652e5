// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// patient, appointment, directory, report, maintenance and assistant
// services, and map their errors onto status codes in one place.
package api
