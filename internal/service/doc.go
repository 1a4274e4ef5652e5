// Package service contains the application use cases of Pocket Doctor. It
// orchestrates domain objects and the document repositories (internal/store)
// to manage patients, their medications and doses, appointments, the user
// directory, adherence reports and database maintenance.
//
// Every service is an interface with an unexported or ...Impl
// implementation built by a constructor that receives its repositories and a
// logger and rejects nil dependencies. Store errors are translated to the
// sentinels in errors.go; domain validation errors pass through so the API
// layer can report them as bad requests.
//
// The structured-generation flows live in the assistant subpackage.
package service
