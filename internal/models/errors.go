package models

import "fmt"

// ConfigurationError means a required credential is missing. It is fatal to
// the operation, shown to the caller verbatim and never retried.
type ConfigurationError struct {
	Env string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not set. Set it in the environment or .env to use the hosted embedding and completion endpoints", e.Env)
}

// UnavailableError means an external backend (embedding, vector index or
// completion service) could not be reached or failed mid-call. Distinct from
// an empty retrieval result, which is a valid outcome.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
