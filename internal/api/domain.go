package api

import "github.com/JaimeStill/intake/internal/applicants"

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Applicants applicants.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Applicants: applicants.New(
			runtime.Storage,
			runtime.Metadata,
			runtime.Logger,
			runtime.Uploads,
		),
	}
}
