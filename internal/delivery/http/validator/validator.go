// Package validator adapts go-playground/validator to Echo's Validator
// interface.
package validator

import (
	playground "github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator instance for request structs.
type Validator struct {
	validate *playground.Validate
}

// New creates the validator used by the HTTP server.
func New() *Validator {
	return &Validator{
		validate: playground.New(),
	}
}

// Validate checks struct tags on the bound request.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
