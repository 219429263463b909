// Package forms validates typed form input before it reaches a store.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"war-lite/apps/server/internal/auth"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// UsernameLookup is the read-only player query registration needs.
type UsernameLookup interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// FieldError ties a validation failure to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// Message is the text shown next to the field.
func (e *FieldError) Message() string {
	switch {
	case errors.Is(e.Err, auth.ErrUsernameTaken):
		return "A user with that username already exists."
	case errors.Is(e.Err, auth.ErrInvalidUsername):
		return "Enter a valid username. This value may contain only letters, numbers and @/./+/-/_ characters, up to 30 of them."
	case errors.Is(e.Err, auth.ErrInvalidEmail):
		return "Enter a valid email address."
	case errors.Is(e.Err, auth.ErrInvalidPassword):
		return "Password must be between 6 and 72 characters."
	case errors.Is(e.Err, ErrPasswordMismatch):
		return "The two password fields didn't match."
	}
	return e.Err.Error()
}

// ValidationErrors collects every failing field of a form.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, fe := range v {
		out = append(out, fe)
	}
	return out
}

// Field returns the error recorded for field, or nil.
func (v ValidationErrors) Field(field string) *FieldError {
	for _, fe := range v {
		if fe.Field == field {
			return fe
		}
	}
	return nil
}

// CleanUsername rejects a username that already belongs to a player and
// otherwise returns it unchanged.
func CleanUsername(ctx context.Context, lookup UsernameLookup, username string) (string, error) {
	exists, err := lookup.UsernameExists(ctx, username)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if exists {
		return "", &FieldError{Field: "username", Err: auth.ErrUsernameTaken}
	}
	return username, nil
}

// Registration is the sign-up form: a username, an email address and the
// password typed twice.
type Registration struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// Cleaned is registration input that passed validation.
type Cleaned struct {
	Username string
	Email    string
	Password string
}

// Validate checks every field. A non-nil error is either ValidationErrors or
// a lookup failure.
func (f Registration) Validate(ctx context.Context, lookup UsernameLookup) (Cleaned, error) {
	var (
		out  Cleaned
		errs ValidationErrors
	)

	username := strings.TrimSpace(f.Username)
	if err := auth.ValidateUsername(username); err != nil {
		errs = append(errs, &FieldError{Field: "username", Err: err})
	} else {
		cleaned, err := CleanUsername(ctx, lookup, username)
		var fe *FieldError
		switch {
		case errors.As(err, &fe):
			errs = append(errs, fe)
		case err != nil:
			return Cleaned{}, err
		default:
			out.Username = cleaned
		}
	}

	if email, err := auth.NormalizeEmail(f.Email); err != nil {
		errs = append(errs, &FieldError{Field: "email", Err: err})
	} else {
		out.Email = email
	}

	if err := auth.ValidatePassword(f.Password1); err != nil {
		errs = append(errs, &FieldError{Field: "password1", Err: err})
	} else if f.Password1 != f.Password2 {
		errs = append(errs, &FieldError{Field: "password2", Err: ErrPasswordMismatch})
	} else {
		out.Password = f.Password1
	}

	if len(errs) > 0 {
		return Cleaned{}, errs
	}
	return out, nil
}
