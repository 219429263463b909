package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	tokenBytes        = 32
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Letters, digits and @ . + - _, up to 30 characters.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,30}$`)

// NormalizeUsername is the case-insensitive lookup key for a username.
// Stored usernames keep the spelling the player registered with.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if !usernamePattern.MatchString(trimmed) {
		return ErrInvalidUsername
	}
	return nil
}

// NormalizeEmail returns the bare lower-cased address.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func ValidatePassword(password string) error {
	// bcrypt ignores bytes past 72
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}

func validateRegistration(username, email, password string) (normalizedEmail string, err error) {
	if err = ValidateUsername(username); err != nil {
		return "", err
	}
	if normalizedEmail, err = NormalizeEmail(email); err != nil {
		return "", err
	}
	if err = ValidatePassword(password); err != nil {
		return "", err
	}
	return normalizedEmail, nil
}

func mustToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
