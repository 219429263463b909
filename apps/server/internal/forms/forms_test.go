package forms

import (
	"context"
	"errors"
	"testing"

	"war-lite/apps/server/internal/auth"
)

type failingLookup struct{}

func (failingLookup) UsernameExists(context.Context, string) (bool, error) {
	return false, errors.New("db down")
}

func TestCleanUsernameError(t *testing.T) {
	players := auth.NewManager()
	// take the username first
	if _, _, err := players.Register("test-user", "test@test.com", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := CleanUsername(context.Background(), players, "test-user")
	if !errors.Is(err, auth.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "username" {
		t.Fatalf("expected username field error, got %v", err)
	}
}

func TestCleanUsernameUsername(t *testing.T) {
	got, err := CleanUsername(context.Background(), auth.NewManager(), "test2-user")
	if err != nil {
		t.Fatalf("CleanUsername failed: %v", err)
	}
	if got != "test2-user" {
		t.Fatalf("expected username unchanged, got %q", got)
	}
}

func TestCleanUsernameLookupFailure(t *testing.T) {
	_, err := CleanUsername(context.Background(), failingLookup{}, "test2-user")
	if err == nil {
		t.Fatalf("expected lookup failure to surface")
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		t.Fatalf("lookup failure must not be reported as a field error")
	}
}

func TestRegistrationValidate(t *testing.T) {
	players := auth.NewManager()
	if _, _, err := players.Register("test-user", "test@test.com", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	ctx := context.Background()

	cleaned, err := Registration{
		Username:  "test2-user",
		Email:     "Test2@Example.com",
		Password1: "secret12",
		Password2: "secret12",
	}.Validate(ctx, players)
	if err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	if cleaned.Username != "test2-user" || cleaned.Email != "test2@example.com" || cleaned.Password != "secret12" {
		t.Fatalf("unexpected cleaned data: %+v", cleaned)
	}

	_, err = Registration{
		Username:  "test-user",
		Email:     "nope",
		Password1: "secret12",
		Password2: "secret13",
	}.Validate(ctx, players)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(verrs), verrs)
	}
	if !errors.Is(err, auth.ErrUsernameTaken) || !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected taken username and mismatch to be reachable via errors.Is: %v", err)
	}
	if fe := verrs.Field("email"); fe == nil || fe.Message() != "Enter a valid email address." {
		t.Fatalf("expected email message, got %v", fe)
	}
	if verrs.Field("password1") != nil {
		t.Fatalf("did not expect a password1 error")
	}
}

func TestRegistrationValidateLookupFailure(t *testing.T) {
	_, err := Registration{
		Username:  "test2-user",
		Email:     "a@b.com",
		Password1: "secret12",
		Password2: "secret12",
	}.Validate(context.Background(), failingLookup{})
	var verrs ValidationErrors
	if err == nil || errors.As(err, &verrs) {
		t.Fatalf("expected a plain lookup error, got %v", err)
	}
}

func TestRegistrationValidateAcceptsShortAndSymbolUsernames(t *testing.T) {
	players := auth.NewManager()
	ctx := context.Background()
	for _, username := range []string{"a", "jo", "ann@home", "x+y", "Mixed.Case"} {
		cleaned, err := Registration{
			Username:  username,
			Email:     "someone@test.com",
			Password1: "secret12",
			Password2: "secret12",
		}.Validate(ctx, players)
		if err != nil {
			t.Fatalf("Validate(%q) failed: %v", username, err)
		}
		if cleaned.Username != username {
			t.Fatalf("expected username %q kept as typed, got %q", username, cleaned.Username)
		}
	}
}
