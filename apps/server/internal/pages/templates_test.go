package pages

import (
	"context"
	"strings"
	"testing"

	"war-lite/apps/server/internal/auth"
	"war-lite/apps/server/internal/forms"
	"war-lite/war"
)

func TestRegisterPageEscapesValues(t *testing.T) {
	var b strings.Builder
	view := RegisterView{
		Username: `<script>x</script>`,
		Errors:   forms.ValidationErrors{{Field: "username", Err: auth.ErrInvalidUsername}},
	}
	if err := RegisterPage(view).Render(context.Background(), &b); err != nil {
		t.Fatalf("RegisterPage() = %v", err)
	}
	got := b.String()
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected submitted value to be escaped, got %q", got)
	}
	if !strings.Contains(got, `value="&lt;script&gt;x&lt;/script&gt;"`) {
		t.Fatalf("expected escaped value attribute, got %q", got)
	}
	if !strings.Contains(got, `<ul class="errorlist"><li>Enter a valid username.`) {
		t.Fatalf("expected username error under the field, got %q", got)
	}
	if strings.Count(got, `<ul class="errorlist">`) != 1 {
		t.Fatalf("expected a single error list, got %q", got)
	}
	if !strings.Contains(got, "<title>Register | War</title>") || !strings.Contains(got, "<h1>Register</h1>") {
		t.Fatalf("expected layout around the form, got %q", got)
	}
}

func TestWarPageShowsResult(t *testing.T) {
	var b strings.Builder
	snap := war.Snapshot{Round: 3, Wars: 1, Ended: true, Winner: war.SideNone}
	if err := WarPage(9, nil, snap).Render(context.Background(), &b); err != nil {
		t.Fatalf("WarPage() = %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "<p>Seed: 9</p>") || !strings.Contains(got, "<p>Game over: draw</p>") {
		t.Fatalf("unexpected war page: %q", got)
	}
}
