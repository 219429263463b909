package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"war-lite/apps/server/internal/auth"
	"war-lite/apps/server/internal/cards"
)

func newTestHandler(t *testing.T) (*Handler, *http.ServeMux, auth.Service) {
	t.Helper()
	store := cards.NewMemoryStore()
	if err := cards.CreateDeck(context.Background(), store); err != nil {
		t.Fatalf("create deck: %v", err)
	}
	authSvc := auth.NewManager()
	h := NewHandler(store, authSvc, time.Hour)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux, authSvc
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHomePage(t *testing.T) {
	h, mux, _ := newTestHandler(t)

	rec := get(t, mux, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<p>Suit: spade, Rank: two</p>") {
		t.Fatalf("expected spade two on the home page, got %q", rec.Body.String())
	}

	items, err := h.homeData(context.Background())
	if err != nil {
		t.Fatalf("home data: %v", err)
	}
	if len(items) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(items))
	}

	if rec := get(t, mux, "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestFAQPage(t *testing.T) {
	_, mux, _ := newTestHandler(t)

	rec := get(t, mux, "/faq")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<p>Q: Can I win real money on this website?</p>") {
		t.Fatalf("missing FAQ question, got %q", rec.Body.String())
	}
}

func TestFilterPage(t *testing.T) {
	h, mux, _ := newTestHandler(t)

	rec := get(t, mux, "/filter")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>Capitalized Suit: 2</p>") {
		t.Fatalf("expected club suit code, got %q", body)
	}
	if !strings.Contains(body, "<p>Suit Name: Club</p>") {
		t.Fatalf("expected title-cased suit name, got %q", body)
	}

	items, err := h.filterData(context.Background())
	if err != nil {
		t.Fatalf("filter data: %v", err)
	}
	if len(items) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(items))
	}
}

func TestRegisterPage(t *testing.T) {
	_, mux, authSvc := newTestHandler(t)

	rec := get(t, mux, "/register")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="password2"`) {
		t.Fatalf("expected registration form, got %d %q", rec.Code, rec.Body.String())
	}

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}
	form := url.Values{
		"username":  {"test-user"},
		"email":     {"test@test.com"},
		"password1": {"secret12"},
		"password2": {"secret12"},
	}

	rec = post(form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after registration, got %d: %s", rec.Code, rec.Body.String())
	}
	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			token = c.Value
		}
	}
	if _, username, ok := authSvc.ResolveSession(token); !ok || username != "test-user" {
		t.Fatalf("expected session cookie for test-user, got %q ok=%v", username, ok)
	}

	rec = post(form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for taken username, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "A user with that username already exists.") {
		t.Fatalf("expected username error, got %q", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `value="test-user"`) {
		t.Fatalf("expected submitted username to be kept")
	}

	form.Set("username", "test2-user")
	form.Set("password2", "different")
	rec = post(form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for password mismatch, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "The two password fields didn") {
		t.Fatalf("expected mismatch error, got %q", rec.Body.String())
	}
}

func TestWarPage(t *testing.T) {
	_, mux, _ := newTestHandler(t)

	rec := get(t, mux, "/war?seed=42&rounds=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>Seed: 42</p>") {
		t.Fatalf("expected seed in page, got %q", body)
	}
	if n := strings.Count(body, "<li>"); n != 5 {
		t.Fatalf("expected 5 rounds, got %d", n)
	}
	if again := get(t, mux, "/war?seed=42&rounds=5"); again.Body.String() != body {
		t.Fatalf("same seed rendered different games")
	}

	if rec := get(t, mux, "/war?rounds=abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad rounds, got %d", rec.Code)
	}
}

func TestParseRounds(t *testing.T) {
	if n, _ := parseRounds(""); n != defaultWarRounds {
		t.Fatalf("expected default rounds, got %d", n)
	}
	if n, _ := parseRounds("999"); n != maxWarRounds {
		t.Fatalf("expected clamp to %d, got %d", maxWarRounds, n)
	}
	if _, err := parseRounds("0"); err == nil {
		t.Fatalf("expected error for zero rounds")
	}
}
