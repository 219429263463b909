package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"war-lite/apps/server/internal/auth"
)

func TestHTTPRecentRequiresSession(t *testing.T) {
	mux := http.NewServeMux()
	NewHTTPHandler(NewMemoryService(10), auth.NewManager()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/recent", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestHTTPRecentAndGame(t *testing.T) {
	authSvc := auth.NewManager()
	playerID, token, err := authSvc.Register("test-user", "test@test.com", "secret12")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := NewMemoryService(10)
	if err := svc.RecordGame(context.Background(), GameRecord{
		GameID: "g1", PlayerID: playerID, Outcome: OutcomeWin, Rounds: 12, Wars: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	mux := http.NewServeMux()
	NewHTTPHandler(svc, authSvc).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/games/recent?limit=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp recentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].GameID != "g1" {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/games/recent?limit=abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/games/g1", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for game via cookie, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/games/nope", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", rec.Code)
	}
}

func TestParseLimit(t *testing.T) {
	if n, err := parseLimit(""); err != nil || n != defaultListLimit {
		t.Fatalf("expected default limit, got %d %v", n, err)
	}
	if n, err := parseLimit("1000"); err != nil || n != maxListLimit {
		t.Fatalf("expected clamp to max, got %d %v", n, err)
	}
	if _, err := parseLimit("-1"); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}
