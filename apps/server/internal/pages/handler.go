// Package pages serves the server-rendered HTML pages.
package pages

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"war-lite/apps/server/internal/auth"
	"war-lite/apps/server/internal/cards"
	"war-lite/apps/server/internal/forms"
	"war-lite/war"
)

const (
	defaultWarRounds = 10
	maxWarRounds     = 200
)

type Handler struct {
	cards cards.Store
	auth  auth.Service
	// sessionTTL bounds the cookie set after registration
	sessionTTL time.Duration
}

func NewHandler(store cards.Store, authService auth.Service, sessionTTL time.Duration) *Handler {
	return &Handler{
		cards:      store,
		auth:       authService,
		sessionTTL: sessionTTL,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleHome)
	mux.HandleFunc("/faq", h.handleFAQ)
	mux.HandleFunc("/filter", h.handleFilter)
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/war", h.handleWar)
}

func (h *Handler) homeData(ctx context.Context) ([]cards.StoredCard, error) {
	return h.cards.List(ctx)
}

func (h *Handler) filterData(ctx context.Context) ([]cards.StoredCard, error) {
	return h.cards.List(ctx)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.homeData(ctx)
	if err != nil {
		log.Printf("[Pages] list cards failed: %v", err)
		http.Error(w, "failed to load cards", http.StatusInternalServerError)
		return
	}
	templ.Handler(HomePage(items)).ServeHTTP(w, r)
}

func (h *Handler) handleFAQ(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	templ.Handler(FAQPage()).ServeHTTP(w, r)
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.filterData(ctx)
	if err != nil {
		log.Printf("[Pages] list cards failed: %v", err)
		http.Error(w, "failed to load cards", http.StatusInternalServerError)
		return
	}
	templ.Handler(FilterPage(items)).ServeHTTP(w, r)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		templ.Handler(RegisterPage(RegisterView{})).ServeHTTP(w, r)
	case http.MethodPost:
		h.submitRegister(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) submitRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := forms.Registration{
		Username:  r.PostForm.Get("username"),
		Email:     r.PostForm.Get("email"),
		Password1: r.PostForm.Get("password1"),
		Password2: r.PostForm.Get("password2"),
	}
	view := RegisterView{Username: form.Username, Email: form.Email}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	cleaned, err := form.Validate(ctx, h.auth)
	if err != nil {
		var verrs forms.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Printf("[Pages] registration lookup failed: %v", err)
			http.Error(w, "registration failed", http.StatusInternalServerError)
			return
		}
		view.Errors = verrs
		templ.Handler(RegisterPage(view), templ.WithStatus(http.StatusBadRequest)).ServeHTTP(w, r)
		return
	}

	playerID, token, err := h.auth.Register(cleaned.Username, cleaned.Email, cleaned.Password)
	if err != nil {
		// a concurrent registration can still claim the name after validation
		if errors.Is(err, auth.ErrUsernameTaken) {
			view.Errors = forms.ValidationErrors{{Field: "username", Err: err}}
			templ.Handler(RegisterPage(view), templ.WithStatus(http.StatusBadRequest)).ServeHTTP(w, r)
			return
		}
		log.Printf("[Pages] register failed: %v", err)
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}
	log.Printf("[Pages] registered player=%d username=%s", playerID, cleaned.Username)

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleWar(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	rounds, err := parseRounds(q.Get("rounds"))
	if err != nil {
		http.Error(w, "invalid rounds", http.StatusBadRequest)
		return
	}
	seed := time.Now().UnixNano()
	if raw := strings.TrimSpace(q.Get("seed")); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || seed == 0 {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
	}

	game, err := war.NewGame(war.Config{Seed: seed})
	if err != nil {
		http.Error(w, "failed to deal", http.StatusInternalServerError)
		return
	}
	played := make([]war.Round, 0, rounds)
	for len(played) < rounds && !game.Ended() {
		rd, err := game.PlayRound()
		if err != nil {
			break
		}
		played = append(played, rd)
	}
	templ.Handler(WarPage(seed, played, game.Snapshot())).ServeHTTP(w, r)
}

func parseRounds(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultWarRounds, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid rounds")
	}
	if n > maxWarRounds {
		n = maxWarRounds
	}
	return n, nil
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
