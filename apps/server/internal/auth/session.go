package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager provides in-memory player/session management for single-binary deployment.
type Manager struct {
	mu sync.Mutex

	nextPlayerID uint64
	sessionTTL   time.Duration
	sessions     map[string]sessionRecord // token -> player
	playersByID  map[uint64]playerRecord  // player -> profile
	playersByKey map[string]uint64        // normalized username -> player
}

type sessionRecord struct {
	PlayerID  uint64
	ExpiresAt time.Time
}

type playerRecord struct {
	PlayerID      uint64
	Username      string
	Email         string
	PasswordHash  []byte
	CreatedAt     time.Time
	LastLoginTime time.Time
}

func NewManager() *Manager {
	return NewManagerWithTTL(defaultSessionTTL)
}

func NewManagerWithTTL(sessionTTL time.Duration) *Manager {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &Manager{
		nextPlayerID: 100000, // start from a readable non-trivial range
		sessionTTL:   sessionTTL,
		sessions:     make(map[string]sessionRecord),
		playersByID:  make(map[uint64]playerRecord),
		playersByKey: make(map[string]uint64),
	}
}

func (m *Manager) Close() error { return nil }

func (m *Manager) issueSessionLocked(playerID uint64, now time.Time) string {
	sessionToken := mustToken()
	m.sessions[sessionToken] = sessionRecord{
		PlayerID:  playerID,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	return sessionToken
}

func (m *Manager) resolveSessionLocked(token string, now time.Time) (playerID uint64, username string, ok bool) {
	if token == "" {
		return 0, "", false
	}
	rec, exists := m.sessions[token]
	if !exists {
		return 0, "", false
	}
	if !now.Before(rec.ExpiresAt) {
		delete(m.sessions, token)
		return 0, "", false
	}
	rec.ExpiresAt = now.Add(m.sessionTTL)
	m.sessions[token] = rec

	profile := m.playersByID[rec.PlayerID]
	return rec.PlayerID, profile.Username, true
}

// Register creates a new player and returns an authenticated session token.
func (m *Manager) Register(username, email, password string) (playerID uint64, sessionToken string, err error) {
	normalizedEmail, err := validateRegistration(username, email, password)
	if err != nil {
		return 0, "", err
	}

	normalized := NormalizeUsername(username)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.playersByKey[normalized]; exists {
		return 0, "", ErrUsernameTaken
	}

	m.nextPlayerID++
	playerID = m.nextPlayerID
	now := time.Now()
	m.playersByID[playerID] = playerRecord{
		PlayerID:      playerID,
		Username:      strings.TrimSpace(username),
		Email:         normalizedEmail,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
		LastLoginTime: now,
	}
	m.playersByKey[normalized] = playerID

	sessionToken = m.issueSessionLocked(playerID, now)
	return playerID, sessionToken, nil
}

// Login validates credentials and returns a fresh authenticated session.
func (m *Manager) Login(username, password string) (playerID uint64, sessionToken string, err error) {
	normalized := NormalizeUsername(username)
	if normalized == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	playerID, exists := m.playersByKey[normalized]
	if !exists {
		return 0, "", ErrInvalidCredentials
	}

	profile := m.playersByID[playerID]
	if bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	now := time.Now()
	profile.LastLoginTime = now
	m.playersByID[playerID] = profile
	sessionToken = m.issueSessionLocked(playerID, now)
	return playerID, sessionToken, nil
}

// ResolveSession validates and refreshes a session token.
func (m *Manager) ResolveSession(token string) (playerID uint64, username string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveSessionLocked(token, time.Now())
}

// Logout invalidates a session token.
func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

func (m *Manager) UsernameExists(_ context.Context, username string) (bool, error) {
	normalized := NormalizeUsername(username)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.playersByKey[normalized]
	return exists, nil
}
