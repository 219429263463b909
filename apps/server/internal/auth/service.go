package auth

import "context"

// Service is the player account/session contract consumed by pages, the
// gateway and the JSON API.
type Service interface {
	Register(username, email, password string) (playerID uint64, sessionToken string, err error)
	Login(username, password string) (playerID uint64, sessionToken string, err error)
	ResolveSession(token string) (playerID uint64, username string, ok bool)
	Logout(token string)
	// UsernameExists is a read-only lookup used by registration validation.
	UsernameExists(ctx context.Context, username string) (bool, error)
	Close() error
}
