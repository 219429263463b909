package auth

import (
	"strings"
	"testing"
)

func TestPostgresSchemaCoversQueries(t *testing.T) {
	schema := strings.ToLower(PostgresSchema)
	for _, want := range []string{
		"create table if not exists players",
		"create table if not exists sessions",
		"on players (lower(username))",
		"password_hash", "last_login_at", "updated_at",
		"expires_at", "revoked_at", "last_seen_at",
	} {
		if !strings.Contains(schema, want) {
			t.Fatalf("postgres schema is missing %q", want)
		}
	}
}
