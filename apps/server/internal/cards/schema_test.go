package cards

import (
	"strings"
	"testing"
)

func TestPostgresSchemaCoversQueries(t *testing.T) {
	schema := strings.ToLower(PostgresSchema)
	for _, want := range []string{"create table if not exists cards", "id bigserial", "suit smallint", "rank text"} {
		if !strings.Contains(schema, want) {
			t.Fatalf("postgres schema is missing %q", want)
		}
	}
}
