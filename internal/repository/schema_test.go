package repository

import (
	"os"
	"strings"
	"testing"
)

// The repositories and migrations/schema.sql evolve separately, so this
// guard catches column drift without a live MySQL instance: every
// column a query references must be declared in the DDL of its table.
func TestSchemaDeclaresQueriedColumns(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/schema.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	ddl := string(raw)

	tables := map[string][]string{
		"users":          {"id", "email", "name", "password_hash", "role", "is_active", "created_at", "updated_at"},
		"refresh_tokens": {"user_id", "token_hash", "expires_at", "revoked_at", "created_at"},
		"rooms":          {"id", "name", "location", "capacity", "image_url", "enabled", "price_per_hour_cents", "created_at", "updated_at"},
		"room_amenities": {"room_id", "name"},
		"reservations":   {"id", "room_id", "requester_id", "day", "start_min", "end_min", "status", "created_at"},
	}

	for table, cols := range tables {
		body := tableBody(t, ddl, table)
		for _, col := range cols {
			if !declaresColumn(body, col) {
				t.Errorf("schema table %s missing column %s", table, col)
			}
		}
	}
}

// tableBody extracts the CREATE TABLE block for a table.
func tableBody(t *testing.T, ddl, table string) string {
	t.Helper()
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(ddl, marker)
	if start < 0 {
		t.Fatalf("schema missing table %s", table)
	}
	rest := ddl[start+len(marker):]
	end := strings.Index(rest, "ENGINE=InnoDB")
	if end < 0 {
		t.Fatalf("table %s not terminated", table)
	}
	return rest[:end]
}

// declaresColumn reports whether a column definition (or key component)
// named col appears at the start of a line in the table body.
func declaresColumn(body, col string) bool {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, col+" ") || strings.HasPrefix(line, col+",") {
			return true
		}
		// Composite primary keys declare columns inline, e.g.
		// PRIMARY KEY (room_id, name).
		if strings.HasPrefix(line, "PRIMARY KEY (") && strings.Contains(line, col) {
			return true
		}
	}
	return false
}
