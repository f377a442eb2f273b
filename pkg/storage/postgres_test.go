package storage

import (
	"strings"
	"testing"
)

func TestEmbeddedSchema(t *testing.T) {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		t.Fatalf("schema not embedded: %v", err)
	}

	content := string(schema)
	for _, table := range []string{"cost_reports", "security_reports"} {
		if !strings.Contains(content, table) {
			t.Errorf("schema missing table %s", table)
		}
	}
	if !strings.Contains(content, "IF NOT EXISTS") {
		t.Error("schema must be idempotent, expected IF NOT EXISTS")
	}
}
