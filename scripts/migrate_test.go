package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ddlFor(t *testing.T, table string) string {
	for _, stmt := range statements {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			return stmt
		}
	}
	t.Fatalf("no CREATE TABLE statement for %s", table)
	return ""
}

// The adapters rely on unique violations (pq 23505) to surface conflicts, so
// the constraints must actually exist in the DDL.
func TestStatements_UniqueConstraints(t *testing.T) {
	assert.Contains(t, ddlFor(t, "businesses"), "UNIQUE (owner_id)")
	assert.Contains(t, ddlFor(t, "customers"), "UNIQUE (business_id, phone)")
	assert.Contains(t, ddlFor(t, "feedback"), "UNIQUE (rating_event_id)")
}

func TestStatements_StatusCheck(t *testing.T) {
	ddl := ddlFor(t, "review_requests")
	for _, status := range []string{"sent", "delivered", "read", "completed", "failed"} {
		assert.Contains(t, ddl, "'"+status+"'")
	}

	assert.Contains(t, ddlFor(t, "rating_events"), "CHECK (stars BETWEEN 1 AND 5)")
}
