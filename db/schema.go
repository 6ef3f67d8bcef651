package db

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// schemaStatements returns the DDL of a backend split into single statements.
func schemaStatements(backend string) ([]string, error) {
	raw, err := schemaFS.ReadFile("schema/" + backend + ".sql")
	if err != nil {
		return nil, fmt.Errorf("read %s schema: %w", backend, err)
	}

	var stmts []string
	for _, part := range strings.Split(string(raw), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}
