// Package migrations embeds the schema for each supported store.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Dialects with a schema directory.
const (
	Spanner  = "spanner"
	Postgres = "postgres"
)

//go:embed spanner/*.sql postgres/*.sql
var files embed.FS

// File is one migration file split into statements.
type File struct {
	Name       string
	Statements []string
}

// Load returns the migrations for dialect in file name order.
func Load(dialect string) ([]File, error) {
	if dialect != Spanner && dialect != Postgres {
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}

	names, err := fs.Glob(files, dialect+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(names)

	out := make([]File, 0, len(names))
	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		out = append(out, File{
			Name:       strings.TrimPrefix(name, dialect+"/"),
			Statements: SplitStatements(string(content)),
		})
	}
	return out, nil
}

// SplitStatements drops comment and blank lines and splits on semicolons.
func SplitStatements(content string) []string {
	lines := strings.Split(content, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
