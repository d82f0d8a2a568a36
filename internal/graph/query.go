package graph

import (
	"context"
	"fmt"

	"gettext-scanner/internal/catalog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Querier reads anchors back out of the exported graph.
type Querier struct {
	driver neo4j.DriverWithContext
}

// NewQuerier creates a new graph querier.
func NewQuerier(driver neo4j.DriverWithContext) *Querier {
	return &Querier{driver: driver}
}

// MsgIDsInFile returns the identifiers anchored in path, ordered by line.
func (q *Querier) MsgIDsInFile(ctx context.Context, path string) ([]catalog.Occurrence, error) {
	session := q.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (m:MsgID)-[r:FOUND_IN]->(f:SourceFile {path: $path})
		RETURN m.id AS id, m.function AS function, r.line AS line
		ORDER BY r.line, m.id
	`, map[string]any{"path": path})
	if err != nil {
		return nil, fmt.Errorf("query file msgids: %w", err)
	}

	var occs []catalog.Occurrence
	for result.Next(ctx) {
		record := result.Record()
		id, _ := record.Get("id")
		function, _ := record.Get("function")
		line, _ := record.Get("line")

		lineNum, _ := line.(int64)
		occs = append(occs, catalog.Occurrence{
			ID:       fmt.Sprintf("%v", id),
			Function: fmt.Sprintf("%v", function),
			Anchor:   catalog.Anchor{Path: path, Line: int(lineNum)},
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read file msgids: %w", err)
	}

	return occs, nil
}
