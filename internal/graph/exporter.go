package graph

import (
	"context"
	"fmt"

	"gettext-scanner/internal/catalog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Exporter mirrors a scan index into Neo4j as
// (:MsgID)-[:FOUND_IN {line}]->(:SourceFile).
type Exporter struct {
	driver    neo4j.DriverWithContext
	batchSize int
}

// NewExporter creates a new exporter.
func NewExporter(driver neo4j.DriverWithContext) *Exporter {
	return &Exporter{driver: driver, batchSize: 500}
}

// EnsureSchema creates constraints on the Neo4j database.
func (ex *Exporter) EnsureSchema(ctx context.Context) error {
	session := ex.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (m:MsgID) REQUIRE m.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (f:SourceFile) REQUIRE f.path IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// Export replaces the graph contents with entries. Identifiers absent from
// entries are detached and deleted so the graph matches the index.
func (ex *Exporter) Export(ctx context.Context, entries []catalog.Entry) error {
	session := ex.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	_, err := session.Run(ctx, `
		MATCH (m:MsgID)
		WHERE NOT m.id IN $ids
		DETACH DELETE m
	`, map[string]any{"ids": ids})
	if err != nil {
		return fmt.Errorf("prune msgids: %w", err)
	}

	_, err = session.Run(ctx, `
		MATCH (m:MsgID)-[r:FOUND_IN]->()
		WHERE m.id IN $ids
		DELETE r
	`, map[string]any{"ids": ids})
	if err != nil {
		return fmt.Errorf("reset anchors: %w", err)
	}

	rows := anchorRows(entries)
	for start := 0; start < len(rows); start += ex.batchSize {
		end := min(start+ex.batchSize, len(rows))
		_, err := session.Run(ctx, `
			UNWIND $rows AS row
			MERGE (m:MsgID {id: row.id})
			SET m.function = row.function
			MERGE (f:SourceFile {path: row.path})
			CREATE (m)-[:FOUND_IN {line: row.line, position: row.position}]->(f)
		`, map[string]any{"rows": rows[start:end]})
		if err != nil {
			return fmt.Errorf("write anchors [%d:%d]: %w", start, end, err)
		}
	}

	_, err = session.Run(ctx, `
		MATCH (f:SourceFile)
		WHERE NOT (f)<-[:FOUND_IN]-()
		DELETE f
	`, nil)
	if err != nil {
		return fmt.Errorf("prune files: %w", err)
	}

	log.Info().Int("msgids", len(entries)).Int("anchors", len(rows)).Msg("Exported index to graph")
	return nil
}

// anchorRows flattens entries into one parameter row per anchor. position
// keeps the anchor order of each entry.
func anchorRows(entries []catalog.Entry) []map[string]any {
	var rows []map[string]any
	for _, e := range entries {
		for i, a := range e.Anchors {
			rows = append(rows, map[string]any{
				"id":       e.ID,
				"function": e.Function,
				"path":     a.Path,
				"line":     int64(a.Line),
				"position": int64(i),
			})
		}
	}
	return rows
}
