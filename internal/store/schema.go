// Schema DDL for the rebuilt-on-attach SQLite index.
package store

// Each measurement row is exploded into one SQLite row per metric, so any
// named column can be pulled as a flat, row-ordered slice regardless of
// which bands a set was imaged in.
const createMeasurements = `CREATE TABLE measurements (
    set_id TEXT NOT NULL,
    branch TEXT NOT NULL,
    row_idx INTEGER NOT NULL,
    blend_id TEXT NOT NULL,
    source_index INTEGER NOT NULL,
    metric TEXT NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (set_id, branch, metric, row_idx)
);`

var schemaStatements = []string{
	createMeasurements,
}
