package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/domain"
)

// Initialize the Postgres schema for the instance library.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createInstancesQuery := `
	CREATE TABLE IF NOT EXISTS ttp_instances (
		name TEXT PRIMARY KEY,
		dimension INTEGER NOT NULL,
		num_items INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_ttp_instances_dimension
	ON ttp_instances(dimension);
	`

	statements := []string{
		createInstancesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

const upsertInstanceQuery = `
	INSERT INTO ttp_instances (name, dimension, num_items, capacity, payload, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (name) DO UPDATE
	SET dimension = EXCLUDED.dimension,
		num_items = EXCLUDED.num_items,
		capacity = EXCLUDED.capacity,
		payload = EXCLUDED.payload,
		updated_at = now();
	`

// Populate the instance library from a JSON array of instance documents.
// Every document is validated before anything is written; existing rows with
// the same name are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed instances: DB is nil")
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed instances: read %q: %w", jsonPath, err)
	}

	docs, err := ParseSeed(bytes)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed instances: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertInstanceQuery)
	if err != nil {
		return 0, fmt.Errorf("seed instances: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range docs {
		if _, err := stmt.ExecContext(ctx, row.Name, row.Dimension, row.NumItems, row.Capacity, row.Payload); err != nil {
			return 0, fmt.Errorf("seed instances: insert name=%q: %w", row.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed instances: commit tx: %w", err)
	}

	return len(docs), nil
}

// SeedRow is one validated instance ready to be stored.
type SeedRow struct {
	Name      string
	Dimension int
	NumItems  int
	Capacity  int
	Payload   []byte
}

// ParseSeed decodes and validates a JSON array of instance documents.
// Names must be present and unique.
func ParseSeed(data []byte) ([]SeedRow, error) {
	var docs []reader.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("seed instances: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(docs))
	rows := make([]SeedRow, 0, len(docs))
	for i, doc := range docs {
		name := strings.TrimSpace(doc.Name)
		if name == "" {
			return nil, fmt.Errorf("seed instances: document at index %d: name cannot be empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("seed instances: duplicate name %q", name)
		}
		seen[name] = struct{}{}

		doc.Name = name
		inst, err := doc.Instance(name)
		if err != nil {
			return nil, fmt.Errorf("seed instances: document %q: %w", name, err)
		}

		row, err := rowFromInstance(inst)
		if err != nil {
			return nil, fmt.Errorf("seed instances: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// SaveInstance validates inst and upserts it under inst.Name.
func SaveInstance(ctx context.Context, db *sql.DB, inst *domain.Instance) error {
	if db == nil {
		return errors.New("save instance: DB is nil")
	}
	if strings.TrimSpace(inst.Name) == "" {
		return errors.New("save instance: name cannot be empty")
	}
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("save instance %q: %w", inst.Name, err)
	}

	row, err := rowFromInstance(inst)
	if err != nil {
		return fmt.Errorf("save instance: %w", err)
	}

	if _, err := db.ExecContext(ctx, upsertInstanceQuery, row.Name, row.Dimension, row.NumItems, row.Capacity, row.Payload); err != nil {
		return fmt.Errorf("save instance: insert name=%q: %w", row.Name, err)
	}
	return nil
}

// rowFromInstance stores the normalized distance-matrix form so reads never
// need a metric.
func rowFromInstance(inst *domain.Instance) (SeedRow, error) {
	payload, err := json.Marshal(reader.FromInstance(inst))
	if err != nil {
		return SeedRow{}, fmt.Errorf("encode %q: %w", inst.Name, err)
	}
	return SeedRow{
		Name:      inst.Name,
		Dimension: inst.Dimension,
		NumItems:  inst.NumItems(),
		Capacity:  inst.Capacity,
		Payload:   payload,
	}, nil
}
