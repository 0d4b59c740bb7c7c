package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/platform/obs"
	"ttp-solver-service/internal/ports"
)

// Postgres-backed implementation of the InstanceRepository port.
type PostgresInstanceRepository struct{ DB *sql.DB }

func NewPostgresInstanceRepository(db *sql.DB) *PostgresInstanceRepository {
	return &PostgresInstanceRepository{DB: db}
}

// Return a summary of every stored instance.
func (s *PostgresInstanceRepository) ListInstances(ctx context.Context) (_ []ports.InstanceInfo, err error) {
	defer obs.Time(ctx, "instances.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres instance repository: DB is nil")
	}

	query := `
	SELECT
		name,
		dimension,
		num_items,
		capacity
	FROM ttp_instances
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instances: query ttp_instances table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.InstanceInfo, 0, 16)
	for rows.Next() {
		var info ports.InstanceInfo
		if err := rows.Scan(&info.Name, &info.Dimension, &info.NumItems, &info.Capacity); err != nil {
			return nil, fmt.Errorf("list instances: scan row: %w", err)
		}
		out = append(out, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list instances: row iteration: %w", err)
	}

	return out, nil
}

// Load and validate one stored instance.
func (s *PostgresInstanceRepository) GetInstance(ctx context.Context, name string) (_ *domain.Instance, err error) {
	defer obs.Time(ctx, "instances.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres instance repository: DB is nil")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `SELECT payload FROM ttp_instances WHERE name = $1;`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get instance %q: %w", name, domain.ErrInstanceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get instance %q: query: %w", name, err)
	}

	inst, err := reader.DecodeJSON(bytes.NewReader(payload), name)
	if err != nil {
		return nil, fmt.Errorf("get instance %q: %w", name, err)
	}
	return inst, nil
}
