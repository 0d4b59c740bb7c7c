package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/platform/db"
)

const seedJSON = `[
	{
		"name": "pair",
		"distances": [[0, 3], [3, 0]],
		"items": [{"profit": 10, "weight": 5, "city": 1}],
		"capacity": 5,
		"max_speed": 1,
		"min_speed": 0.5,
		"renting_ratio": 1
	},
	{
		"name": "  square  ",
		"coordinates": [{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 1, "y": 1}, {"x": 0, "y": 1}],
		"edge_weight_type": "EUC_2D",
		"items": [],
		"capacity": 0,
		"max_speed": 1,
		"min_speed": 1,
		"renting_ratio": 1
	}
]`

func TestParseSeed(t *testing.T) {
	rows, err := ParseSeed([]byte(seedJSON))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "pair", rows[0].Name)
	assert.Equal(t, 2, rows[0].Dimension)
	assert.Equal(t, 1, rows[0].NumItems)
	assert.Equal(t, 5, rows[0].Capacity)

	assert.Equal(t, "square", rows[1].Name)
	assert.Equal(t, 4, rows[1].Dimension)
	// coordinates are stored as a resolved matrix
	assert.Contains(t, string(rows[1].Payload), `"distances"`)
	assert.NotContains(t, string(rows[1].Payload), `"coordinates"`)
}

func TestBundledSeedParses(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "data", "seeds", "instances.json"))
	require.NoError(t, err)

	rows, err := ParseSeed(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "square", rows[1].Name)
	assert.Equal(t, 3, rows[1].NumItems)
}

func TestParseSeedErrors(t *testing.T) {
	for name, src := range map[string]string{
		"syntax":    `[{`,
		"no name":   `[{"distances": [[0]], "capacity": 0, "max_speed": 1, "min_speed": 1}]`,
		"duplicate": `[{"name": "a", "distances": [[0]], "max_speed": 1, "min_speed": 1}, {"name": "a", "distances": [[0]], "max_speed": 1, "min_speed": 1}]`,
		"invalid":   `[{"name": "a", "distances": [[0]], "capacity": -1, "max_speed": 1, "min_speed": 1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestNilDB(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresInstanceRepository(nil)

	_, err := repo.ListInstances(ctx)
	assert.Error(t, err)
	_, err = repo.GetInstance(ctx, "x")
	assert.Error(t, err)
	assert.Error(t, InitSchema(ctx, nil))
	assert.Error(t, SaveInstance(ctx, nil, &domain.Instance{Name: "x"}))
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestPostgresInstanceRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn))

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))
	n, err := SeedFromJSON(ctx, conn, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	repo := NewPostgresInstanceRepository(conn)

	infos, err := repo.ListInstances(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "pair")
	assert.Contains(t, names, "square")

	inst, err := repo.GetInstance(ctx, "square")
	require.NoError(t, err)
	assert.Equal(t, 4, inst.Dimension)
	assert.Equal(t, 1.0, inst.Distances[0][1])

	_, err = repo.GetInstance(ctx, "no-such-instance")
	assert.ErrorIs(t, err, domain.ErrInstanceNotFound)

	inst.Name = "square-copy"
	require.NoError(t, SaveInstance(ctx, conn, inst))
	stored, err := repo.GetInstance(ctx, "square-copy")
	require.NoError(t, err)
	assert.Equal(t, inst.Distances, stored.Distances)
}
