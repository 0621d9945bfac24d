package contentstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to TEST_DATABASE_URL, skipping when it is unset.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	client, err := New(context.Background(), Config{
		URL:            connString,
		MinConns:       1,
		MaxConns:       2,
		AcquireTimeout: 2 * time.Second,
	})
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(client.Close)

	_, err = Exec(context.Background(), client, `
		CREATE TABLE IF NOT EXISTS store_probe (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			tags JSONB NOT NULL DEFAULT '[]'::jsonb
		)`)
	require.NoError(t, err)
	_, err = Exec(context.Background(), client, `TRUNCATE store_probe`)
	require.NoError(t, err)
	return client
}

type probe struct {
	ID   int64
	Name string
	Tags []string
}

func scanProbe(row pgx.CollectableRow) (*probe, error) {
	var p probe
	var tags JSON[[]string]
	if err := row.Scan(&p.ID, &p.Name, &tags); err != nil {
		return nil, err
	}
	p.Tags = tags.V
	return &p, nil
}

func TestClient_QueryAndQueryOne(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	inserted, err := QueryOne(ctx, client,
		`INSERT INTO store_probe (name, tags) VALUES ($1, $2) RETURNING id, name, tags`,
		scanProbe, "alpha", JSONOf([]string{"a", "b"}))
	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, []string{"a", "b"}, inserted.Tags)

	missing, err := QueryOne(ctx, client, `SELECT id, name, tags FROM store_probe WHERE id = $1`, scanProbe, int64(-1))
	require.NoError(t, err)
	assert.Nil(t, missing)

	rows, err := Query(ctx, client, `SELECT id, name, tags FROM store_probe WHERE name = $1`, scanProbe, "alpha")
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}

func TestClient_Transaction(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.Transaction(ctx, func(ctx context.Context, tx Handle) error {
		_, err := Exec(ctx, tx, `INSERT INTO store_probe (name) VALUES ('committed')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = client.Transaction(ctx, func(ctx context.Context, tx Handle) error {
		if _, err := Exec(ctx, tx, `INSERT INTO store_probe (name) VALUES ('rolled-back')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count := func(name string) int64 {
		n, err := QueryOne(ctx, client, `SELECT count(*) FROM store_probe WHERE name = $1`,
			pgx.RowTo[int64], name)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, int64(1), count("committed"))
	assert.Equal(t, int64(0), count("rolled-back"))
}

func TestClient_QueryErrorOnBadStatement(t *testing.T) {
	client := newTestClient(t)

	_, err := Exec(context.Background(), client, `SELECT * FROM no_such_table`)
	require.Error(t, err)
	assert.True(t, IsQueryError(err))
	assert.ErrorIs(t, err, ErrSchemaMissing)
}
