package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDSN() string {
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DB_STRING")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=calassist_test sslmode=disable"
	}
	return dsn
}

func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, getTestDSN())
	if err != nil {
		t.Skipf("Skipping test: could not connect to test database: %v", err)
	}

	// Clean up tables before each test
	cleanupTables(t, store)

	return store
}

func cleanupTables(t *testing.T, s *PostgresStore) {
	t.Helper()

	queries := []string{
		"DELETE FROM " + tablePrefix + "kv",
		"DELETE FROM " + tablePrefix + "links",
	}

	for _, query := range queries {
		//nolint:gosec // Table names are hardcoded constants, not user input
		_, err := s.db.ExecContext(s.ctx, query)
		require.NoError(t, err)
	}
}

func TestPostgresStore_Replies(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetReply("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetReply("k", `{"eventName":"a"}`, time.Hour))
	got, err := store.GetReply("k")
	require.NoError(t, err)
	assert.Equal(t, `{"eventName":"a"}`, got)

	// overwrite
	require.NoError(t, store.SetReply("k", `{}`, 0))
	got, err = store.GetReply("k")
	require.NoError(t, err)
	assert.Equal(t, `{}`, got)

	// already expired
	require.NoError(t, store.SetReply("old", `{}`, time.Nanosecond))
	time.Sleep(10 * time.Millisecond)
	_, err = store.GetReply("old")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Links(t *testing.T) {
	store := setupTestStore(t)

	links, err := store.GetLinks(10)
	require.NoError(t, err)
	assert.Empty(t, links)

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.AddLink(Link{URL: "u1", Text: "t1", EventName: "e1", Provider: "openai", At: at}))
	require.NoError(t, store.AddLink(Link{URL: "u2", Text: "t2", EventName: "e2", Provider: "openai", At: at.Add(time.Minute)}))

	links, err = store.GetLinks(10)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "u2", links[0].URL)
	assert.Equal(t, "u1", links[1].URL)
	assert.True(t, at.Equal(links[1].At))

	links, err = store.GetLinks(1)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}
