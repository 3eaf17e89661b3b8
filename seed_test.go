package sqlkit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedsSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_products.sql"), []byte("INSERT INTO products VALUES (1);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_users.sql"), []byte("INSERT INTO users VALUES (1);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	seeds, err := LoadSeeds(dir)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "01_users", seeds[0].Name)
	assert.Equal(t, "02_products", seeds[1].Name)
}

func TestRunSeeds(t *testing.T) {
	conn := &fakeConn{}
	seeds := []Seed{
		{Name: "01_users", SQL: "INSERT INTO users VALUES (1);\nINSERT INTO users VALUES (2);"},
		{Name: "02_products", SQL: "INSERT INTO products VALUES (1);"},
	}
	require.NoError(t, RunSeeds(context.Background(), conn, seeds, testLogger()))

	assert.Equal(t, 2, conn.begins)
	assert.Equal(t, 2, conn.commits)
	assert.Equal(t, 0, conn.rollbacks)
	require.Len(t, conn.executed, 3)
	assert.Equal(t, "INSERT INTO users VALUES (1)", conn.executed[0])
}

func TestRunSeedsAbortsOnFailure(t *testing.T) {
	conn := &fakeConn{execErr: errors.New("constraint violation")}
	seeds := []Seed{
		{Name: "01_users", SQL: "INSERT INTO users VALUES (1);"},
		{Name: "02_products", SQL: "INSERT INTO products VALUES (1);"},
	}
	err := RunSeeds(context.Background(), conn, seeds, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed 01_users")
	assert.Equal(t, 1, conn.begins)
	assert.Equal(t, 1, conn.rollbacks)
	assert.Equal(t, 0, conn.commits)
	require.Len(t, conn.executed, 1)
}
