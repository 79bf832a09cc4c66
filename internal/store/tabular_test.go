package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTabularHeaderAndEncodedCells(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := newTabularStore(dir)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, sampleUser("Alice"))
	require.NoError(t, err)

	file, err := os.Open(filepath.Join(dir, tabularFile))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, header, rows[0])

	// List cells are JSON-encoded text.
	require.JSONEq(t, `["honesty","growth","kindness"]`, rows[1][7])
}

func TestTabularCorruptListCellFailsRead(t *testing.T) {
	dir := t.TempDir()
	s, err := newTabularStore(dir)
	require.NoError(t, err)

	w, err := os.Create(filepath.Join(dir, tabularFile))
	require.NoError(t, err)
	cw := csv.NewWriter(w)
	require.NoError(t, cw.Write(header))
	require.NoError(t, cw.Write([]string{
		"1", "Alice", "28", "Female", "bio", "not-json", `["a"]`, `["b"]`, "someone",
	}))
	cw.Flush()
	require.NoError(t, cw.Error())
	require.NoError(t, w.Close())

	_, err = s.GetAllUsers(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "personality_traits")
}

func TestDocumentSwitchToFreshTabularIsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	doc, err := newDocumentStore(dir)
	require.NoError(t, err)
	_, err = doc.CreateUser(ctx, sampleUser("Alice"))
	require.NoError(t, err)

	// Same data dir, different backend: no CSV exists yet, so the result is
	// empty, not an error.
	tab, err := newTabularStore(dir)
	require.NoError(t, err)
	all, err := tab.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
