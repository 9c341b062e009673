package tarkash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDotEnv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, ok := findDotEnv(nested)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("X=1\n"), 0o644))
	found, ok := findDotEnv(nested)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, ".env"), found)

	require.NoError(t, os.Mkdir(filepath.Join(nested, ".env"), 0o755))
	found, ok = findDotEnv(nested)
	assert.True(t, ok, "directories named .env are skipped")
	assert.Equal(t, filepath.Join(root, ".env"), found)
}
