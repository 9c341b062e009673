package solvers

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURISolver_Base64(t *testing.T) {
	k := load(t, map[string]any{
		"PASSWORD": "@base64://I3B3MTI7UmFkZCRhLjI0Mw==",
		"BROKEN":   "@base64://%%%",
	})

	out := NewURISolverWithFS("@", "://", memfs.New()).Solve(k)

	assert.Equal(t, "#pw12;Radd$a.243", out.Get("PASSWORD"))
	assert.Equal(t, "@base64://%%%", out.Get("BROKEN"))
}

func TestURISolver_File(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "conf/version.txt", []byte("0.23.45\n\n"), 0o644))

	k := load(t, map[string]any{
		"VERSION":     "@file://conf/version.txt",
		"MISSING":     "@file://nothing",
		"UNKNOWN":     "@ftp://host/file",
		"PLAIN":       "file://conf/version.txt",
		"RUN_HOST_OS": "Linux",
		"RETRY_COUNT": 2,
	})

	out := NewURISolverWithFS("@", "://", fs).Solve(k)

	assert.Equal(t, "0.23.45", out.Get("VERSION"))
	assert.Equal(t, "@file://nothing", out.Get("MISSING"))
	assert.Equal(t, "@ftp://host/file", out.Get("UNKNOWN"))
	assert.Equal(t, "file://conf/version.txt", out.Get("PLAIN"))
	assert.Equal(t, "Linux", out.Get("RUN_HOST_OS"))
	assert.Equal(t, 2, out.Get("RETRY_COUNT"))
}

func TestURISolver_RootedOnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, util.WriteFile(osfs.New(dir), "token.txt", []byte("secret\n"), 0o600))

	k := load(t, map[string]any{"TOKEN": "@file://token.txt"})
	out := NewURISolver("@", "://", dir).Solve(k)

	assert.Equal(t, "secret", out.Get("TOKEN"))
}
