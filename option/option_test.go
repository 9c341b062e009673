package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll_DistinctNames(t *testing.T) {
	seen := map[string]bool{}
	all := All()
	assert.Len(t, all, 32)
	for _, o := range all {
		assert.True(t, o.Valid())
		assert.NotEmpty(t, o.Description(), o.Name())
		assert.False(t, seen[o.Name()], "duplicate %s", o.Name())
		seen[o.Name()] = true
	}
	assert.Equal(t, RootDir, all[0])
	assert.Equal(t, DataFileDir, all[len(all)-1])
}

func TestParse(t *testing.T) {
	o, ok := Parse("PROJECT_DIR")
	assert.True(t, ok)
	assert.Equal(t, ProjectDir, o)

	_, ok = Parse("project_dir")
	assert.False(t, ok, "names are case sensitive")
}

func TestOf(t *testing.T) {
	assert.Equal(t, LogDir, Of("LOG_DIR"))

	ext := Of("BROWSER_NAME")
	assert.Equal(t, Extension("BROWSER_NAME"), ext)
	assert.Equal(t, "BROWSER_NAME", ext.Name())
	assert.False(t, IsBuiltIn(ext))
	assert.True(t, IsBuiltIn(Extension("RUN_ID")))
	assert.False(t, IsBuiltIn(nil))
}

func TestInvalidOption(t *testing.T) {
	var o Option
	assert.False(t, o.Valid())
	assert.Equal(t, "Option(0)", o.Name())
}
