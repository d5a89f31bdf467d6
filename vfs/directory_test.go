package vfs

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryDriver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "model.anim"), []byte{1, 2, 3}, 0666))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0777))

	dd := NewDirectoryDriver(dir)
	assert.Equal(t, dir, dd.Path())
	names, err := dd.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"model.anim", "sub"}, names)

	f, err := DirectoryGetFile(dd, "model.anim")
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.Size())

	r, err := OpenFileAndGetReader(f, true)
	require.NoError(t, err)
	defer f.Close()
	data, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = DirectoryGetFile(dd, "sub")
	assert.Error(t, err)
}

func TestDirectoryDriverRejectsPaths(t *testing.T) {
	dd := NewDirectoryDriver(t.TempDir())
	for _, name := range []string{"", ".", "..", "../etc", "a/b", "a\\b"} {
		_, err := dd.GetElement(name)
		assert.Error(t, err, name)
	}
}
