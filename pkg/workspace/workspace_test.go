package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	ws, err := Acquire("codexsync-test-")
	require.NoError(t, err)

	info, err := os.Stat(ws.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, os.WriteFile(filepath.Join(ws.Path(), "f.txt"), []byte("x"), 0o644))

	require.NoError(t, ws.Release())
	_, err = os.Stat(ws.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestDoubleReleaseIsNoop(t *testing.T) {
	ws, err := Acquire("codexsync-test-")
	require.NoError(t, err)

	require.NoError(t, ws.Release())
	require.NoError(t, ws.Release())
}

func TestAcquireIsolation(t *testing.T) {
	a, err := Acquire("codexsync-test-")
	require.NoError(t, err)
	defer a.Release()
	b, err := Acquire("codexsync-test-")
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.Path(), b.Path())
}
