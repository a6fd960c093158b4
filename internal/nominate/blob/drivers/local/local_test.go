package local_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob/blobtest"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/local"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s, err := local.New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	blobtest.Run(t, s)
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := local.New("")
	require.Error(t, err)
}

func TestPut_StaysInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	s, err := local.New(dir)
	require.NoError(t, err)

	_, err = s.Put(t.Context(), "../escape.txt", "", []byte("x"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "escape.txt"))
	require.True(t, os.IsNotExist(statErr))
}
