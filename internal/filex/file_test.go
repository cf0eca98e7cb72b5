package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "cache.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	require.NoError(t, EnsureParentDir(path), "second call is a no-op")
}

func TestEnsureParentDir_BareFileName(t *testing.T) {
	require.NoError(t, EnsureParentDir("cache.db"))
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := EnsureParentDir(filepath.Join(blocker, "cache.db"))
	require.Error(t, err)
}

func TestLoadAttachment(t *testing.T) {
	tmp := t.TempDir()

	t.Run("content type from extension", func(t *testing.T) {
		p := filepath.Join(tmp, "avatar.png")
		require.NoError(t, os.WriteFile(p, []byte("not really a png"), 0o600))

		a, err := LoadAttachment(p)
		require.NoError(t, err)
		assert.Equal(t, "avatar.png", a.Name)
		assert.Equal(t, "image/png", a.ContentType)
		assert.Equal(t, []byte("not really a png"), a.Data)
	})

	t.Run("sniffed when extension unknown", func(t *testing.T) {
		p := filepath.Join(tmp, "notes")
		require.NoError(t, os.WriteFile(p, []byte("plain words"), 0o600))

		a, err := LoadAttachment(p)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(a.ContentType, "text/plain"), a.ContentType)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAttachment(filepath.Join(tmp, "missing.jpg"))
		require.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadAttachment(tmp)
		require.Error(t, err)
	})
}
