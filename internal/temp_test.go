package internal_test

import (
	"github.com/brodo/incbundle/internal"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestPublish_MergesIntoExistingFolder(t *testing.T) {
	stage, err := internal.CreateTempFolder("test")
	require.NoError(t, err)
	defer os.RemoveAll(stage)
	require.NoError(t, os.WriteFile(filepath.Join(stage, "prod.inc.js"), []byte("new"), 0o600))

	out := filepath.Join(t.TempDir(), "prod")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "unmin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "prod.inc.js"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "unmin", "prod.inc.js"), []byte("sibling"), 0o644))

	require.NoError(t, internal.Publish(stage, out))

	content, err := os.ReadFile(filepath.Join(out, "prod.inc.js"))
	require.NoError(t, err)
	require.Equal(t, "new", string(content))
	sibling, err := os.ReadFile(filepath.Join(out, "unmin", "prod.inc.js"))
	require.NoError(t, err)
	require.Equal(t, "sibling", string(sibling))
}
