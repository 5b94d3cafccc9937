package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "tinderbox.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "schema.graphql", cfg.Schema)
		assert.Empty(t, cfg.IpfsFiles)
	})

	t.Run("full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tinderbox.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
schema: subgraph/schema.graphql
ipfsFiles:
  QmHash: testdata/doc.json
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "subgraph/schema.graphql", cfg.Schema)
		assert.Equal(t, map[string]string{"QmHash": "testdata/doc.json"}, cfg.IpfsFiles)
	})

	t.Run("empty schema keeps the default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tinderbox.yaml")
		require.NoError(t, os.WriteFile(path, []byte("ipfsFiles: {}\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "schema.graphql", cfg.Schema)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tinderbox.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema: [unclosed"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
	})
}
