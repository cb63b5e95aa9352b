package jwt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyPairSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.key")

	keys, err := Generate()
	require.NoError(t, err)
	require.NoError(t, keys.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, keys.Priv, loaded.Priv)
	require.Equal(t, keys.Pub, loaded.Pub)
}

func TestLoadOrGenerateCreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.key")

	first, err := LoadOrGenerate(path)
	require.NoError(t, err)

	second, err := LoadOrGenerate(path)
	require.NoError(t, err)
	require.Equal(t, first.Priv, second.Priv)
}
