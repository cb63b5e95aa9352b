package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fast es un costo bajo para que la suite no tarde.
var fast = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify(t *testing.T) {
	phc, err := Hash(fast, "hunter22")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(phc, "$argon2id$v=19$"))

	require.True(t, Verify("hunter22", phc))
	require.False(t, Verify("hunter23", phc))
	require.False(t, Verify("", phc))
}

func TestHashSaltsDiffer(t *testing.T) {
	a, err := Hash(fast, "hunter22")
	require.NoError(t, err)
	b, err := Hash(fast, "hunter22")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := Hash(fast, "")
	require.Error(t, err)
}

func TestVerifyMalformedPHC(t *testing.T) {
	for _, phc := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$!!$aGFzaA",
	} {
		require.False(t, Verify("hunter22", phc), "phc %q", phc)
	}
}
