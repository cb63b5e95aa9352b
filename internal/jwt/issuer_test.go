package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testIssuer(t *testing.T) *Issuer {
	t.Helper()
	return NewIssuer(testCodec(t))
}

func TestIssuePairDistinctJTIs(t *testing.T) {
	i := testIssuer(t)

	pair, err := i.IssuePair(Identity{UserID: "user-1", Role: "user", TokenVersion: 2})
	require.NoError(t, err)

	access, err := i.Codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := i.Codec.Decode(pair.RefreshToken)
	require.NoError(t, err)

	require.NotEqual(t, access.JTI(), refresh.JTI())
	require.Equal(t, UseAccess, access.Use)
	require.Equal(t, UseRefresh, refresh.Use)
	require.Equal(t, "user-1", access.UserID())
	require.Equal(t, "user-1", refresh.UserID())

	// Ambos llevan el mismo snapshot de versión.
	require.Equal(t, int64(2), access.TokenVersion)
	require.Equal(t, int64(2), refresh.TokenVersion)
}

func TestIssuePairRefreshClaimsAreMinimal(t *testing.T) {
	i := testIssuer(t)

	pair, err := i.IssuePair(Identity{
		UserID: "user-1", Role: "admin", Email: "ana@example.com",
		GivenName: "Ana", TokenVersion: 1,
	})
	require.NoError(t, err)

	refresh, err := i.Codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	require.Empty(t, refresh.Role)
	require.Empty(t, refresh.Email)
	require.Empty(t, refresh.GivenName)
}

func TestIssuePairAccessExpiry(t *testing.T) {
	i := testIssuer(t)
	i.AccessTTL = 5 * time.Minute

	before := time.Now().Add(4 * time.Minute).Unix()
	pair, err := i.IssuePair(Identity{UserID: "user-1"})
	require.NoError(t, err)
	after := time.Now().Add(6 * time.Minute).Unix()

	require.Greater(t, pair.AccessTokenExpiresAt, before)
	require.Less(t, pair.AccessTokenExpiresAt, after)
}

func TestReissueAccessKeepsRefresh(t *testing.T) {
	i := testIssuer(t)

	pair, err := i.IssuePair(Identity{UserID: "user-1", TokenVersion: 1})
	require.NoError(t, err)

	reissued, err := i.ReissueAccess(Identity{UserID: "user-1", Role: "admin", TokenVersion: 1}, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, reissued.RefreshToken)
	require.NotEqual(t, pair.AccessToken, reissued.AccessToken)

	access, err := i.Codec.Decode(reissued.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", access.Role)
}

func TestIssueRequiresIdentity(t *testing.T) {
	i := testIssuer(t)

	_, err := i.IssuePair(Identity{})
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = i.ReissueAccess(Identity{}, "whatever")
	require.ErrorIs(t, err, ErrEmptyIdentity)
}
