package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authcore/internal/cache"
	"github.com/dropDatabas3/authcore/internal/domain/repository"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/store/memory"
	"github.com/dropDatabas3/authcore/internal/token"
)

type authnFixture struct {
	store     *memory.Store
	issuer    *jwtx.Issuer
	validator *token.Validator
	revoker   *token.Revoker
}

func newAuthnFixture(t *testing.T) *authnFixture {
	t.Helper()

	keys, err := jwtx.Generate()
	require.NoError(t, err)
	codec := jwtx.NewCodec(keys, "authcore-test")

	store := memory.New()
	revocations := token.NewRevocationStore(store, cache.NewMemory("test", time.Minute), time.Minute)

	return &authnFixture{
		store:     store,
		issuer:    jwtx.NewIssuer(codec),
		validator: token.NewValidator(codec, revocations, store),
		revoker:   token.NewRevoker(revocations, store),
	}
}

func (f *authnFixture) tokenFor(t *testing.T, email string) (*repository.User, *jwtx.Token) {
	t.Helper()
	u, err := f.store.Create(context.Background(), repository.CreateUserInput{
		Email:        email,
		PasswordHash: "x",
		Role:         "user",
	})
	require.NoError(t, err)

	pair, err := f.issuer.IssuePair(jwtx.Identity{
		UserID:       u.ID,
		Role:         u.Role,
		Email:        u.Email,
		TokenVersion: u.TokenVersion,
	})
	require.NoError(t, err)
	return u, pair
}

// echoPrincipal responde 200 e informa si hay Principal en el contexto.
func echoPrincipal(t *testing.T, got *Principal, found *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		*found = ok
		if ok {
			*got = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticationAnonymousPassThrough(t *testing.T) {
	f := newAuthnFixture(t)

	var p Principal
	var found bool
	h := WithAuthentication(f.validator)(echoPrincipal(t, &p, &found))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, found)
}

func TestAuthenticationRejectsNonBearerScheme(t *testing.T) {
	f := newAuthnFixture(t)
	h := WithAuthentication(f.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for _, header := range []string{"Basic dXNlcjpwYXNz", "Bearer", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "header %q", header)
	}
}

func TestAuthenticationMaterializesPrincipal(t *testing.T) {
	f := newAuthnFixture(t)
	u, pair := f.tokenFor(t, "ana@example.com")

	var p Principal
	var found bool
	h := WithAuthentication(f.validator)(echoPrincipal(t, &p, &found))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	require.Equal(t, u.ID, p.UserID)
	require.Equal(t, "user", p.Role)
	require.Equal(t, "ana@example.com", p.Email)
	require.NotNil(t, p.Claims)
}

func TestAuthenticationRejectsRevokedToken(t *testing.T) {
	f := newAuthnFixture(t)
	_, pair := f.tokenFor(t, "ana@example.com")
	ctx := context.Background()

	cl, err := f.validator.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.revoker.RevokeTokenIDs(ctx, cl.JTI()))

	h := WithAuthentication(f.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}

func TestAuthenticationRejectsGarbageToken(t *testing.T) {
	f := newAuthnFixture(t)
	h := WithAuthentication(f.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

func TestAuthenticationFailsClosedOnStoreOutage(t *testing.T) {
	f := newAuthnFixture(t)
	_, pair := f.tokenFor(t, "ana@example.com")

	f.store.FailWith = repository.ErrUnavailable

	h := WithAuthentication(f.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "STORE_UNAVAILABLE")
}

func TestRequireAuthBlocksAnonymous(t *testing.T) {
	h := RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, `Bearer realm="authcore"`, rec.Header().Get("WWW-Authenticate"))
}

func TestRequireAuthAdmitsPrincipal(t *testing.T) {
	var ran bool
	h := RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: "user-1"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ran)
}
