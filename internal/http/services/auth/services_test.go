package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authcore/internal/cache"
	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/store/memory"
	"github.com/dropDatabas3/authcore/internal/token"
)

type env struct {
	store     *memory.Store
	issuer    *jwtx.Issuer
	validator *token.Validator
	services  Services
}

func newEnv(t *testing.T) *env {
	t.Helper()

	keys, err := jwtx.Generate()
	require.NoError(t, err)
	codec := jwtx.NewCodec(keys, "authcore-test")
	issuer := jwtx.NewIssuer(codec)

	store := memory.New()
	revocations := token.NewRevocationStore(store, cache.NewMemory("test", time.Minute), time.Minute)
	validator := token.NewValidator(codec, revocations, store)
	revoker := token.NewRevoker(revocations, store)

	return &env{
		store:     store,
		issuer:    issuer,
		validator: validator,
		services: New(Deps{
			Users:     store,
			Issuer:    issuer,
			Validator: validator,
			Revoker:   revoker,
		}),
	}
}

func (e *env) register(t *testing.T, email, pass string) string {
	t.Helper()
	u, err := e.services.Register.Register(context.Background(), dto.RegisterRequest{
		Email:    email,
		Password: pass,
	})
	require.NoError(t, err)
	return u.ID
}

func TestLoginHappyPath(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	pair, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	cl, err := e.validator.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", cl.Email)
	require.Equal(t, jwtx.UseAccess, cl.Use)
}

func TestLoginNormalizesEmail(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")

	_, err := e.services.Login.Login(context.Background(), dto.LoginRequest{
		Email:    "  ANA@Example.COM ",
		Password: "hunter22pass",
	})
	require.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	// Usuario inexistente y password incorrecto devuelven el mismo error.
	_, errUnknown := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever99"})
	_, errBadPass := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "wrongpass99"})

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errBadPass, ErrInvalidCredentials)
}

func TestLoginMissingFields(t *testing.T) {
	e := newEnv(t)

	_, err := e.services.Login.Login(context.Background(), dto.LoginRequest{Email: "", Password: ""})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestRefreshIssuesNewAccess(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	pair, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)

	refreshed, err := e.services.Refresh.Refresh(ctx, dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, refreshed.AccessToken)
	require.Equal(t, pair.RefreshToken, refreshed.RefreshToken)

	_, err = e.validator.Validate(ctx, refreshed.AccessToken)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	pair, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)

	// Un access token válido no sirve como refresh.
	_, err = e.services.Refresh.Refresh(ctx, dto.RefreshRequest{RefreshToken: pair.AccessToken})
	require.ErrorIs(t, err, ErrNotRefreshToken)
}

func TestRefreshRejectsTamperedToken(t *testing.T) {
	e := newEnv(t)

	otherKeys, err := jwtx.Generate()
	require.NoError(t, err)
	foreignIssuer := jwtx.NewIssuer(jwtx.NewCodec(otherKeys, "authcore-test"))
	foreign, err := foreignIssuer.IssuePair(jwtx.Identity{UserID: "user-1"})
	require.NoError(t, err)

	_, err = e.services.Refresh.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: foreign.RefreshToken})
	require.ErrorIs(t, err, jwtx.ErrBadSignature)
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	pair, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)

	require.NoError(t, e.services.Logout.Logout(ctx, dto.LogoutRequest{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}))

	_, err = e.validator.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, token.ErrTokenRevoked)
	_, err = e.validator.Validate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, token.ErrTokenRevoked)
}

func TestLogoutIsNotIdempotent(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	pair, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)

	req := dto.LogoutRequest{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	require.NoError(t, e.services.Logout.Logout(ctx, req))

	// Repetir el logout con tokens ya revocados es un error, no un no-op.
	err = e.services.Logout.Logout(ctx, req)
	require.ErrorIs(t, err, ErrTokenAlreadyInvalidated)
	require.ErrorIs(t, err, token.ErrTokenRevoked)
}

func TestLogoutRejectsExpiredAccess(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	// Emitir un par con access ya vencido.
	e.issuer.AccessTTL = -time.Minute
	pair, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)

	err = e.services.Logout.Logout(ctx, dto.LogoutRequest{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.ErrorIs(t, err, ErrTokenAlreadyInvalidated)
	require.ErrorIs(t, err, jwtx.ErrTokenExpired)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ana@example.com", "hunter22pass")

	_, err := e.services.Register.Register(context.Background(), dto.RegisterRequest{
		Email:    "ANA@example.com",
		Password: "hunter22pass",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.services.Register.Register(ctx, dto.RegisterRequest{Email: "not-an-email", Password: "hunter22pass"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = e.services.Register.Register(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestChangePasswordInvalidatesOldTokens(t *testing.T) {
	e := newEnv(t)
	id := e.register(t, "ana@example.com", "hunter22pass")
	ctx := context.Background()

	old, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.NoError(t, err)

	require.NoError(t, e.services.Password.ChangePassword(ctx, id, dto.ChangePasswordRequest{
		CurrentPassword: "hunter22pass",
		NewPassword:     "betterpass99",
	}))

	// Todo token anterior al cambio queda inválido, access y refresh.
	_, err = e.validator.Validate(ctx, old.AccessToken)
	require.ErrorIs(t, err, token.ErrTokenRevoked)
	_, err = e.validator.Validate(ctx, old.RefreshToken)
	require.ErrorIs(t, err, token.ErrTokenRevoked)

	// El password viejo ya no sirve, el nuevo sí.
	_, err = e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter22pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	fresh, err := e.services.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "betterpass99"})
	require.NoError(t, err)

	_, err = e.validator.Validate(ctx, fresh.AccessToken)
	require.NoError(t, err)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	e := newEnv(t)
	id := e.register(t, "ana@example.com", "hunter22pass")

	err := e.services.Password.ChangePassword(context.Background(), id, dto.ChangePasswordRequest{
		CurrentPassword: "wrongpass99",
		NewPassword:     "betterpass99",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
