package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinylvault/internal/httpx"
	"vinylvault/internal/platform/crypto"
	"vinylvault/internal/session"
	"vinylvault/internal/testutil"
	"vinylvault/internal/user"
)

const secret = "test-secret-key"

type fixture struct {
	svc       *Service
	sessions  *testutil.MemorySessions
	blacklist *testutil.MemoryBlacklist
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hash, err := crypto.HashPassword(testutil.TestPassword)
	require.NoError(t, err)
	u := testutil.TestUser
	u.PasswordHash = hash

	sessions := testutil.NewMemorySessions()
	blacklist := testutil.NewMemoryBlacklist()
	svc := NewService(secret,
		user.NewService(testutil.NewMemoryUsers(u)),
		session.NewService(sessions, blacklist),
	)
	return fixture{svc: svc, sessions: sessions, blacklist: blacklist}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tokens, err := f.svc.Login(ctx, "TEST@example.com", testutil.TestPassword, false, "ua", "1.2.3.4")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Len(t, tokens.RefreshToken, 64)
	assert.Equal(t, 900, tokens.ExpiresIn)
	assert.Equal(t, 1, f.sessions.Len())

	claims, err := crypto.ParseToken(secret, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestUser.ID, claims.Sub)

	_, err = f.svc.Login(ctx, "test@example.com", "wrong", false, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Login(ctx, "nobody@example.com", testutil.TestPassword, false, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Login(ctx, testutil.TestUser.Email, testutil.TestPassword, true, "", "")
	require.NoError(t, err)

	second, err := f.svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, 1, f.sessions.Len())

	_, err = f.svc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "a consumed refresh token cannot be replayed")
}

func TestService_LogoutRevokesAccessToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tokens, err := f.svc.Login(ctx, testutil.TestUser.Email, testutil.TestPassword, false, "", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, tokens.AccessToken, tokens.RefreshToken, testutil.TestUser.ID))
	assert.Equal(t, 0, f.sessions.Len())

	handler := httpx.AuthMiddleware(secret, f.blacklist)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodGet, "/v1/me", nil, tokens.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.ErrorIs(t, f.svc.Logout(ctx, "garbage", "", testutil.TestUser.ID), ErrUnauthorized)
}

func TestHTTPHandler_Login(t *testing.T) {
	f := newFixture(t)
	h := NewHTTPHandler(f.svc)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, testutil.NewRequest(http.MethodPost, "/v1/auth/login", map[string]any{
			"email": testutil.TestUser.Email, "password": testutil.TestPassword,
		}))
		res := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, res.Code)
		assert.NotEmpty(t, res.Data()["access_token"])
		assert.NotEmpty(t, res.Data()["refresh_token"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, testutil.NewRequest(http.MethodPost, "/v1/auth/login", map[string]any{
			"email": testutil.TestUser.Email, "password": "nope",
		}))
		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, httpx.CodeUnauthorized, res.ErrorCode())
	})

	t.Run("invalid email", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, testutil.NewRequest(http.MethodPost, "/v1/auth/login", map[string]any{
			"email": "not-an-email", "password": "x",
		}))
		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, httpx.CodeValidation, res.ErrorCode())
	})
}

func TestHTTPHandler_LogoutWithoutBody(t *testing.T) {
	f := newFixture(t)
	tokens, err := f.svc.Login(context.Background(), testutil.TestUser.Email, testutil.TestPassword, false, "", "")
	require.NoError(t, err)

	req := testutil.NewRequestWithAuth(http.MethodPost, "/v1/auth/logout", nil, tokens.AccessToken)
	req = req.WithContext(httpx.ContextWithUser(req.Context(), testutil.TestUser.ID, user.RoleUser))
	w := httptest.NewRecorder()
	NewHTTPHandler(f.svc).Logout(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, f.sessions.Len(), "refresh session survives when no refresh_token is sent")
}
