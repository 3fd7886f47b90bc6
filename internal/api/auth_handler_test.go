package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunafield/cortex-api/internal/domain"
	"github.com/lunafield/cortex-api/internal/service/auth"
	"github.com/lunafield/cortex-api/internal/store"
)

type stubUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user)
	}
	return nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) Update(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

type stubVerifier struct {
	err error
}

func (v *stubVerifier) Compare(hashedPassword, password string) error { return v.err }

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user and returns token pair", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&stubUserStore{}, &auth.MockJWTService{}, &stubVerifier{})
		w := postJSON(t, handler.Register, RegisterRequest{
			Email:    "user@example.com",
			Password: "a-long-enough-password",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "mock-access-token", resp.AccessToken)
		assert.Equal(t, "mock-refresh-token", resp.RefreshToken)
		assert.NotEqual(t, uuid.Nil, resp.UserID)
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		t.Parallel()

		users := &stubUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		handler := NewAuthHandler(users, &auth.MockJWTService{}, &stubVerifier{})
		w := postJSON(t, handler.Register, RegisterRequest{
			Email:    "user@example.com",
			Password: "a-long-enough-password",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&stubUserStore{}, &auth.MockJWTService{}, &stubVerifier{})
		w := postJSON(t, handler.Register, RegisterRequest{
			Email:    "user@example.com",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &stubUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email != "user@example.com" {
				return nil, store.ErrUserNotFound
			}
			return &domain.User{ID: userID, Email: email, HashedPassword: "hashed"}, nil
		},
	}

	t.Run("valid credentials return token pair", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(users, &auth.MockJWTService{}, &stubVerifier{})
		w := postJSON(t, handler.Login, LoginRequest{
			Email:    "user@example.com",
			Password: "correct-password",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password returns unauthorized", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(users, &auth.MockJWTService{}, &stubVerifier{err: assert.AnError})
		w := postJSON(t, handler.Login, LoginRequest{
			Email:    "user@example.com",
			Password: "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email returns unauthorized", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(users, &auth.MockJWTService{}, &stubVerifier{})
		w := postJSON(t, handler.Login, LoginRequest{
			Email:    "other@example.com",
			Password: "whatever",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		jwt := &auth.MockJWTService{
			ValidateRefreshTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return &auth.Claims{UserID: userID}, nil
			},
		}
		handler := NewAuthHandler(&stubUserStore{}, jwt, &stubVerifier{})
		w := postJSON(t, handler.RefreshToken, RefreshTokenRequest{RefreshToken: "refresh"})

		require.Equal(t, http.StatusOK, w.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "mock-access-token", resp.AccessToken)
		assert.Equal(t, "mock-refresh-token", resp.RefreshToken)
	})

	t.Run("invalid refresh token returns unauthorized", func(t *testing.T) {
		t.Parallel()

		jwt := &auth.MockJWTService{
			ValidateRefreshTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidRefreshToken
			},
		}
		handler := NewAuthHandler(&stubUserStore{}, jwt, &stubVerifier{})
		w := postJSON(t, handler.RefreshToken, RefreshTokenRequest{RefreshToken: "bad"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing refresh token is rejected", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&stubUserStore{}, &auth.MockJWTService{}, &stubVerifier{})
		w := postJSON(t, handler.RefreshToken, RefreshTokenRequest{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
