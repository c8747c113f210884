package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/auth-gateway/internal/lib/session"
	"github.com/magabrotheeeer/auth-gateway/internal/models"
)

// Мок сервиса аутентификации
type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// identityCapture запоминает значения контекста, дошедшие до обработчика.
type identityCapture struct {
	uid   any
	email any
	role  string
}

func TestSessionMiddleware(t *testing.T) {
	sessions := session.New("token", time.Hour, false)

	tests := []struct {
		name      string
		cookie    *http.Cookie
		mockUser  *models.User
		mockErr   error
		wantUID   any
		wantEmail any
		wantRole  string
	}{
		{
			name:     "no cookie proceeds as guest",
			cookie:   nil,
			wantRole: models.RoleGuest,
		},
		{
			name:     "invalid token proceeds as guest",
			cookie:   &http.Cookie{Name: "token", Value: "garbage"},
			mockErr:  assert.AnError,
			wantRole: models.RoleGuest,
		},
		{
			name:   "valid token restores identity",
			cookie: &http.Cookie{Name: "token", Value: "signed-jwt"},
			mockUser: &models.User{
				UID:   "uid-1",
				Email: "al@example.com",
				Role:  models.RoleAdmin,
			},
			wantUID:   "uid-1",
			wantEmail: "al@example.com",
			wantRole:  models.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			if tt.cookie != nil {
				authMock.On("Authenticate", mock.Anything, tt.cookie.Value).
					Return(tt.mockUser, tt.mockErr).Once()
			}

			var got identityCapture
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got.uid = r.Context().Value(UID)
				got.email = r.Context().Value(Email)
				got.role = RoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/sign-out", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			SessionMiddleware(authMock, sessions, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantUID, got.uid)
			assert.Equal(t, tt.wantEmail, got.email)
			assert.Equal(t, tt.wantRole, got.role)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRoleFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			name: "empty context",
			ctx:  context.Background(),
			want: models.RoleGuest,
		},
		{
			name: "empty role value",
			ctx:  context.WithValue(context.Background(), Role, ""),
			want: models.RoleGuest,
		},
		{
			name: "admin role",
			ctx:  context.WithValue(context.Background(), Role, models.RoleAdmin),
			want: models.RoleAdmin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleFromContext(tt.ctx))
		})
	}
}
