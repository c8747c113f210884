package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-gateway/internal/lib/session"
	"github.com/magabrotheeeer/auth-gateway/internal/models"
	"github.com/magabrotheeeer/auth-gateway/internal/storage"
)

// Мок сервиса регистрации
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSignUpHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	sessions := session.New("token", time.Hour, false)
	handler := New(newNoopLogger(), serviceMock, sessions)

	registeredUser := &models.User{
		UID:   "3f6f3a43-41f8-4f8e-bb42-0a9d6e3c0001",
		Name:  "user1",
		Email: "user1@example.com",
		Role:  "user",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
		wantCookie     bool
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockUser:       registeredUser,
			mockToken:      "signed-jwt",
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
			wantCookie:     true,
		},
		{
			name: "valid registration with admin role",
			requestBody: Request{
				Name:     "admin1",
				Email:    "admin1@example.com",
				Password: "password123",
				Role:     "admin",
			},
			mockUser:       &models.User{UID: "uid-2", Name: "admin1", Email: "admin1@example.com", Role: "admin"},
			mockToken:      "signed-jwt",
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
			wantCookie:     true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "missing email",
			requestBody: Request{
				Name:     "user1",
				Password: "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email is a required field",
			wantStatus:     "Error",
		},
		{
			name: "malformed email",
			requestBody: Request{
				Name:     "user1",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email must be a valid email address",
			wantStatus:     "Error",
		},
		{
			name: "password too short",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: "a1b2c",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is shorter than the allowed minimum",
			wantStatus:     "Error",
		},
		{
			name: "password too long",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: strings.Repeat("a1", 65),
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is longer than the allowed maximum",
			wantStatus:     "Error",
		},
		{
			name: "password without digits",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: "onlyletters",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password must contain at least one letter and one digit",
			wantStatus:     "Error",
		},
		{
			name: "unknown role",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: "password123",
				Role:     "superadmin",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Role must be one of the allowed values",
			wantStatus:     "Error",
		},
		{
			name: "duplicate email",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        storage.ErrUserExists,
			wantStatusCode: http.StatusConflict,
			wantError:      "email is already registered",
			wantStatus:     "Error",
		},
		{
			name: "registration service error",
			requestBody: Request{
				Name:     "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        errors.New("storage unavailable"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockUser != nil || tt.mockErr != nil {
				serviceMock.On("Register", mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/sign-up", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])

				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "user created successfully", data["message"])

				user, ok := data["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.mockUser.UID, user["id"])
				assert.Equal(t, tt.mockUser.Email, user["email"])
				assert.Equal(t, tt.mockUser.Role, user["role"])
			}

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, "token", cookies[0].Name)
				assert.Equal(t, tt.mockToken, cookies[0].Value)
			} else {
				assert.Empty(t, cookies)
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
