package middlewarectx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-gateway/internal/admission"
	"github.com/magabrotheeeer/auth-gateway/internal/config"
	"github.com/magabrotheeeer/auth-gateway/internal/models"
)

// Мок механизма допуска
type DeciderMock struct {
	mock.Mock
}

func (m *DeciderMock) Decide(ctx context.Context, probe admission.Probe, rule admission.Rule) (admission.Decision, error) {
	args := m.Called(ctx, probe, rule)
	decision, _ := args.Get(0).(admission.Decision)
	return decision, args.Error(1)
}

func testLimits() config.Admission {
	return config.Admission{
		GuestLimit: 5,
		UserLimit:  10,
		AdminLimit: 20,
		Interval:   time.Minute,
	}
}

func TestAdmissionMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		decision       admission.Decision
		deciderErr     error
		wantStatusCode int
		wantError      string
		wantNextCalled bool
	}{
		{
			name:           "allowed request passes through",
			role:           models.RoleUser,
			decision:       admission.Decision{Kind: admission.Allow},
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "bot denied with 403",
			role:           models.RoleGuest,
			decision:       admission.Decision{Kind: admission.DenyBot, Message: "automated clients are not allowed"},
			wantStatusCode: http.StatusForbidden,
			wantError:      "automated clients are not allowed",
		},
		{
			name:           "shield denied with 403",
			role:           models.RoleGuest,
			decision:       admission.Decision{Kind: admission.DenyShield, Message: "request blocked by security policy"},
			wantStatusCode: http.StatusForbidden,
			wantError:      "request blocked by security policy",
		},
		{
			name:           "rate limit denied with 429",
			role:           models.RoleAdmin,
			decision:       admission.Decision{Kind: admission.DenyRateLimit, Message: "admin rate limit exceeded: 20 requests per 1m0s"},
			wantStatusCode: http.StatusTooManyRequests,
			wantError:      "admin rate limit exceeded: 20 requests per 1m0s",
		},
		{
			name:           "decider failure closes the gate",
			role:           models.RoleUser,
			deciderErr:     errors.New("redis: connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deciderMock := new(DeciderMock)
			deciderMock.On("Decide", mock.Anything, mock.Anything, mock.MatchedBy(func(rule admission.Rule) bool {
				return rule.Role == tt.role
			})).Return(tt.decision, tt.deciderErr).Once()

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
			req.RemoteAddr = "192.0.2.10:54321"
			req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			rec := httptest.NewRecorder()

			AdmissionMiddleware(deciderMock, testLimits(), newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)

			if tt.wantError != "" {
				var got map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			}

			deciderMock.AssertExpectations(t)
		})
	}
}

func TestAdmissionMiddleware_ProbeFields(t *testing.T) {
	deciderMock := new(DeciderMock)

	var seen admission.Probe
	deciderMock.On("Decide", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = args.Get(1).(admission.Probe)
		}).
		Return(admission.Decision{Kind: admission.Allow}, nil).Once()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz?verbose=1", nil)
	req.RemoteAddr = "192.0.2.10:54321"
	req.Header.Set("User-Agent", "curl/8.5.0")
	rec := httptest.NewRecorder()

	AdmissionMiddleware(deciderMock, testLimits(), newNoopLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, "192.0.2.10", seen.IP)
	assert.Equal(t, "curl/8.5.0", seen.UserAgent)
	assert.Equal(t, http.MethodGet, seen.Method)
	assert.Equal(t, "/healthz", seen.Path)
	assert.Equal(t, "verbose=1", seen.Query)
}
