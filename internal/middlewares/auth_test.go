package middlewares

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func basicAuthHeader(identifier, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(identifier+":"+secret))
}

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	password := "secret123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	errInvalid := errors.New("invalid token")

	tests := []struct {
		name         string
		authHeader   string
		mockSetup    func(tokener *MockTokener, users *MockUserGetter)
		expectedCode int
		expectedUser int64
	}{
		{
			name:       "valid token",
			authHeader: basicAuthHeader("sometoken", "unused"),
			mockSetup: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetUserID(gomock.Any(), "sometoken").
					Return(int64(7), nil)
			},
			expectedCode: http.StatusOK,
			expectedUser: 7,
		},
		{
			name:       "password fallback",
			authHeader: basicAuthHeader("Alice ", password),
			mockSetup: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetUserID(gomock.Any(), "Alice ").
					Return(int64(0), errInvalid)
				users.EXPECT().
					GetByUsername(gomock.Any(), "alice").
					Return(&models.UserDB{ID: 3, Username: "alice", PasswordHash: string(hashed)}, nil)
			},
			expectedCode: http.StatusOK,
			expectedUser: 3,
		},
		{
			name:       "wrong password",
			authHeader: basicAuthHeader("alice", "wrongpass"),
			mockSetup: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetUserID(gomock.Any(), "alice").
					Return(int64(0), errInvalid)
				users.EXPECT().
					GetByUsername(gomock.Any(), "alice").
					Return(&models.UserDB{ID: 3, Username: "alice", PasswordHash: string(hashed)}, nil)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			authHeader: basicAuthHeader("ghost", password),
			mockSetup: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetUserID(gomock.Any(), "ghost").
					Return(int64(0), errInvalid)
				users.EXPECT().
					GetByUsername(gomock.Any(), "ghost").
					Return(nil, nil)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "missing credentials",
			authHeader:   "",
			mockSetup:    func(tokener *MockTokener, users *MockUserGetter) {},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokener := NewMockTokener(ctrl)
			users := NewMockUserGetter(ctrl)
			tt.mockSetup(tokener, users)

			var gotUser int64
			var handlerCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				gotUser, _ = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/shoppinglist/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rr := httptest.NewRecorder()
			AuthMiddleware(tokener, users)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				assert.True(t, handlerCalled)
				assert.Equal(t, tt.expectedUser, gotUser)
			} else {
				assert.False(t, handlerCalled)
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
			}
		})
	}
}

func TestUserIDContextRoundtrip(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)

	ctx = SetUserIDToContext(ctx, 99)
	userID, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(99), userID)
}
