package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-ledger-api/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = userIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name         string
		header       string
		setupMock    func(p *MockTokenParser)
		expectedCode int
		expectedBody string
	}{
		{
			name:         "missing header",
			header:       "",
			setupMock:    func(p *MockTokenParser) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"code":401,"message":"JWT token is missing"}`,
		},
		{
			name:         "not a bearer header",
			header:       "Basic abc",
			setupMock:    func(p *MockTokenParser) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"code":401,"message":"JWT token is missing"}`,
		},
		{
			name:   "invalid token",
			header: "Bearer bad-token",
			setupMock: func(p *MockTokenParser) {
				p.On("ParseToken", "bad-token").Return(uuid.Nil, service.ErrInvalidToken)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"code":401,"message":"JWT invalid token!"}`,
		},
		{
			name:   "valid token",
			header: "Bearer good-token",
			setupMock: func(p *MockTokenParser) {
				p.On("ParseToken", "good-token").Return(userID, nil)
			},
			expectedCode: http.StatusNoContent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.Nil
			parser := new(MockTokenParser)
			tc.setupMock(parser)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(parser)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			} else {
				assert.Equal(t, userID, seen)
			}
			parser.AssertExpectations(t)
		})
	}
}
