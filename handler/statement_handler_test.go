package handler

import (
	"context"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func inputMatching(userID uuid.UUID, opType model.OperationType, amount string) interface{} {
	want := decimal.RequireFromString(amount)
	return mock.MatchedBy(func(in service.CreateStatementInput) bool {
		return in.UserID == userID && in.Type == opType && in.Amount.Equal(want)
	})
}

func TestStatementHandler_CreateStatement(t *testing.T) {
	userID := uuid.New()
	statementID := uuid.New()

	tests := []struct {
		name         string
		route        string
		body         string
		setupMock    func(s *MockStatementService)
		expectedCode int
		expectedBody string
	}{
		{
			name:  "deposit",
			route: "deposit",
			body:  `{"amount":100.50,"description":"salary"}`,
			setupMock: func(s *MockStatementService) {
				s.On("CreateStatement", mock.Anything, inputMatching(userID, model.OperationDeposit, "100.50")).
					Return(&model.Statement{ID: statementID, UserID: userID, Type: model.OperationDeposit, Amount: decimal.RequireFromString("100.50"), Description: "salary"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:  "withdraw",
			route: "withdraw",
			body:  `{"amount":50.99,"description":"groceries"}`,
			setupMock: func(s *MockStatementService) {
				s.On("CreateStatement", mock.Anything, inputMatching(userID, model.OperationWithdraw, "50.99")).
					Return(&model.Statement{ID: statementID, UserID: userID, Type: model.OperationWithdraw, Amount: decimal.RequireFromString("50.99")}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:  "insufficient funds",
			route: "withdraw",
			body:  `{"amount":5000,"description":"rent"}`,
			setupMock: func(s *MockStatementService) {
				s.On("CreateStatement", mock.Anything, mock.Anything).Return(nil, service.ErrInsufficientFunds)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"code":400,"message":"Insufficient funds"}`,
		},
		{
			name:  "user deleted",
			route: "deposit",
			body:  `{"amount":10,"description":"gift"}`,
			setupMock: func(s *MockStatementService) {
				s.On("CreateStatement", mock.Anything, mock.Anything).Return(nil, service.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"code":404,"message":"User not found"}`,
		},
		{
			name:         "negative amount",
			route:        "deposit",
			body:         `{"amount":-10,"description":"gift"}`,
			setupMock:    func(s *MockStatementService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "amount as string is rejected",
			route:        "deposit",
			body:         `{"amount":"abc","description":"gift"}`,
			setupMock:    func(s *MockStatementService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockStatementService)
			tc.setupMock(svc)
			h := NewStatementHandler(svc)

			handlerFunc := h.Deposit
			if tc.route == "withdraw" {
				handlerFunc = h.Withdraw
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/"+tc.route, strings.NewReader(tc.body))
			req = req.WithContext(withUser(req.Context(), userID))
			rr := httptest.NewRecorder()

			ErrorHandlingMiddleware(handlerFunc).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
			if tc.expectedCode == http.StatusCreated {
				assert.Contains(t, rr.Body.String(), `"id":"`+statementID.String()+`"`)
				assert.Contains(t, rr.Body.String(), `"user_id":"`+userID.String()+`"`)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestStatementHandler_Balance(t *testing.T) {
	userID := uuid.New()

	t.Run("empty ledger", func(t *testing.T) {
		svc := new(MockStatementService)
		svc.On("GetBalance", mock.Anything, userID).Return(&model.Balance{Statement: []*model.Statement{}, Balance: decimal.Zero}, nil)
		h := NewStatementHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/balance", nil)
		req = req.WithContext(withUser(req.Context(), userID))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Balance).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"statement":[],"balance":0}`, rr.Body.String())
	})

	t.Run("with statements", func(t *testing.T) {
		now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		statements := []*model.Statement{
			{ID: uuid.New(), UserID: userID, Type: model.OperationDeposit, Amount: decimal.NewFromInt(100), CreatedAt: now, UpdatedAt: now},
			{ID: uuid.New(), UserID: userID, Type: model.OperationWithdraw, Amount: decimal.NewFromInt(30), CreatedAt: now, UpdatedAt: now},
		}
		svc := new(MockStatementService)
		svc.On("GetBalance", mock.Anything, userID).Return(&model.Balance{Statement: statements, Balance: model.CalculateBalance(statements)}, nil)
		h := NewStatementHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/balance", nil)
		req = req.WithContext(withUser(req.Context(), userID))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Balance).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"balance":70`)
	})

	t.Run("user deleted", func(t *testing.T) {
		svc := new(MockStatementService)
		svc.On("GetBalance", mock.Anything, userID).Return(nil, service.ErrUserNotFound)
		h := NewStatementHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/balance", nil)
		req = req.WithContext(withUser(req.Context(), userID))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Balance).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func requestWithStatementID(t *testing.T, userID uuid.UUID, statementID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/"+statementID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("statement_id", statementID)
	ctx := context.WithValue(withUser(req.Context(), userID), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestStatementHandler_GetStatement(t *testing.T) {
	userID := uuid.New()
	statementID := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(MockStatementService)
		svc.On("GetStatement", mock.Anything, userID, statementID).
			Return(&model.Statement{ID: statementID, UserID: userID, Type: model.OperationDeposit, Amount: decimal.RequireFromString("12.34")}, nil)
		h := NewStatementHandler(svc)

		rr := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.GetStatement).ServeHTTP(rr, requestWithStatementID(t, userID, statementID.String()))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"amount":12.34`)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockStatementService)
		svc.On("GetStatement", mock.Anything, userID, statementID).Return(nil, service.ErrStatementNotFound)
		h := NewStatementHandler(svc)

		rr := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.GetStatement).ServeHTTP(rr, requestWithStatementID(t, userID, statementID.String()))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"code":404,"message":"Statement not found"}`, rr.Body.String())
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := new(MockStatementService)
		h := NewStatementHandler(svc)

		rr := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.GetStatement).ServeHTTP(rr, requestWithStatementID(t, userID, "not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "GetStatement", mock.Anything, mock.Anything, mock.Anything)
	})
}
