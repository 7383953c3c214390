package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nightout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
		wantEmail  string
	}{
		{
			name:       "success normalizes email",
			body:       `{"email":"  Alice@Example.com ","password":"longenough","name":" Alice "}`,
			wantStatus: http.StatusCreated,
			wantEmail:  "alice@example.com",
		},
		{
			name:       "short password",
			body:       `{"email":"alice@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "bad email",
			body:       `{"email":"alice","password":"longenough"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "duplicate email",
			body:       `{"email":"alice@example.com","password":"longenough"}`,
			fakeErr:    domain.ErrDuplicateEmail,
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "service error",
			body:       `{"email":"alice@example.com","password":"longenough"}`,
			fakeErr:    errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{user: &domain.User{ID: "user-1", Email: "alice@example.com", Name: "Alice"}, err: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var user domain.User
			envelope := decodeData(t, rr, &user)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			assert.Equal(t, "user-1", user.ID)
			assert.Equal(t, tt.wantEmail, fake.lastEmail)
			assert.Equal(t, "Alice", fake.lastName)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{"success", `{"email":"alice@example.com","password":"longenough"}`, nil, http.StatusOK, ""},
		{"missing password", `{"email":"alice@example.com"}`, nil, http.StatusBadRequest, "bad_request"},
		{"invalid credentials", `{"email":"alice@example.com","password":"wrong-one"}`, domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{token: "jwt-token", err: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var resp LoginResponse
			envelope := decodeData(t, rr, &resp)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			assert.Equal(t, LoginResponse{Token: "jwt-token", TokenType: "Bearer"}, resp)
		})
	}
}
