package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCheckoutService overrides only what a test needs; anything else panics.
type stubCheckoutService struct {
	usecase.CheckoutService

	open    func(req *request.OpenCheckoutRequest, user *usecase.AuthUser) (*response.CheckoutResponse, error)
	pay     func(id string, user *usecase.AuthUser) (*response.CheckoutResponse, error)
	closeFn func(id string, user *usecase.AuthUser) error
}

func (s *stubCheckoutService) Open(_ context.Context, req *request.OpenCheckoutRequest, user *usecase.AuthUser) (*response.CheckoutResponse, error) {
	return s.open(req, user)
}

func (s *stubCheckoutService) Pay(_ context.Context, id string, user *usecase.AuthUser) (*response.CheckoutResponse, error) {
	return s.pay(id, user)
}

func (s *stubCheckoutService) Close(_ context.Context, id string, user *usecase.AuthUser) error {
	return s.closeFn(id, user)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func checkoutRouter(svc usecase.CheckoutService) http.Handler {
	h := NewCheckoutHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/checkouts", h.Open)
	r.Post("/api/checkouts/{id}/pay", h.Pay)
	r.Delete("/api/checkouts/{id}", h.Close)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCheckoutPaySignInRequired(t *testing.T) {
	var gotUser *usecase.AuthUser
	svc := &stubCheckoutService{
		pay: func(_ string, user *usecase.AuthUser) (*response.CheckoutResponse, error) {
			gotUser = user
			return nil, usecase.ErrAuthenticationRequired
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkouts/"+uuid.NewString()+"/pay", nil)
	rec := httptest.NewRecorder()
	checkoutRouter(svc).ServeHTTP(rec, req)

	assert.Nil(t, gotUser, "no session means no user")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Status)
	assert.Equal(t, usecase.ErrAuthenticationRequired.Error(), env.Message)
	assert.JSONEq(t, `{"redirect":"/api/login"}`, string(env.Data))
}

func TestCheckoutPayPassesSessionUser(t *testing.T) {
	userID := uuid.New()
	checkoutID := uuid.NewString()

	var gotID string
	var gotUser *usecase.AuthUser
	svc := &stubCheckoutService{
		pay: func(id string, user *usecase.AuthUser) (*response.CheckoutResponse, error) {
			gotID, gotUser = id, user
			return &response.CheckoutResponse{ID: id, Step: "confirmed", Total: 450}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkouts/"+checkoutID+"/pay", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), userID, "ana@example.com", "user"))
	rec := httptest.NewRecorder()
	checkoutRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, checkoutID, gotID)
	require.NotNil(t, gotUser)
	assert.Equal(t, userID, gotUser.ID)
	assert.Equal(t, "ana@example.com", gotUser.Email)

	var checkout response.CheckoutResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &checkout))
	assert.Equal(t, "confirmed", checkout.Step)
}

func TestCheckoutPayLifecycleFailure(t *testing.T) {
	svc := &stubCheckoutService{
		pay: func(id string, _ *usecase.AuthUser) (*response.CheckoutResponse, error) {
			reverted := &response.CheckoutResponse{ID: id, Step: "payment", Seats: 2}
			return reverted, &usecase.LifecycleError{
				Op:  "create",
				Err: errors.New("create booking: new row violates check constraint"),
			}
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkouts/"+uuid.NewString()+"/pay", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), "ana@example.com", "user"))
	rec := httptest.NewRecorder()
	checkoutRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "create booking: new row violates check constraint", env.Message)

	var checkout response.CheckoutResponse
	require.NoError(t, json.Unmarshal(env.Data, &checkout))
	assert.Equal(t, "payment", checkout.Step, "body carries the reverted checkout")
	assert.Equal(t, 2, checkout.Seats)
}

func TestCheckoutErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", usecase.ErrCheckoutNotFound, http.StatusNotFound},
		{"wrapped not found", errors.New("get movie: movie not found"), http.StatusNotFound},
		{"busy", usecase.ErrCheckoutBusy, http.StatusConflict},
		{"other user", usecase.ErrCheckoutForbidden, http.StatusForbidden},
		{"transition", usecase.ErrInvalidTransition, http.StatusConflict},
		{"housefull", usecase.ErrHousefull, http.StatusConflict},
		{"bad id", errors.New("invalid checkout ID format"), http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubCheckoutService{closeFn: func(string, *usecase.AuthUser) error { return tt.err }}

			req := httptest.NewRequest(http.MethodDelete, "/api/checkouts/"+uuid.NewString(), nil)
			rec := httptest.NewRecorder()
			checkoutRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", decodeEnvelope(t, rec).Message)
			}
		})
	}
}

func TestCheckoutOpenValidation(t *testing.T) {
	called := false
	svc := &stubCheckoutService{
		open: func(req *request.OpenCheckoutRequest, _ *usecase.AuthUser) (*response.CheckoutResponse, error) {
			called = true
			return &response.CheckoutResponse{ID: uuid.NewString(), Flow: req.Flow, Step: "theaters"}, nil
		},
	}
	router := checkoutRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkouts",
		strings.NewReader(`{"movie_id":"nope","flow":"express"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, string(env.Errors), "MovieID")
	assert.Contains(t, string(env.Errors), "Flow")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkouts",
		strings.NewReader(`{"movie_id":"`+uuid.NewString()+`","flow":"full"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, called)
}

func TestCheckoutOpenPassesSessionUser(t *testing.T) {
	userID := uuid.New()

	var gotUser *usecase.AuthUser
	svc := &stubCheckoutService{
		open: func(_ *request.OpenCheckoutRequest, user *usecase.AuthUser) (*response.CheckoutResponse, error) {
			gotUser = user
			return &response.CheckoutResponse{ID: uuid.NewString(), Flow: "full", Step: "theaters"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkouts",
		strings.NewReader(`{"movie_id":"`+uuid.NewString()+`"}`))
	req = req.WithContext(utils.SetUserContext(req.Context(), userID, "ana@example.com", "user"))
	rec := httptest.NewRecorder()
	checkoutRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, userID, gotUser.ID)
}
