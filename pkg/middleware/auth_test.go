package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
	err      error
}

func (f *fakeSessionRepo) Create(context.Context, *entity.Session) error { return nil }

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[token], nil
}

func (f *fakeSessionRepo) Revoke(context.Context, string) error { return nil }

func (f *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) Create(context.Context, *entity.User) error { return nil }

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(context.Context, string) (*entity.User, error)    { return nil, nil }
func (f *fakeUserRepo) FindByUsername(context.Context, string) (*entity.User, error) { return nil, nil }

// whoami answers 200 with the user id from context, or 204 when anonymous.
func whoami(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(userID.String()))
}

func newSession(role entity.UserRole) *entity.Session {
	return &entity.Session{
		UserID:    uuid.New(),
		Token:     uuid.New(),
		UserEmail: "ana@example.com",
		UserRole:  role,
	}
}

func TestOptionalAuth(t *testing.T) {
	session := newSession(entity.RoleCustomer)
	repo := &fakeSessionRepo{sessions: map[string]*entity.Session{session.Token.String(): session}}
	handler := OptionalAuth(repo, zap.NewNop())(http.HandlerFunc(whoami))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"anonymous", "", http.StatusNoContent},
		{"malformed header", "Token abc", http.StatusNoContent},
		{"unknown token", "Bearer " + uuid.NewString(), http.StatusNoContent},
		{"valid session", "Bearer " + session.Token.String(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/checkouts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, session.UserID.String(), rec.Body.String())
			}
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		failing := OptionalAuth(&fakeSessionRepo{err: errors.New("db down")}, zap.NewNop())(http.HandlerFunc(whoami))
		req := httptest.NewRequest(http.MethodGet, "/api/checkouts", nil)
		req.Header.Set("Authorization", "Bearer "+uuid.NewString())
		rec := httptest.NewRecorder()
		failing.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuthSessionRejectsAnonymous(t *testing.T) {
	handler := AuthSession(&fakeSessionRepo{}, zap.NewNop())(http.HandlerFunc(whoami))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.NewString())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin(t *testing.T) {
	admin := newSession(entity.RoleAdmin)
	customer := newSession(entity.RoleCustomer)

	sessions := &fakeSessionRepo{sessions: map[string]*entity.Session{
		admin.Token.String():    admin,
		customer.Token.String(): customer,
	}}
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		admin.UserID:    {Base: entity.Base{ID: admin.UserID}, Role: entity.RoleAdmin},
		customer.UserID: {Base: entity.Base{ID: customer.UserID}, Role: entity.RoleCustomer},
	}}

	handler := AuthSession(sessions, zap.NewNop())(
		Admin(users, zap.NewNop())(http.HandlerFunc(whoami)),
	)

	serve := func(token uuid.UUID) int {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/jobs/update-availability", nil)
		req.Header.Set("Authorization", "Bearer "+token.String())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve(admin.Token))
	assert.Equal(t, http.StatusForbidden, serve(customer.Token))
}
