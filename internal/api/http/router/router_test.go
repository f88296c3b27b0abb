package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkazak/authgate/internal/mocks"
	"github.com/mkazak/authgate/internal/model"
	"github.com/mkazak/authgate/internal/testutil"
	"github.com/mkazak/authgate/internal/token"
)

// stubAuthService answers every flow with canned values; the router tests
// only care about reachability and guarding, not flow logic.
type stubAuthService struct {
	calls []string
}

func (s *stubAuthService) note(name string) {
	s.calls = append(s.calls, name)
}

func (s *stubAuthService) Register(context.Context, string, string, string) (model.User, model.TokenPair, error) {
	s.note("Register")
	return model.User{ID: uuid.New()}, model.TokenPair{}, nil
}

func (s *stubAuthService) Login(context.Context, string, string) (model.User, model.TokenPair, error) {
	s.note("Login")
	return model.User{ID: uuid.New()}, model.TokenPair{}, nil
}

func (s *stubAuthService) Logout(context.Context, string) error {
	s.note("Logout")
	return nil
}

func (s *stubAuthService) Refresh(context.Context, string) (model.TokenPair, error) {
	s.note("Refresh")
	return model.TokenPair{}, nil
}

func (s *stubAuthService) RequestPasswordReset(context.Context, string) error {
	s.note("RequestPasswordReset")
	return nil
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) error {
	s.note("ResetPassword")
	return nil
}

func (s *stubAuthService) SendVerificationEmail(context.Context, model.User) error {
	s.note("SendVerificationEmail")
	return nil
}

func (s *stubAuthService) VerifyEmail(context.Context, string) error {
	s.note("VerifyEmail")
	return nil
}

type stubUserService struct{}

func (stubUserService) Create(context.Context, string, string, string, model.Role) (model.User, error) {
	return model.User{ID: uuid.New()}, nil
}

func (stubUserService) List(context.Context, model.UserFilter) ([]model.User, error) {
	return nil, nil
}

func (stubUserService) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	return model.User{ID: id}, nil
}

func (stubUserService) Update(_ context.Context, id uuid.UUID, _ model.UserUpdate) (model.User, error) {
	return model.User{ID: id}, nil
}

func (stubUserService) Delete(context.Context, uuid.UUID) error {
	return nil
}

type routerFixture struct {
	app    *fiber.App
	auth   *stubAuthService
	signer model.TokenSigner
	users  *mocks.UserStore
}

func newRouterFixture() *routerFixture {
	auth := &stubAuthService{}
	users := &mocks.UserStore{}
	signer := token.NewJWT("router-secret")

	r := New(auth, stubUserService{}, signer, users, model.DefaultRights(), testutil.MakeNoopLogger())
	return &routerFixture{app: r.Register(), auth: auth, signer: signer, users: users}
}

func (f *routerFixture) bearerFor(t *testing.T, role model.Role) string {
	t.Helper()

	userID := uuid.New()
	f.users.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, Role: role}, nil)

	signed, err := f.signer.Sign(userID, model.KindAccess, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return signed
}

func (f *routerFixture) do(t *testing.T, method, path, bearer string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","password":"password1","refresh_token":"x"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRouter_PublicAuthRoutes(t *testing.T) {
	f := newRouterFixture()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/v1/auth/register", fiber.StatusCreated},
		{"/v1/auth/login", fiber.StatusOK},
		{"/v1/auth/logout", fiber.StatusNoContent},
		{"/v1/auth/refresh-tokens", fiber.StatusOK},
		{"/v1/auth/forgot-password", fiber.StatusNoContent},
		{"/v1/auth/reset-password?token=x", fiber.StatusNoContent},
		{"/v1/auth/verify-email?token=x", fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRouter_SendVerificationEmailRequiresAuth(t *testing.T) {
	f := newRouterFixture()

	resp := f.do(t, http.MethodPost, "/v1/auth/send-verification-email", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, f.auth.calls, "SendVerificationEmail")

	resp = f.do(t, http.MethodPost, "/v1/auth/send-verification-email", f.bearerFor(t, model.RoleUser))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Contains(t, f.auth.calls, "SendVerificationEmail")
}

func TestRouter_UserRoutesGuarded(t *testing.T) {
	f := newRouterFixture()
	userBearer := f.bearerFor(t, model.RoleUser)
	adminBearer := f.bearerFor(t, model.RoleAdmin)

	id := uuid.NewString()

	tests := []struct {
		name       string
		method     string
		path       string
		bearer     string
		wantStatus int
	}{
		{"list anonymous", http.MethodGet, "/v1/users/", "", fiber.StatusUnauthorized},
		{"list as user", http.MethodGet, "/v1/users/", userBearer, fiber.StatusForbidden},
		{"list as admin", http.MethodGet, "/v1/users/", adminBearer, fiber.StatusOK},
		{"create as user", http.MethodPost, "/v1/users/", userBearer, fiber.StatusForbidden},
		{"create as admin", http.MethodPost, "/v1/users/", adminBearer, fiber.StatusCreated},
		{"get as admin", http.MethodGet, "/v1/users/" + id, adminBearer, fiber.StatusOK},
		{"get other as user", http.MethodGet, "/v1/users/" + id, userBearer, fiber.StatusForbidden},
		{"delete as user", http.MethodDelete, "/v1/users/" + id, userBearer, fiber.StatusForbidden},
		{"delete as admin", http.MethodDelete, "/v1/users/" + id, adminBearer, fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, tt.method, tt.path, tt.bearer)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRouter_SelfAccessOnUserRoutes(t *testing.T) {
	f := newRouterFixture()

	userID := uuid.New()
	f.users.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, Role: model.RoleUser}, nil)

	bearer, err := f.signer.Sign(userID, model.KindAccess, time.Now().Add(time.Minute))
	require.NoError(t, err)

	resp := f.do(t, http.MethodGet, "/v1/users/"+userID.String(), bearer)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPatch, "/v1/users/"+userID.String(), bearer)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
