package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkazak/authgate/internal/api/http/handler"
	"github.com/mkazak/authgate/internal/api/http/middleware"
	"github.com/mkazak/authgate/internal/mocks"
	"github.com/mkazak/authgate/internal/model"
	"github.com/mkazak/authgate/internal/testutil"
	"github.com/mkazak/authgate/internal/token"
)

type authFixture struct {
	app    *fiber.App
	signer model.TokenSigner
	users  *mocks.UserStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	signer := token.NewJWT("middleware-secret")
	users := &mocks.UserStore{}
	auth := middleware.NewAuthenticate(signer, users, model.DefaultRights(), testutil.MakeNoopLogger())

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Get("/open", auth.Require(), func(c *fiber.Ctx) error {
		principal, ok := middleware.Principal(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "no principal")
		}
		return c.JSON(principal)
	})
	app.Get("/users", auth.Require(model.RightGetUsers), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/users/:userId", auth.Require(model.RightGetUsers), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return &authFixture{app: app, signer: signer, users: users}
}

func (f *authFixture) sign(t *testing.T, userID uuid.UUID, kind model.TokenKind) string {
	t.Helper()
	signed, err := f.signer.Sign(userID, kind, time.Now().Add(5*time.Minute))
	require.NoError(t, err)
	return signed
}

func (f *authFixture) request(t *testing.T, path, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthenticate_MissingToken(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.request(t, "/open", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.request(t, "/open", "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	f := newAuthFixture(t)

	// A valid signature is not enough; any non-access kind is refused.
	resp := f.request(t, "/open", f.sign(t, uuid.New(), model.KindRefresh))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_PrincipalGone(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()

	f.users.On("GetByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound).Once()

	resp := f.request(t, "/open", f.sign(t, userID, model.KindAccess))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_NoRightsRequired(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()

	f.users.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, Role: model.RoleUser}, nil).Once()

	resp := f.request(t, "/open", f.sign(t, userID, model.KindAccess))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticate_AdminGranted(t *testing.T) {
	f := newAuthFixture(t)
	adminID := uuid.New()

	f.users.On("GetByID", mock.Anything, adminID).
		Return(model.User{ID: adminID, Role: model.RoleAdmin}, nil).Once()

	resp := f.request(t, "/users", f.sign(t, adminID, model.KindAccess))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticate_UserForbidden(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()

	f.users.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, Role: model.RoleUser}, nil).Once()

	resp := f.request(t, "/users", f.sign(t, userID, model.KindAccess))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthenticate_SelfAccess(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()

	f.users.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, Role: model.RoleUser}, nil).Twice()

	// A plain user may address their own record.
	resp := f.request(t, "/users/"+userID.String(), f.sign(t, userID, model.KindAccess))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// But not somebody else's.
	resp = f.request(t, "/users/"+uuid.NewString(), f.sign(t, userID, model.KindAccess))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
